// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/ledgerindexd/account"
)

// Kind - the operation carried by a block
type Kind string

// supported operations, also the value of the "op" field
const (
	BurnKind     = Kind("burn")
	MintKind     = Kind("mint")
	TransferKind = Kind("xfer")
)

// Packed - an encoded block exactly as produced by the ledger
type Packed []byte

// Burn - tokens removed from an account
type Burn struct {
	From   *account.Account `json:"from"`
	Amount uint64           `json:"amount,string"`
}

// Mint - tokens created in an account
type Mint struct {
	To     *account.Account `json:"to"`
	Amount uint64           `json:"amount,string"`
}

// Transfer - tokens moved between two accounts
type Transfer struct {
	From   *account.Account `json:"from"`
	To     *account.Account `json:"to"`
	Amount uint64           `json:"amount,string"`
	Fee    *uint64          `json:"fee,omitempty"`
}

// FeeCollector - either an account or the block that first named it
type FeeCollector struct {
	Account *account.Account `json:"account,omitempty"`
	Block   *uint64          `json:"block,omitempty"`
}

// Transaction - the unpacked block
//
// exactly one of Burn, Mint and Transfer is set, selected by Kind
type Transaction struct {
	Kind          Kind          `json:"kind"`
	Burn          *Burn         `json:"burn,omitempty"`
	Mint          *Mint         `json:"mint,omitempty"`
	Transfer      *Transfer     `json:"transfer,omitempty"`
	Timestamp     uint64        `json:"timestamp,string"`
	CreatedAtTime *uint64       `json:"createdAtTime,omitempty"`
	Memo          []byte        `json:"memo,omitempty"`
	ParentHash    []byte        `json:"parentHash,omitempty"`
	FeeCollector  *FeeCollector `json:"feeCollector,omitempty"`
}

// Accounts - the accounts this transaction is indexed under
//
// one for mint and burn, two for transfer; the fee collector is
// not included
func (tx *Transaction) Accounts() []*account.Account {
	switch tx.Kind {
	case BurnKind:
		return []*account.Account{tx.Burn.From}
	case MintKind:
		return []*account.Account{tx.Mint.To}
	case TransferKind:
		return []*account.Account{tx.Transfer.From, tx.Transfer.To}
	default:
		return nil
	}
}
