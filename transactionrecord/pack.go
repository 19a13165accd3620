// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/ugorji/go/codec"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/fault"
)

// Pack - encode a transaction in the ledger block format
//
// the index never writes blocks of its own; this exists for tools
// and tests that need to play the part of a ledger
func (tx *Transaction) Pack() (Packed, error) {

	block := packedBlock{
		ParentHash: tx.ParentHash,
		Timestamp:  tx.Timestamp,
		Transaction: packedTransaction{
			Operation:     string(tx.Kind),
			Memo:          tx.Memo,
			CreatedAtTime: tx.CreatedAtTime,
		},
	}
	ptx := &block.Transaction

	switch tx.Kind {
	case BurnKind:
		if nil == tx.Burn || nil == tx.Burn.From {
			return nil, fault.MissingAccount
		}
		ptx.From = packAccount(tx.Burn.From)
		ptx.Amount = &tx.Burn.Amount

	case MintKind:
		if nil == tx.Mint || nil == tx.Mint.To {
			return nil, fault.MissingAccount
		}
		ptx.To = packAccount(tx.Mint.To)
		ptx.Amount = &tx.Mint.Amount

	case TransferKind:
		if nil == tx.Transfer || nil == tx.Transfer.From || nil == tx.Transfer.To {
			return nil, fault.MissingAccount
		}
		ptx.From = packAccount(tx.Transfer.From)
		ptx.To = packAccount(tx.Transfer.To)
		ptx.Amount = &tx.Transfer.Amount
		ptx.Fee = tx.Transfer.Fee

	default:
		return nil, fault.InvalidOperation
	}

	if nil != tx.FeeCollector {
		if nil != tx.FeeCollector.Account {
			block.FeeCollector = packAccount(tx.FeeCollector.Account)
		}
		block.FeeCollectorBlock = tx.FeeCollector.Block
	}

	var buffer []byte
	encoder := codec.NewEncoderBytes(&buffer, cborHandle)
	if err := encoder.Encode(&block); nil != err {
		return nil, err
	}
	return Packed(buffer), nil
}

func packAccount(a *account.Account) [][]byte {
	if nil == a.Subaccount {
		return [][]byte{a.Owner}
	}
	return [][]byte{a.Owner, a.Subaccount[:]}
}
