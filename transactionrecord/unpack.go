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

// Unpack - turn an encoded block into a transaction
//
// any failure is a RecordError: the ledger produced something this
// index does not understand
func (record Packed) Unpack() (t *Transaction, e error) {

	defer func() {
		if r := recover(); nil != r {
			t = nil
			e = fault.InvalidBlockEncoding
		}
	}()

	if 0 == len(record) {
		return nil, fault.InvalidBlockEncoding
	}

	var block packedBlock
	decoder := codec.NewDecoderBytes(record, cborHandle)
	if err := decoder.Decode(&block); nil != err {
		return nil, fault.RecordError(fault.InvalidBlockEncoding.Error() + ": " + err.Error())
	}

	ptx := &block.Transaction
	if nil == ptx.Amount {
		return nil, fault.MissingAmount
	}

	tx := &Transaction{
		Kind:          Kind(ptx.Operation),
		Timestamp:     block.Timestamp,
		CreatedAtTime: ptx.CreatedAtTime,
		Memo:          ptx.Memo,
		ParentHash:    block.ParentHash,
	}

	switch tx.Kind {

	case BurnKind:
		from, err := unpackAccount(ptx.From)
		if nil != err {
			return nil, err
		}
		tx.Burn = &Burn{
			From:   from,
			Amount: *ptx.Amount,
		}

	case MintKind:
		to, err := unpackAccount(ptx.To)
		if nil != err {
			return nil, err
		}
		tx.Mint = &Mint{
			To:     to,
			Amount: *ptx.Amount,
		}

	case TransferKind:
		from, err := unpackAccount(ptx.From)
		if nil != err {
			return nil, err
		}
		to, err := unpackAccount(ptx.To)
		if nil != err {
			return nil, err
		}

		// an explicit transaction fee overrides the block fee
		fee := ptx.Fee
		if nil == fee {
			fee = block.Fee
		}
		tx.Transfer = &Transfer{
			From:   from,
			To:     to,
			Amount: *ptx.Amount,
			Fee:    fee,
		}

	default:
		return nil, fault.InvalidOperation
	}

	if 0 != len(block.FeeCollector) || nil != block.FeeCollectorBlock {
		tx.FeeCollector = &FeeCollector{
			Block: block.FeeCollectorBlock,
		}
		if 0 != len(block.FeeCollector) {
			collector, err := unpackAccount(block.FeeCollector)
			if nil != err {
				return nil, err
			}
			tx.FeeCollector.Account = collector
		}
	}

	return tx, nil
}

// account = [owner] / [owner, subaccount]
func unpackAccount(values [][]byte) (*account.Account, error) {
	var a *account.Account
	var err error

	switch len(values) {
	case 0:
		return nil, fault.MissingAccount
	case 1:
		a, err = account.New(values[0], nil)
	case 2:
		a, err = account.New(values[0], values[1])
	default:
		return nil, fault.InvalidBlockAccount
	}
	if nil != err {
		return nil, fault.InvalidBlockAccount
	}
	return a, nil
}
