// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ugorji/go/codec"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

func makeAccount(t *testing.T, owner string, subaccount byte) *account.Account {
	var sub []byte
	if 0 != subaccount {
		sub = bytes.Repeat([]byte{subaccount}, account.SubaccountLength)
	}
	a, err := account.New([]byte(owner), sub)
	if nil != err {
		t.Fatalf("account.New error: %s", err)
	}
	return a
}

// encode an arbitrary map as a block, for shapes Pack will not produce
func encodeRaw(t *testing.T, block map[string]interface{}) transactionrecord.Packed {
	var buffer []byte
	err := codec.NewEncoderBytes(&buffer, transactionrecord.CBOR()).Encode(block)
	if nil != err {
		t.Fatalf("encode error: %s", err)
	}
	return buffer
}

func uint64Pointer(n uint64) *uint64 {
	return &n
}

func TestUnpackMint(t *testing.T) {
	to := makeAccount(t, "minting-owner", 0)

	tx := &transactionrecord.Transaction{
		Kind:      transactionrecord.MintKind,
		Mint:      &transactionrecord.Mint{To: to, Amount: 1000},
		Timestamp: 1600000000000000000,
		Memo:      []byte("first"),
	}
	packed, err := tx.Pack()
	assert.Nil(t, err, "pack error")

	unpacked, err := packed.Unpack()
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, transactionrecord.MintKind, unpacked.Kind, "wrong kind")
	assert.Nil(t, unpacked.Burn, "burn set")
	assert.Nil(t, unpacked.Transfer, "transfer set")
	assert.Equal(t, uint64(1000), unpacked.Mint.Amount, "wrong amount")
	assert.True(t, to.Equal(unpacked.Mint.To), "wrong recipient")
	assert.Equal(t, []byte("first"), unpacked.Memo, "wrong memo")
	assert.Equal(t, tx.Timestamp, unpacked.Timestamp, "wrong timestamp")

	accounts := unpacked.Accounts()
	assert.Equal(t, 1, len(accounts), "mint indexes one account")
}

func TestUnpackBurn(t *testing.T) {
	from := makeAccount(t, "burning-owner", 0x42)

	tx := &transactionrecord.Transaction{
		Kind:          transactionrecord.BurnKind,
		Burn:          &transactionrecord.Burn{From: from, Amount: 7},
		Timestamp:     12,
		CreatedAtTime: uint64Pointer(11),
	}
	packed, err := tx.Pack()
	assert.Nil(t, err, "pack error")

	unpacked, err := packed.Unpack()
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, transactionrecord.BurnKind, unpacked.Kind, "wrong kind")
	assert.True(t, from.Equal(unpacked.Burn.From), "wrong sender")
	assert.NotNil(t, unpacked.Burn.From.Subaccount, "subaccount lost")
	assert.Equal(t, uint64(11), *unpacked.CreatedAtTime, "wrong created at time")
}

func TestUnpackTransferFee(t *testing.T) {
	from := makeAccount(t, "alice", 0)
	to := makeAccount(t, "bob", 0x01)

	// transaction level fee
	tx := &transactionrecord.Transaction{
		Kind: transactionrecord.TransferKind,
		Transfer: &transactionrecord.Transfer{
			From:   from,
			To:     to,
			Amount: 50,
			Fee:    uint64Pointer(3),
		},
		Timestamp: 99,
	}
	packed, err := tx.Pack()
	assert.Nil(t, err, "pack error")

	unpacked, err := packed.Unpack()
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, uint64(3), *unpacked.Transfer.Fee, "wrong fee")
	assert.Equal(t, 2, len(unpacked.Accounts()), "transfer indexes two accounts")

	// block level fee only
	packed = encodeRaw(t, map[string]interface{}{
		"ts":  uint64(5),
		"fee": uint64(10),
		"tx": map[string]interface{}{
			"op":   "xfer",
			"from": [][]byte{[]byte("alice")},
			"to":   [][]byte{[]byte("bob")},
			"amt":  uint64(1),
		},
	})
	unpacked, err = packed.Unpack()
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, uint64(10), *unpacked.Transfer.Fee, "block fee not used")

	// both: transaction level wins
	packed = encodeRaw(t, map[string]interface{}{
		"ts":  uint64(5),
		"fee": uint64(10),
		"tx": map[string]interface{}{
			"op":   "xfer",
			"from": [][]byte{[]byte("alice")},
			"to":   [][]byte{[]byte("bob")},
			"amt":  uint64(1),
			"fee":  uint64(2),
		},
	})
	unpacked, err = packed.Unpack()
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, uint64(2), *unpacked.Transfer.Fee, "transaction fee not preferred")
}

func TestUnpackFeeCollector(t *testing.T) {
	packed := encodeRaw(t, map[string]interface{}{
		"ts":            uint64(5),
		"fee_col_block": uint64(4),
		"tx": map[string]interface{}{
			"op":  "mint",
			"to":  [][]byte{[]byte("bob")},
			"amt": uint64(1),
		},
	})
	unpacked, err := packed.Unpack()
	assert.Nil(t, err, "unpack error")
	assert.NotNil(t, unpacked.FeeCollector, "missing fee collector")
	assert.Nil(t, unpacked.FeeCollector.Account, "unexpected collector account")
	assert.Equal(t, uint64(4), *unpacked.FeeCollector.Block, "wrong collector block")
}

func TestUnpackInvalid(t *testing.T) {
	items := []struct {
		name   string
		packed transactionrecord.Packed
		err    error
	}{
		{
			name:   "empty",
			packed: transactionrecord.Packed{},
			err:    fault.InvalidBlockEncoding,
		},
		{
			name: "unknown operation",
			packed: encodeRaw(t, map[string]interface{}{
				"ts": uint64(1),
				"tx": map[string]interface{}{
					"op":  "approve",
					"amt": uint64(1),
				},
			}),
			err: fault.InvalidOperation,
		},
		{
			name: "mint without recipient",
			packed: encodeRaw(t, map[string]interface{}{
				"ts": uint64(1),
				"tx": map[string]interface{}{
					"op":  "mint",
					"amt": uint64(1),
				},
			}),
			err: fault.MissingAccount,
		},
		{
			name: "transfer without sender",
			packed: encodeRaw(t, map[string]interface{}{
				"ts": uint64(1),
				"tx": map[string]interface{}{
					"op":  "xfer",
					"to":  [][]byte{[]byte("bob")},
					"amt": uint64(1),
				},
			}),
			err: fault.MissingAccount,
		},
		{
			name: "missing amount",
			packed: encodeRaw(t, map[string]interface{}{
				"ts": uint64(1),
				"tx": map[string]interface{}{
					"op":   "burn",
					"from": [][]byte{[]byte("alice")},
				},
			}),
			err: fault.MissingAmount,
		},
		{
			name: "short subaccount",
			packed: encodeRaw(t, map[string]interface{}{
				"ts": uint64(1),
				"tx": map[string]interface{}{
					"op":   "burn",
					"from": [][]byte{[]byte("alice"), []byte{1, 2, 3}},
					"amt":  uint64(1),
				},
			}),
			err: fault.InvalidBlockAccount,
		},
	}

	for _, item := range items {
		tx, err := item.packed.Unpack()
		assert.Nil(t, tx, "%s: transaction returned", item.name)
		assert.Equal(t, item.err, err, "%s: wrong error", item.name)
		assert.True(t, fault.IsErrRecord(err), "%s: not a record error", item.name)
	}

	// garbage only needs to be classed as a record error
	_, err := transactionrecord.Packed{0xff, 0x00, 0x13}.Unpack()
	assert.True(t, fault.IsErrRecord(err), "garbage not a record error: %v", err)
}

func TestUnpackIsRepeatable(t *testing.T) {
	tx := &transactionrecord.Transaction{
		Kind:      transactionrecord.MintKind,
		Mint:      &transactionrecord.Mint{To: makeAccount(t, "carol", 0), Amount: 1},
		Timestamp: 1,
	}
	packed, err := tx.Pack()
	assert.Nil(t, err, "pack error")

	first, err := packed.Unpack()
	assert.Nil(t, err, "first unpack error")
	second, err := packed.Unpack()
	assert.Nil(t, err, "second unpack error")
	assert.Equal(t, first, second, "unpack not repeatable")
}

func TestPackInvalid(t *testing.T) {
	_, err := (&transactionrecord.Transaction{Kind: "approve"}).Pack()
	assert.Equal(t, fault.InvalidOperation, err, "wrong error")

	_, err = (&transactionrecord.Transaction{Kind: transactionrecord.TransferKind}).Pack()
	assert.Equal(t, fault.MissingAccount, err, "wrong error")
}
