// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/ugorji/go/codec"
)

// CBOR layout of a block:
//
//   { "phash": bytes?, "ts": uint, "fee": uint?,
//     "fee_col": account?, "fee_col_block": uint?,
//     "tx": { "op": text, "from": account?, "to": account?,
//             "amt": uint, "fee": uint?, "memo": bytes?, "ts": uint? } }
//
//   account = [owner bytes] / [owner bytes, subaccount bytes]

type packedBlock struct {
	ParentHash        []byte            `codec:"phash,omitempty"`
	Timestamp         uint64            `codec:"ts"`
	Fee               *uint64           `codec:"fee,omitempty"`
	FeeCollector      [][]byte          `codec:"fee_col,omitempty"`
	FeeCollectorBlock *uint64           `codec:"fee_col_block,omitempty"`
	Transaction       packedTransaction `codec:"tx"`
}

type packedTransaction struct {
	Operation     string   `codec:"op"`
	From          [][]byte `codec:"from,omitempty"`
	To            [][]byte `codec:"to,omitempty"`
	Amount        *uint64  `codec:"amt,omitempty"`
	Fee           *uint64  `codec:"fee,omitempty"`
	Memo          []byte   `codec:"memo,omitempty"`
	CreatedAtTime *uint64  `codec:"ts,omitempty"`
}

// shared handle, configured once before any use
var cborHandle = newHandle()

func newHandle() *codec.CborHandle {
	h := &codec.CborHandle{}
	h.Canonical = true
	return h
}

// CBOR - the handle used for block and upstream encoding
func CBOR() *codec.CborHandle {
	return cborHandle
}
