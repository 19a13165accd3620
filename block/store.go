// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"

	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/storage"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

// key in the state pool holding the number of stored blocks
var countKey = []byte("count")

// Store - the append only block log
//
// block n is stored under its big endian number, the count of blocks
// is kept alongside so Len needs no scan
type Store struct {
	pools   *storage.Store
	maximum uint64
}

// New - block log over an open database
//
// maximum limits the number of blocks that can be stored, zero means
// no limit
func New(s *storage.Store, maximum uint64) *Store {
	return &Store{
		pools:   s,
		maximum: maximum,
	}
}

// Len - number of committed blocks
func (bs *Store) Len() uint64 {
	n, _ := bs.pools.Pool.State.GetN(countKey)
	return n
}

// PendingLen - number of blocks including those appended in trx
func (bs *Store) PendingLen(trx storage.Transaction) uint64 {
	n, _ := trx.GetN(bs.pools.Pool.State, countKey)
	return n
}

// Append - add a block at the next number
//
// returns the number assigned to the block
func (bs *Store) Append(trx storage.Transaction, packed transactionrecord.Packed) (uint64, error) {
	n := bs.PendingLen(trx)
	if 0 != bs.maximum && n >= bs.maximum {
		return 0, fault.OutOfSpace
	}

	trx.Put(bs.pools.Pool.Blocks, numberKey(n), packed)
	trx.PutN(bs.pools.Pool.State, countKey, n+1)
	return n, nil
}

// Get - fetch a committed block
func (bs *Store) Get(number uint64) (transactionrecord.Packed, error) {
	if number >= bs.Len() {
		return nil, fault.MissingBlock
	}
	packed := bs.pools.Pool.Blocks.Get(numberKey(number))
	if nil == packed {
		return nil, fault.MissingBlock
	}
	return transactionrecord.Packed(packed), nil
}

// Range - committed blocks [start, start+length) that exist
//
// indices at or beyond Len are omitted, the chain length is returned
// with the blocks so both come from the same read
func (bs *Store) Range(start uint64, length uint64) ([]transactionrecord.Packed, uint64) {
	chainLength := bs.Len()
	if start >= chainLength || 0 == length {
		return []transactionrecord.Packed{}, chainLength
	}
	if length > chainLength-start {
		length = chainLength - start
	}

	blocks := make([]transactionrecord.Packed, 0, length)
	cursor := bs.pools.Pool.Blocks.NewFetchCursor().
		Seek(numberKey(start)).
		Limit(numberKey(start + length))

	err := cursor.Map(func(key []byte, value []byte) error {
		blocks = append(blocks, transactionrecord.Packed(value))
		return nil
	})
	fault.PanicIfError("block.Range", err)

	return blocks, chainLength
}

func numberKey(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}
