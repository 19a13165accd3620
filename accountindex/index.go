// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package accountindex - per account list of block numbers, newest first
//
// each entry key is the account hash followed by the complement of
// the block number, so a forward scan of one account's keys visits
// its blocks in descending order
package accountindex

import (
	"encoding/binary"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/storage"
)

const keyLength = account.HashLength + 8

// Index - the account index pool
type Index struct {
	pools *storage.Store
}

// New - account index over an open database
func New(s *storage.Store) *Index {
	return &Index{
		pools: s,
	}
}

// Insert - record that a block touches an account
func (ix *Index) Insert(trx storage.Transaction, a *account.Account, number uint64) {
	hash := a.Hash()
	trx.Put(ix.pools.Pool.Accounts, makeKey(hash, number), []byte{})
}

// RangeDesc - committed block numbers of an account in descending order
//
// with a start only numbers strictly less than it are returned; at
// most count numbers are returned
func (ix *Index) RangeDesc(a *account.Account, start *uint64, count int) ([]uint64, error) {
	if count < 0 {
		return nil, fault.InvalidCount
	}
	if 0 == count || (nil != start && 0 == *start) {
		return []uint64{}, nil
	}

	hash := a.Hash()
	cursor := ix.pools.Pool.Accounts.NewFetchCursor().Prefix(hash[:])
	if nil != start {
		cursor.Seek(makeKey(hash, *start-1))
	}

	elements, err := cursor.Fetch(count)
	if nil != err {
		return nil, err
	}

	numbers := make([]uint64, 0, len(elements))
	for _, e := range elements {
		numbers = append(numbers, numberFromKey(e.Key))
	}
	return numbers, nil
}

// Oldest - lowest block number of an account
//
// the last key of the account's range, found with a single seek
func (ix *Index) Oldest(a *account.Account) (uint64, bool) {
	hash := a.Hash()
	e, found := ix.pools.Pool.Accounts.NewFetchCursor().Prefix(hash[:]).Last()
	if !found {
		return 0, false
	}
	return numberFromKey(e.Key), true
}

// hash ++ reversed block number
func makeKey(hash account.Hash, number uint64) []byte {
	key := make([]byte, keyLength)
	copy(key, hash[:])
	binary.BigEndian.PutUint64(key[account.HashLength:], ^number)
	return key
}

func numberFromKey(key []byte) uint64 {
	if keyLength != len(key) {
		fault.Panicf("accountindex: invalid key length: %d  key: %x", len(key), key)
	}
	return ^binary.BigEndian.Uint64(key[account.HashLength:])
}
