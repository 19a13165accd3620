// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/ledgerindexd/fault"
)

// Transaction - a batch of writes across all pools
//
// reads through a transaction see its own uncommitted writes, reads
// through a PoolHandle see only committed data
type Transaction interface {
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	Commit() error
	Abort()
}

type transaction struct {
	store  *Store
	access access
}

func newTransaction(s *Store, a access) *transaction {
	return &transaction{
		store:  s,
		access: a,
	}
}

func (t *transaction) begin() error {
	return t.access.Begin()
}

func (t *transaction) Put(p *PoolHandle, key []byte, value []byte) {
	t.access.Put(p.prefixKey(key), value)
}

func (t *transaction) PutN(p *PoolHandle, key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	t.access.Put(p.prefixKey(key), buffer)
}

func (t *transaction) Get(p *PoolHandle, key []byte) []byte {
	t.store.RLock()
	defer t.store.RUnlock()

	value, err := t.access.Get(p.prefixKey(key))
	if leveldb.ErrNotFound == err {
		return nil
	}
	fault.PanicIfError("transaction.Get", err)
	return value
}

func (t *transaction) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	return decodeN(key, t.Get(p, key))
}

func (t *transaction) Commit() error {
	t.store.RLock()
	defer t.store.RUnlock()

	if nil == t.store.db {
		t.access.Abort()
		return fault.NotInitialised
	}
	return t.access.Commit()
}

func (t *transaction) Abort() {
	t.access.Abort()
}
