// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/ledgerindexd/fault"
)

// batched access to the database
type access interface {
	Abort()
	Begin() error
	Commit() error
	Get([]byte) ([]byte, error)
	Put([]byte, []byte)
}

type accessData struct {
	sync.Mutex
	inUse bool
	db    *leveldb.DB
	batch *leveldb.Batch
	cache overlay
}

func newAccess(db *leveldb.DB) access {
	return &accessData{
		inUse: false,
		db:    db,
		batch: new(leveldb.Batch),
		cache: newCache(),
	}
}

func (d *accessData) Begin() error {
	d.Lock()
	defer d.Unlock()

	if d.inUse {
		return fault.TransactionInUse
	}

	d.inUse = true
	return nil
}

func (d *accessData) Put(key []byte, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	d.cache.Set(string(key), v)
	d.batch.Put(key, v)
}

// Commit - write the whole batch at once
//
// on failure nothing is written and the batch is discarded
func (d *accessData) Commit() error {
	d.Lock()
	defer d.Unlock()

	err := d.db.Write(d.batch, nil)
	d.reset()
	if nil != err {
		return fault.StorageError("commit failed: " + err.Error())
	}
	return nil
}

func (d *accessData) Get(key []byte) ([]byte, error) {
	if val, found := d.cache.Get(string(key)); found {
		return val, nil
	}
	return d.db.Get(key, nil)
}

func (d *accessData) Abort() {
	d.Lock()
	defer d.Unlock()
	d.reset()
}

func (d *accessData) reset() {
	d.batch.Reset()
	d.cache.Clear()
	d.inUse = false
}
