// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/ledgerindexd/fault"
)

// FetchCursor - cursor structure
type FetchCursor struct {
	pool     *PoolHandle
	maxRange ldb_util.Range
}

// NewFetchCursor - initialise a cursor to the start of a key range
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		pool:     p,
		maxRange: p.fullRange(),
	}
}

// Seek - move cursor to specific key position, included in the range
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.maxRange.Start = cursor.pool.prefixKey(key)
	return cursor
}

// Limit - end the range just before this key
func (cursor *FetchCursor) Limit(key []byte) *FetchCursor {
	cursor.maxRange.Limit = cursor.pool.prefixKey(key)
	return cursor
}

// Prefix - restrict the range to keys starting with these bytes
func (cursor *FetchCursor) Prefix(key []byte) *FetchCursor {
	r := ldb_util.BytesPrefix(cursor.pool.prefixKey(key))
	cursor.maxRange = *r
	return cursor
}

// Fetch - return some elements starting from the current position
// and advance past them
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.InvalidCursor
	}
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	results := make([]Element, 0, count)
	err := cursor.iterate(func(iter iterator.Iterator) bool {
		results = append(results, element(iter))
		return len(results) < count
	})

	if n := len(results); n > 0 {
		// the smallest key after the last one returned
		next := cursor.pool.prefixKey(results[n-1].Key)
		cursor.maxRange.Start = append(next, 0x00)
	}
	return results, err
}

// Map - run a function on all elements in the range
func (cursor *FetchCursor) Map(f func(key []byte, value []byte) error) error {
	if nil == cursor {
		return fault.InvalidCursor
	}

	var err error
	iterErr := cursor.iterate(func(iter iterator.Iterator) bool {
		e := element(iter)
		err = f(e.Key, e.Value)
		return nil == err
	})
	if nil == err {
		err = iterErr
	}
	return err
}

// Last - the final element of the range
func (cursor *FetchCursor) Last() (Element, bool) {
	store := cursor.pool.store
	store.RLock()
	defer store.RUnlock()
	if nil == store.db {
		return Element{}, false
	}

	iter := store.db.NewIterator(&cursor.maxRange, nil)
	found := false
	result := Element{}
	if iter.Last() {
		result = element(iter)
		found = true
	}
	iter.Release()
	fault.PanicIfError("cursor.Last", iter.Error())
	return result, found
}

// run f on successive items until it returns false
func (cursor *FetchCursor) iterate(f func(iterator.Iterator) bool) error {
	store := cursor.pool.store
	store.RLock()
	defer store.RUnlock()
	if nil == store.db {
		return nil
	}

	iter := store.db.NewIterator(&cursor.maxRange, nil)
	for iter.Next() {
		if !f(iter) {
			break
		}
	}
	iter.Release()
	return iter.Error()
}

// copy out the current item with the prefix stripped
//
// contents of the iterator slices must not be modified, and are only
// valid until the next call to Next
func element(iter iterator.Iterator) Element {
	key := iter.Key()
	value := iter.Value()

	dataKey := make([]byte, len(key)-1)
	copy(dataKey, key[1:])

	dataValue := make([]byte, len(value))
	copy(dataValue, value)

	return Element{
		Key:   dataKey,
		Value: dataValue,
	}
}
