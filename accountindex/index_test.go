// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package accountindex_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/accountindex"
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/storage"
)

func setup(t *testing.T) (*storage.Store, func()) {
	dir, err := ioutil.TempDir("", "accountindex-test")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	s, err := storage.Open(filepath.Join(dir, "index.leveldb"), storage.ReadWrite)
	if nil != err {
		os.RemoveAll(dir)
		t.Fatalf("storage open error: %s", err)
	}
	return s, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}

func newAccount(t *testing.T, owner string, subaccount []byte) *account.Account {
	a, err := account.New([]byte(owner), subaccount)
	if nil != err {
		t.Fatalf("account.New error: %s", err)
	}
	return a
}

func insert(t *testing.T, s *storage.Store, ix *accountindex.Index, a *account.Account, numbers ...uint64) {
	trx, err := s.Begin()
	assert.Nil(t, err, "begin error")
	for _, n := range numbers {
		ix.Insert(trx, a, n)
	}
	assert.Nil(t, trx.Commit(), "commit error")
}

func uint64Pointer(n uint64) *uint64 {
	return &n
}

func TestRangeDescending(t *testing.T) {
	s, done := setup(t)
	defer done()

	ix := accountindex.New(s)
	alice := newAccount(t, "alice", nil)
	bob := newAccount(t, "bob", nil)

	insert(t, s, ix, alice, 2, 5)
	insert(t, s, ix, bob, 3, 4)
	insert(t, s, ix, alice, 9)

	numbers, err := ix.RangeDesc(alice, nil, 100)
	assert.Nil(t, err, "range error")
	assert.Equal(t, []uint64{9, 5, 2}, numbers, "wrong order")

	numbers, err = ix.RangeDesc(alice, uint64Pointer(5), 100)
	assert.Nil(t, err, "range error")
	assert.Equal(t, []uint64{2}, numbers, "start not exclusive")

	numbers, err = ix.RangeDesc(alice, uint64Pointer(6), 100)
	assert.Nil(t, err, "range error")
	assert.Equal(t, []uint64{5, 2}, numbers, "wrong range below start")

	numbers, err = ix.RangeDesc(alice, uint64Pointer(0), 100)
	assert.Nil(t, err, "range error")
	assert.Equal(t, []uint64{}, numbers, "numbers below zero")

	numbers, err = ix.RangeDesc(alice, nil, 2)
	assert.Nil(t, err, "range error")
	assert.Equal(t, []uint64{9, 5}, numbers, "count not applied")

	numbers, err = ix.RangeDesc(bob, nil, 100)
	assert.Nil(t, err, "range error")
	assert.Equal(t, []uint64{4, 3}, numbers, "accounts not separated")

	_, err = ix.RangeDesc(bob, nil, -1)
	assert.Equal(t, fault.InvalidCount, err, "negative count accepted")
}

func TestUnknownAccount(t *testing.T) {
	s, done := setup(t)
	defer done()

	ix := accountindex.New(s)
	insert(t, s, ix, newAccount(t, "alice", nil), 1)

	carol := newAccount(t, "carol", nil)
	numbers, err := ix.RangeDesc(carol, nil, 10)
	assert.Nil(t, err, "range error")
	assert.Equal(t, 0, len(numbers), "numbers for unknown account")

	_, found := ix.Oldest(carol)
	assert.False(t, found, "oldest for unknown account")
}

func TestOldest(t *testing.T) {
	s, done := setup(t)
	defer done()

	ix := accountindex.New(s)
	alice := newAccount(t, "alice", nil)
	insert(t, s, ix, alice, 2, 5, 9)

	// a neighbouring hash must not be picked up
	insert(t, s, ix, newAccount(t, "alice2", nil), 0)

	oldest, found := ix.Oldest(alice)
	assert.True(t, found, "no oldest")
	assert.Equal(t, uint64(2), oldest, "wrong oldest")
}

func TestSubaccounts(t *testing.T) {
	s, done := setup(t)
	defer done()

	ix := accountindex.New(s)
	plain := newAccount(t, "alice", nil)
	zero := newAccount(t, "alice", make([]byte, account.SubaccountLength))
	other := newAccount(t, "alice", bytes.Repeat([]byte{0x07}, account.SubaccountLength))

	insert(t, s, ix, plain, 1)
	insert(t, s, ix, zero, 2)
	insert(t, s, ix, other, 3)

	numbers, err := ix.RangeDesc(plain, nil, 10)
	assert.Nil(t, err, "range error")
	assert.Equal(t, []uint64{2, 1}, numbers, "zero subaccount not the same account")

	numbers, err = ix.RangeDesc(other, nil, 10)
	assert.Nil(t, err, "range error")
	assert.Equal(t, []uint64{3}, numbers, "subaccounts not separated")
}

func TestUncommittedInsertInvisible(t *testing.T) {
	s, done := setup(t)
	defer done()

	ix := accountindex.New(s)
	alice := newAccount(t, "alice", nil)

	trx, _ := s.Begin()
	ix.Insert(trx, alice, 1)

	numbers, _ := ix.RangeDesc(alice, nil, 10)
	assert.Equal(t, 0, len(numbers), "uncommitted entry visible")

	trx.Abort()
}
