// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared set up for package tests
package fixtures

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/accountindex"
	"github.com/bitmark-inc/ledgerindexd/block"
	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/state"
	"github.com/bitmark-inc/ledgerindexd/storage"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

const (
	testingDirName = "testing"
	LogCategory    = "testing"
)

// SetupTestLogger - log to a scratch directory at critical level
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	os.RemoveAll(testingDirName)
}

// NewStore - a fresh database in a temporary directory, with a
// function to close and remove it
func NewStore(t *testing.T) (*storage.Store, func()) {
	dir, err := ioutil.TempDir("", "ledgerindexd-test")
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

// Ledger - ledger reference of services created by NewService
const Ledger = "tcp://127.0.0.1:2140"

// NewService - a query service over a fresh database holding blocks
func NewService(t *testing.T, maxPageSize uint64, blocks ...transactionrecord.Packed) (*query.Service, func()) {
	s, done := NewStore(t)

	st := state.New(s)
	if err := st.Initialise(Ledger, maxPageSize); nil != err {
		done()
		t.Fatalf("initialise error: %s", err)
	}

	blockStore := block.New(s, 0)
	index := accountindex.New(s)

	trx, err := s.Begin()
	if nil != err {
		done()
		t.Fatalf("begin error: %s", err)
	}
	for _, packed := range blocks {
		tx, err := packed.Unpack()
		if nil != err {
			done()
			t.Fatalf("unpack error: %s", err)
		}
		n, err := blockStore.Append(trx, packed)
		if nil != err {
			done()
			t.Fatalf("append error: %s", err)
		}
		for _, a := range tx.Accounts() {
			index.Insert(trx, a, n)
		}
	}
	if err := trx.Commit(); nil != err {
		done()
		t.Fatalf("commit error: %s", err)
	}

	return query.New(logger.New(LogCategory), blockStore, index, st), done
}

// Account - an account with no subaccount
func Account(t *testing.T, owner string) *account.Account {
	a, err := account.New([]byte(owner), nil)
	if nil != err {
		t.Fatalf("account error: %s", err)
	}
	return a
}

// Mint - encoded mint block, the timestamp makes blocks distinct
func Mint(t *testing.T, to string, amount uint64, timestamp uint64) transactionrecord.Packed {
	return pack(t, &transactionrecord.Transaction{
		Kind:      transactionrecord.MintKind,
		Mint:      &transactionrecord.Mint{To: Account(t, to), Amount: amount},
		Timestamp: timestamp,
	})
}

// Transfer - encoded transfer block
func Transfer(t *testing.T, from string, to string, amount uint64, timestamp uint64) transactionrecord.Packed {
	return pack(t, &transactionrecord.Transaction{
		Kind: transactionrecord.TransferKind,
		Transfer: &transactionrecord.Transfer{
			From:   Account(t, from),
			To:     Account(t, to),
			Amount: amount,
		},
		Timestamp: timestamp,
	})
}

// Burn - encoded burn block
func Burn(t *testing.T, from string, amount uint64, timestamp uint64) transactionrecord.Packed {
	return pack(t, &transactionrecord.Transaction{
		Kind:      transactionrecord.BurnKind,
		Burn:      &transactionrecord.Burn{From: Account(t, from), Amount: amount},
		Timestamp: timestamp,
	})
}

// Corrupt - a block that cannot be decoded
func Corrupt() transactionrecord.Packed {
	return transactionrecord.Packed{0xa1, 0x62, 't', 'x', 0x01}
}

func pack(t *testing.T, tx *transactionrecord.Transaction) transactionrecord.Packed {
	packed, err := tx.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	return packed
}
