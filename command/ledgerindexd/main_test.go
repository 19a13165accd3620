// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/fixtures"
)

func TestOpenState(t *testing.T) {
	s, done := fixtures.NewStore(t)
	defer done()

	log := logger.New(fixtures.LogCategory)
	options := &Configuration{
		Ledger: "tcp://127.0.0.1:2140",
		Synchronise: SynchroniseType{
			MaxPageSize: 500,
		},
	}

	st, err := openState(log, s, options)
	if !assert.Nil(t, err, "first open error") {
		return
	}
	assert.True(t, st.IsInitialised(), "not initialised")
	assert.Equal(t, uint64(500), st.MaxPageSize(), "wrong page size")

	// reopening keeps the ledger and applies a new page size
	options.Synchronise.MaxPageSize = 100
	st, err = openState(log, s, options)
	if assert.Nil(t, err, "reopen error") {
		assert.Equal(t, uint64(100), st.MaxPageSize(), "page size not updated")
		ledger, err := st.LedgerId()
		assert.Nil(t, err, "ledger id error")
		assert.Equal(t, options.Ledger, ledger, "wrong ledger")
	}

	options.Ledger = "tcp://127.0.0.1:9999"
	_, err = openState(log, s, options)
	assert.Equal(t, fault.LedgerMismatch, err, "other ledger accepted")
}
