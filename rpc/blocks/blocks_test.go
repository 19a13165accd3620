// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocks_test

import (
	"encoding/hex"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/fixtures"
	"github.com/bitmark-inc/ledgerindexd/rpc/blocks"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

func TestGet(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	stored := []transactionrecord.Packed{
		fixtures.Mint(t, "alice", 1, 1),
		fixtures.Mint(t, "alice", 2, 2),
		fixtures.Mint(t, "alice", 3, 3),
	}
	service, done := fixtures.NewService(t, 2, stored...)
	defer done()

	b := blocks.New(logger.New(fixtures.LogCategory), service)

	var reply blocks.GetReply
	err := b.Get(&blocks.GetArguments{Start: 0, Count: 10000000}, &reply)
	assert.Nil(t, err, "wrong Get")
	assert.Equal(t, uint64(3), reply.ChainLength, "wrong chain length")
	if assert.Equal(t, 2, len(reply.Blocks), "count not clamped") {
		assert.Equal(t, hex.EncodeToString(stored[1]), reply.Blocks[1], "wrong block")
	}
}

func TestGetOutOfRange(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	service, done := fixtures.NewService(t, 100, fixtures.Mint(t, "alice", 1, 1))
	defer done()

	b := blocks.New(logger.New(fixtures.LogCategory), service)

	var reply blocks.GetReply
	err := b.Get(&blocks.GetArguments{Start: 100, Count: 5}, &reply)
	assert.Nil(t, err, "out of range is an error")
	assert.Equal(t, uint64(1), reply.ChainLength, "wrong chain length")
	assert.Equal(t, 0, len(reply.Blocks), "blocks out of range")
}
