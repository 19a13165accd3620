// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"bytes"
	"encoding/hex"
	"net"
	"net/rpc/jsonrpc"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/counter"
	"github.com/bitmark-inc/ledgerindexd/fixtures"
	"github.com/bitmark-inc/ledgerindexd/rpc/mocks"
	"github.com/bitmark-inc/ledgerindexd/rpc/node"
	"github.com/bitmark-inc/ledgerindexd/rpc/server"
	"github.com/bitmark-inc/ledgerindexd/synchronise"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

type testClient struct {
	client *Client
	blocks []transactionrecord.Packed
	output *bytes.Buffer
	done   func()
}

func setup(t *testing.T) *testClient {
	fixtures.SetupTestLogger()

	blocks := []transactionrecord.Packed{
		fixtures.Mint(t, "alice", 10, 1),
		fixtures.Transfer(t, "alice", "bob", 4, 2),
		fixtures.Mint(t, "carol", 10, 3),
		fixtures.Burn(t, "alice", 1, 4),
	}
	service, done := fixtures.NewService(t, 100, blocks...)

	ctl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctl)
	reporter.EXPECT().Status().Return(synchronise.Status{Cycles: 3}).AnyTimes()

	log := logger.New(fixtures.LogCategory)
	c := counter.Counter(0)
	s := server.Create(log, service, node.New(log, service, reporter, time.Now(), "1.0", &c))

	serverConn, clientConn := net.Pipe()
	go s.ServeCodec(jsonrpc.NewServerCodec(serverConn))

	output := &bytes.Buffer{}
	client := newClient(clientConn, true, output)

	return &testClient{
		client: client,
		blocks: blocks,
		output: output,
		done: func() {
			client.Close()
			ctl.Finish()
			done()
			fixtures.TeardownTestLogger()
		},
	}
}

func TestGetBlocks(t *testing.T) {
	tc := setup(t)
	defer tc.done()

	reply, err := tc.client.GetBlocks(1, 2)
	if !assert.Nil(t, err, "get blocks error") {
		return
	}
	assert.Equal(t, uint64(4), reply.ChainLength, "wrong chain length")
	assert.Equal(t, []string{
		hex.EncodeToString(tc.blocks[1]),
		hex.EncodeToString(tc.blocks[2]),
	}, reply.Blocks, "wrong blocks")
	assert.Contains(t, tc.output.String(), "Blocks.Get", "verbose output missing")
}

func TestGetAccountTransactions(t *testing.T) {
	tc := setup(t)
	defer tc.done()

	alice := fixtures.Account(t, "alice")

	reply, err := tc.client.GetAccountTransactions(alice, nil, 2)
	if !assert.Nil(t, err, "transactions error") {
		return
	}
	if assert.Equal(t, 2, len(reply.Transactions), "wrong count") {
		assert.Equal(t, uint64(3), reply.Transactions[0].Id, "newest should be first")
		assert.Equal(t, uint64(1), reply.Transactions[1].Id, "wrong second")
		assert.Equal(t, transactionrecord.TransferKind, reply.Transactions[1].Transaction.Kind, "wrong kind")
	}
	if assert.NotNil(t, reply.OldestTxId, "missing oldest") {
		assert.Equal(t, uint64(0), *reply.OldestTxId, "wrong oldest")
	}

	start := uint64(1)
	reply, err = tc.client.GetAccountTransactions(alice, &start, 10)
	if assert.Nil(t, err, "transactions error") && assert.Equal(t, 1, len(reply.Transactions), "wrong count") {
		assert.Equal(t, uint64(0), reply.Transactions[0].Id, "wrong id")
	}
}

func TestGetLedgerIdAndInfo(t *testing.T) {
	tc := setup(t)
	defer tc.done()

	ledger, err := tc.client.GetLedgerId()
	assert.Nil(t, err, "ledger id error")
	assert.Equal(t, fixtures.Ledger, ledger, "wrong ledger")

	info, err := tc.client.GetInfo()
	if assert.Nil(t, err, "info error") {
		assert.Equal(t, uint64(4), info.ChainLength, "wrong chain length")
		assert.Equal(t, uint64(100), info.MaxPageSize, "wrong page size")
		assert.Equal(t, uint64(3), info.Sync.Cycles, "wrong cycles")
		assert.Equal(t, "1.0", info.Version, "wrong version")
	}

	compat, err := tc.client.GetInfoCompat()
	if assert.Nil(t, err, "info error") {
		assert.Equal(t, fixtures.Ledger, compat["ledger"], "wrong ledger")
	}
}
