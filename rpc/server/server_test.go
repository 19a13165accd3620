// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server_test

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/counter"
	"github.com/bitmark-inc/ledgerindexd/fixtures"
	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc/accounts"
	"github.com/bitmark-inc/ledgerindexd/rpc/blocks"
	"github.com/bitmark-inc/ledgerindexd/rpc/mocks"
	"github.com/bitmark-inc/ledgerindexd/rpc/node"
	"github.com/bitmark-inc/ledgerindexd/rpc/server"
	"github.com/bitmark-inc/ledgerindexd/synchronise"
)

// JSON-RPC client connected to a server over a pipe
func setup(t *testing.T) (*rpc.Client, func()) {
	fixtures.SetupTestLogger()

	service, done := fixtures.NewService(t, 100,
		fixtures.Mint(t, "alice", 10, 1),
		fixtures.Transfer(t, "alice", "bob", 4, 2),
	)

	ctl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctl)
	reporter.EXPECT().Status().Return(synchronise.Status{Cycles: 7}).AnyTimes()

	log := logger.New(fixtures.LogCategory)
	c := counter.Counter(0)
	s := server.Create(log, service, node.New(log, service, reporter, time.Now(), "1.0", &c))

	serverConn, clientConn := net.Pipe()
	go s.ServeCodec(jsonrpc.NewServerCodec(serverConn))
	client := jsonrpc.NewClient(clientConn)

	return client, func() {
		client.Close()
		ctl.Finish()
		done()
		fixtures.TeardownTestLogger()
	}
}

func TestBlocksGet(t *testing.T) {
	client, done := setup(t)
	defer done()

	var reply blocks.GetReply
	err := client.Call("Blocks.Get", &blocks.GetArguments{Start: 1, Count: 10}, &reply)
	assert.Nil(t, err, "wrong Blocks.Get")
	assert.Equal(t, uint64(2), reply.ChainLength, "wrong chain length")
	assert.Equal(t, 1, len(reply.Blocks), "wrong block count")
}

func TestAccountTransactions(t *testing.T) {
	client, done := setup(t)
	defer done()

	arg := accounts.TransactionsArguments{
		Account: fixtures.Account(t, "alice"),
		Count:   10,
	}
	var reply query.AccountTransactionsReply
	err := client.Call("Account.Transactions", &arg, &reply)
	assert.Nil(t, err, "wrong Account.Transactions")
	if assert.Equal(t, 2, len(reply.Transactions), "wrong transaction count") {
		assert.Equal(t, uint64(1), reply.Transactions[0].Id, "wrong order")
		assert.Equal(t, uint64(4), reply.Transactions[0].Transaction.Transfer.Amount, "wrong transfer")
	}
	if assert.NotNil(t, reply.OldestTxId, "missing oldest") {
		assert.Equal(t, uint64(0), *reply.OldestTxId, "wrong oldest")
	}
}

func TestNodeLedgerId(t *testing.T) {
	client, done := setup(t)
	defer done()

	var reply node.LedgerIdReply
	err := client.Call("Node.LedgerId", &node.LedgerIdArguments{}, &reply)
	assert.Nil(t, err, "wrong Node.LedgerId")
	assert.Equal(t, fixtures.Ledger, reply.Ledger, "wrong ledger")
}

func TestNodeInfo(t *testing.T) {
	client, done := setup(t)
	defer done()

	var reply node.InfoReply
	err := client.Call("Node.Info", &node.InfoArguments{}, &reply)
	assert.Nil(t, err, "wrong Node.Info")
	assert.Equal(t, uint64(2), reply.ChainLength, "wrong chain length")
	assert.Equal(t, uint64(7), reply.Sync.Cycles, "wrong sync status")
	assert.Equal(t, "1.0", reply.Version, "wrong version")
}
