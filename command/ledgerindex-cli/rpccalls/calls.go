// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc/accounts"
	"github.com/bitmark-inc/ledgerindexd/rpc/blocks"
	"github.com/bitmark-inc/ledgerindexd/rpc/node"
)

// GetBlocks - hex encoded blocks starting at start
func (c *Client) GetBlocks(start uint64, count uint64) (*blocks.GetReply, error) {
	arguments := blocks.GetArguments{
		Start: start,
		Count: count,
	}
	c.printf("Blocks.Get: %+v\n", arguments)

	var reply blocks.GetReply
	if err := c.client.Call("Blocks.Get", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// GetAccountTransactions - newest first history, start is exclusive
func (c *Client) GetAccountTransactions(a *account.Account, start *uint64, count uint64) (*query.AccountTransactionsReply, error) {
	arguments := accounts.TransactionsArguments{
		Account: a,
		Start:   start,
		Count:   count,
	}
	c.printf("Account.Transactions: account: %s  count: %d\n", a, count)

	var reply query.AccountTransactionsReply
	if err := c.client.Call("Account.Transactions", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// GetLedgerId - reference of the ledger being indexed
func (c *Client) GetLedgerId() (string, error) {
	var reply node.LedgerIdReply
	if err := c.client.Call("Node.LedgerId", &node.LedgerIdArguments{}, &reply); nil != err {
		return "", err
	}
	return reply.Ledger, nil
}

// GetInfo - request status from ledgerindexd (must be matching version)
func (c *Client) GetInfo() (*node.InfoReply, error) {
	var reply node.InfoReply
	if err := c.client.Call("Node.Info", &node.InfoArguments{}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// GetInfoCompat - request status from ledgerindexd (any version)
func (c *Client) GetInfoCompat() (map[string]interface{}, error) {
	var reply map[string]interface{}
	if err := c.client.Call("Node.Info", &node.InfoArguments{}, &reply); nil != err {
		return nil, err
	}
	return reply, nil
}
