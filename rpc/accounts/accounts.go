// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package accounts

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc/ratelimit"
)

const (
	rateLimitAccount = 200
	rateBurstAccount = 1000
)

// Account - type for RPC calls
type Account struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Query   *query.Service
}

// New - create the account service
func New(log *logger.L, service *query.Service) *Account {
	return &Account{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitAccount, rateBurstAccount),
		Query:   service,
	}
}

// TransactionsArguments - history request, Start is exclusive
type TransactionsArguments struct {
	Account *account.Account `json:"account"`
	Start   *uint64          `json:"start,string,omitempty"`
	Count   uint64           `json:"count,string"`
}

// Transactions - newest first transactions of one account
func (a *Account) Transactions(arguments *TransactionsArguments, reply *query.AccountTransactionsReply) error {
	if nil == arguments || nil == arguments.Account {
		return fault.InvalidAccount
	}

	count, err := ratelimit.LimitN(a.Limiter, arguments.Count, a.Query.MaxPageSize())
	if nil != err {
		return err
	}

	a.Log.Infof("Account.Transactions: account: %s  count: %d", arguments.Account, count)

	result, err := a.Query.GetAccountTransactions(arguments.Account, arguments.Start, count)
	if nil != err {
		return err
	}

	*reply = *result
	return nil
}
