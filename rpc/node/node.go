// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerindexd/counter"
	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc/ratelimit"
	"github.com/bitmark-inc/ledgerindexd/synchronise"
)

//go:generate mockgen -source=node.go -destination=../mocks/node.go -package=mocks

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Reporter - source of synchronisation status
type Reporter interface {
	Status() synchronise.Status
}

// Node - type for RPC calls
type Node struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Start    time.Time
	Version  string
	Query    *query.Service
	Reporter Reporter
	counter  *counter.Counter
}

// New - create the node service
func New(log *logger.L, service *query.Service, reporter Reporter, start time.Time, version string, counter *counter.Counter) *Node {
	return &Node{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:    start,
		Version:  version,
		Query:    service,
		Reporter: reporter,
		counter:  counter,
	}
}

// ---

// LedgerIdArguments - empty arguments for ledger id request
type LedgerIdArguments struct{}

// LedgerIdReply - the followed ledger
type LedgerIdReply struct {
	Ledger string `json:"ledger"`
}

// LedgerId - reference of the upstream ledger
func (node *Node) LedgerId(_ *LedgerIdArguments, reply *LedgerIdReply) error {
	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	ledger, err := node.Query.LedgerId()
	if nil != err {
		return err
	}
	reply.Ledger = ledger
	return nil
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Ledger      string             `json:"ledger"`
	ChainLength uint64             `json:"chainLength,string"`
	MaxPageSize uint64             `json:"maxPageSize"`
	RPCs        uint64             `json:"rpcs"`
	Sync        synchronise.Status `json:"sync"`
	Version     string             `json:"version"`
	Uptime      string             `json:"uptime"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {
	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}
	return node.fill(reply)
}

// Details - Info without rate limiting, for the HTTPS details page
func (node *Node) Details() (interface{}, error) {
	var reply InfoReply
	if err := node.fill(&reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

func (node *Node) fill(reply *InfoReply) error {
	ledger, err := node.Query.LedgerId()
	if nil != err {
		return err
	}

	reply.Ledger = ledger
	reply.ChainLength = node.Query.ChainLength()
	reply.MaxPageSize = node.Query.MaxPageSize()
	reply.RPCs = node.counter.Uint64()
	reply.Sync = node.Reporter.Status()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}
