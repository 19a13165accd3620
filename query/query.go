// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package query

import (
	"math"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/accountindex"
	"github.com/bitmark-inc/ledgerindexd/block"
	"github.com/bitmark-inc/ledgerindexd/state"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

// Service - read only access to the indexed blocks
//
// every read sees committed data only, so results always describe a
// prefix of the chain that is fully indexed
type Service struct {
	log    *logger.L
	blocks *block.Store
	index  *accountindex.Index
	state  *state.State
}

// BlocksReply - result of GetBlocks
type BlocksReply struct {
	ChainLength uint64                     `json:"chainLength,string"`
	Blocks      []transactionrecord.Packed `json:"blocks"`
}

// AccountTransaction - a block number with its decoded transaction
type AccountTransaction struct {
	Id          uint64                         `json:"id,string"`
	Transaction *transactionrecord.Transaction `json:"transaction"`
}

// AccountTransactionsReply - result of GetAccountTransactions
type AccountTransactionsReply struct {
	Transactions []AccountTransaction `json:"transactions"`
	OldestTxId   *uint64              `json:"oldestTxId,string,omitempty"`
}

// New - query service over the stores
func New(log *logger.L, blocks *block.Store, index *accountindex.Index, st *state.State) *Service {
	return &Service{
		log:    log,
		blocks: blocks,
		index:  index,
		state:  st,
	}
}

// MaxPageSize - the largest number of results any query returns
func (s *Service) MaxPageSize() uint64 {
	return s.state.MaxPageSize()
}

// GetBlocks - encoded blocks from start
//
// length is clamped to the page size and numbers past the chain
// length are left out, so the result can be empty
func (s *Service) GetBlocks(start uint64, length uint64) *BlocksReply {
	if max := s.state.MaxPageSize(); length > max {
		length = max
	}

	blocks, chainLength := s.blocks.Range(start, length)

	s.log.Debugf("blocks start: %d  length: %d  returned: %d  chain length: %d", start, length, len(blocks), chainLength)

	return &BlocksReply{
		ChainLength: chainLength,
		Blocks:      blocks,
	}
}

// GetAccountTransactions - newest first history of an account
//
// start, when given, is exclusive; an account with no history gives
// an empty reply
func (s *Service) GetAccountTransactions(a *account.Account, start *uint64, maxResults uint64) (*AccountTransactionsReply, error) {
	if max := s.state.MaxPageSize(); maxResults > max {
		maxResults = max
	}
	if maxResults > math.MaxInt32 {
		maxResults = math.MaxInt32
	}

	numbers, err := s.index.RangeDesc(a, start, int(maxResults))
	if nil != err {
		return nil, err
	}

	reply := &AccountTransactionsReply{
		Transactions: make([]AccountTransaction, 0, len(numbers)),
	}

	for _, n := range numbers {
		packed, err := s.blocks.Get(n)
		if nil != err {
			s.log.Errorf("account: %s  indexed block: %d  error: %s", a, n, err)
			return nil, err
		}
		tx, err := packed.Unpack()
		if nil != err {
			s.log.Errorf("account: %s  block: %d  decode error: %s", a, n, err)
			return nil, err
		}
		reply.Transactions = append(reply.Transactions, AccountTransaction{
			Id:          n,
			Transaction: tx,
		})
	}

	if oldest, ok := s.index.Oldest(a); ok {
		reply.OldestTxId = &oldest
	}

	return reply, nil
}

// LedgerId - reference of the ledger this index follows
func (s *Service) LedgerId() (string, error) {
	return s.state.LedgerId()
}

// ChainLength - number of committed blocks
func (s *Service) ChainLength() uint64 {
	return s.blocks.Len()
}
