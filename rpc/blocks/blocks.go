// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocks

import (
	"encoding/hex"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc/ratelimit"
)

const (
	rateLimitBlocks = 2000
	rateBurstBlocks = 4000
)

// Blocks - type for RPC calls
type Blocks struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Query   *query.Service
}

// New - create the block service
func New(log *logger.L, service *query.Service) *Blocks {
	return &Blocks{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitBlocks, rateBurstBlocks),
		Query:   service,
	}
}

// GetArguments - a range of blocks
type GetArguments struct {
	Start uint64 `json:"start,string"`
	Count uint64 `json:"count,string"`
}

// GetReply - hex encoded blocks
type GetReply struct {
	ChainLength uint64   `json:"chainLength,string"`
	Blocks      []string `json:"blocks"`
}

// Get - encoded blocks from start, fewer than count at the end of the chain
func (b *Blocks) Get(arguments *GetArguments, reply *GetReply) error {
	count, err := ratelimit.LimitN(b.Limiter, arguments.Count, b.Query.MaxPageSize())
	if nil != err {
		return err
	}

	b.Log.Infof("Blocks.Get: start: %d  count: %d", arguments.Start, count)

	result := b.Query.GetBlocks(arguments.Start, count)

	reply.ChainLength = result.ChainLength
	reply.Blocks = make([]string, len(result.Blocks))
	for i, packed := range result.Blocks {
		reply.Blocks[i] = hex.EncodeToString(packed)
	}
	return nil
}
