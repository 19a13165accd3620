// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/rpc/ratelimit"
)

func TestLimit(t *testing.T) {
	limiter := rate.NewLimiter(rate.Inf, 10)
	assert.Nil(t, ratelimit.Limit(limiter), "wrong limit")

	blocked := rate.NewLimiter(0, 0)
	assert.Equal(t, fault.RateLimiting, ratelimit.Limit(blocked), "zero limiter allowed a request")
}

func TestLimitNClamps(t *testing.T) {
	limiter := rate.NewLimiter(rate.Inf, 100)

	count, err := ratelimit.LimitN(limiter, 10000000, 2000)
	assert.Nil(t, err, "wrong limit")
	assert.Equal(t, uint64(2000), count, "count not clamped")

	count, err = ratelimit.LimitN(limiter, 7, 2000)
	assert.Nil(t, err, "wrong limit")
	assert.Equal(t, uint64(7), count, "small count changed")

	count, err = ratelimit.LimitN(limiter, 0, 2000)
	assert.Nil(t, err, "zero count rejected")
	assert.Equal(t, uint64(0), count, "zero count changed")
}
