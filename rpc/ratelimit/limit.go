// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerindexd/fault"
)

// Limit - wait for one token
func Limit(limiter *rate.Limiter) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}

// LimitN - wait for one token per requested result
//
// the count is first clamped to [1, maximumCount] and the clamped
// value returned, so a large request costs no more than a full page
func LimitN(limiter *rate.Limiter, count uint64, maximumCount uint64) (uint64, error) {
	if count > maximumCount {
		count = maximumCount
	}

	tokens := int(count)
	if tokens < 1 {
		tokens = 1
	}
	if burst := limiter.Burst(); tokens > burst {
		tokens = burst
	}

	r := limiter.ReserveN(time.Now(), tokens)
	if !r.OK() {
		return 0, fault.RateLimiting
	}
	time.Sleep(r.Delay())

	return count, nil
}
