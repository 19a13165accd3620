// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package synchronise_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/synchronise"
)

func TestBackoff(t *testing.T) {
	const maxWait = 60 * time.Second

	items := []struct {
		indexed  uint64
		pageSize uint64
		wait     time.Duration
	}{
		{0, 2000, maxWait},
		{2000, 2000, 0},
		{1000, 2000, maxWait / 2},
		{500, 2000, maxWait * 3 / 4},
		{5000, 2000, 0},
		{1, 0, 0},
	}

	for i, item := range items {
		wait := synchronise.Backoff(item.indexed, item.pageSize, maxWait)
		assert.Equal(t, item.wait, wait, "%d: indexed: %d  page size: %d", i, item.indexed, item.pageSize)
	}
}
