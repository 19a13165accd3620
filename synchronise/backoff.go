// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package synchronise

import (
	"time"
)

// Backoff - delay before the next cycle
//
// a full page means more blocks are probably waiting so the next
// cycle starts at once; an empty page waits the whole maxWait
//
//   wait = maxWait * (1 - min(1, indexed / pageSize))
func Backoff(indexed uint64, pageSize uint64, maxWait time.Duration) time.Duration {
	if 0 == pageSize || indexed >= pageSize {
		return 0
	}
	remaining := 1 - float64(indexed)/float64(pageSize)
	return time.Duration(float64(maxWait) * remaining)
}
