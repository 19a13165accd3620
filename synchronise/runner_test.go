// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package synchronise_test

import (
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/background"
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/fixtures"
	"github.com/bitmark-inc/ledgerindexd/synchronise"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
	"github.com/bitmark-inc/ledgerindexd/upstream"
)

func waitFor(t *testing.T, condition func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunnerRepeatsCycles(t *testing.T) {
	te := setupEngineWithTiming(t, 0, synchronise.Timing{
		MaxWait:    10 * time.Millisecond,
		RetryDelay: 10 * time.Millisecond,
	})
	defer te.finish()

	// left over from a process that stopped mid cycle
	assert.Nil(t, te.state.SetRunning(true), "set running error")

	page := &upstream.LedgerPage{
		ChainLength: 1,
		Blocks:      []transactionrecord.Packed{fixtures.Mint(t, "alice", 1, 1)},
	}
	gomock.InOrder(
		te.ledger.EXPECT().GetBlocks(uint64(0), uint64(testPageSize)).Return(page, nil),
		te.ledger.EXPECT().GetBlocks(uint64(1), uint64(testPageSize)).Return(&upstream.LedgerPage{FirstIndex: 1, ChainLength: 1}, nil).MinTimes(1),
	)

	runner := synchronise.NewRunner(logger.New(fixtures.LogCategory), te.engine)
	processes := background.Start(background.Processes{runner}, nil)

	waitFor(t, func() bool {
		return te.engine.Status().Cycles >= 3
	})
	processes.Stop()

	assert.Equal(t, uint64(1), te.blocks.Len(), "wrong length")
	assert.False(t, te.state.IsRunning(), "running flag left set")
	assert.False(t, te.engine.Status().Halted, "halted")
}

func TestRunnerStopsAfterFatalError(t *testing.T) {
	te := setupEngineWithTiming(t, 0, synchronise.Timing{
		MaxWait:    10 * time.Millisecond,
		RetryDelay: 10 * time.Millisecond,
	})
	defer te.finish()

	page := &upstream.LedgerPage{
		Blocks: []transactionrecord.Packed{fixtures.Corrupt()},
	}
	te.ledger.EXPECT().GetBlocks(uint64(0), uint64(testPageSize)).Return(page, nil).Times(1)

	runner := synchronise.NewRunner(logger.New(fixtures.LogCategory), te.engine)
	processes := background.Start(background.Processes{runner}, nil)

	waitFor(t, func() bool {
		return te.engine.Status().Halted
	})

	// no further ledger requests are made
	time.Sleep(50 * time.Millisecond)
	processes.Stop()

	assert.Equal(t, uint64(1), te.engine.Status().Cycles, "cycles after halt")
	assert.Equal(t, fault.SyncHalted, te.engine.Sync(te.scheduler), "engine not halted")
}

func TestRunnerRetriesWhenRunningFlagFails(t *testing.T) {
	te := setupEngineWithTiming(t, 0, synchronise.Timing{
		MaxWait:    10 * time.Millisecond,
		RetryDelay: 10 * time.Millisecond,
	})
	defer te.finish()

	te.done()

	runner := synchronise.NewRunner(logger.New(fixtures.LogCategory), te.engine)
	processes := background.Start(background.Processes{runner}, nil)

	waitFor(t, func() bool {
		return te.engine.Status().Cycles >= 3
	})
	processes.Stop()

	status := te.engine.Status()
	assert.False(t, status.Halted, "halted")
	assert.Equal(t, fault.NotInitialised.Error(), status.LastError, "wrong last error")
}
