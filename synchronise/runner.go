// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package synchronise

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/fault"
)

// Runner - background process driving the engine from a timer
//
// every cycle runs on the runner's goroutine, so cycles never overlap
type Runner struct {
	log    *logger.L
	engine *Engine
	wake   chan time.Duration
}

// NewRunner - runner for an engine
func NewRunner(log *logger.L, engine *Engine) *Runner {
	return &Runner{
		log:    log,
		engine: engine,
		wake:   make(chan time.Duration, 1),
	}
}

// Schedule - set the delay before the next cycle
//
// only the latest delay is kept
func (r *Runner) Schedule(delay time.Duration) {
	for {
		select {
		case r.wake <- delay:
			return
		default:
		}
		select {
		case <-r.wake:
		default:
		}
	}
}

// Run - background process, the first cycle starts immediately
func (r *Runner) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log

	log.Info("starting…")

	if err := r.engine.Recover(); nil != err {
		log.Criticalf("recover error: %s", err)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case delay := <-r.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(delay)

		case <-timer.C:
			err := r.engine.Sync(r)
			switch {
			case nil == err:
			case fault.SyncHalted == err:
				log.Error("halted: no further cycles until restart")
			case fault.SyncAlreadyRunning == err:
				log.Warn("cycle skipped: already running")
				r.Schedule(r.engine.timing.RetryDelay)
			default:
				// logged and rescheduled by the engine
				log.Debugf("cycle error: %s", err)
			}
		}
	}

	log.Info("shutting down…")
}
