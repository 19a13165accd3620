// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package synchronise

import (
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/accountindex"
	"github.com/bitmark-inc/ledgerindexd/block"
	"github.com/bitmark-inc/ledgerindexd/counter"
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/state"
	"github.com/bitmark-inc/ledgerindexd/storage"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
	"github.com/bitmark-inc/ledgerindexd/upstream"
)

// default timings
const (
	DefaultMaxWait    = 60 * time.Second
	DefaultRetryDelay = 10 * time.Second
)

// Scheduler - arranges for the next cycle to run after a delay
type Scheduler interface {
	Schedule(delay time.Duration)
}

// Timing - delays between cycles
type Timing struct {
	MaxWait    time.Duration
	RetryDelay time.Duration
}

// Status - diagnostic snapshot of the engine
type Status struct {
	Running   bool      `json:"running"`
	Halted    bool      `json:"halted"`
	Cycles    uint64    `json:"cycles"`
	Indexed   uint64    `json:"indexed"`
	LastError string    `json:"lastError,omitempty"`
	LastSync  time.Time `json:"lastSync"`
}

// Engine - copies new blocks from the ledger into the local stores
type Engine struct {
	sync.Mutex

	log    *logger.L
	pools  *storage.Store
	blocks *block.Store
	index  *accountindex.Index
	state  *state.State
	ledger upstream.Ledger
	dialer upstream.Dialer
	timing Timing

	halted    bool
	lastError error
	lastSync  time.Time
	cycles    counter.Counter
	indexed   counter.Counter
}

// New - create an engine, zero timings take the defaults
func New(log *logger.L, pools *storage.Store, blocks *block.Store, index *accountindex.Index, st *state.State, ledger upstream.Ledger, dialer upstream.Dialer, timing Timing) *Engine {
	if timing.MaxWait <= 0 {
		timing.MaxWait = DefaultMaxWait
	}
	if timing.RetryDelay <= 0 {
		timing.RetryDelay = DefaultRetryDelay
	}
	return &Engine{
		log:    log,
		pools:  pools,
		blocks: blocks,
		index:  index,
		state:  st,
		ledger: ledger,
		dialer: dialer,
		timing: timing,
	}
}

// Recover - clear a running flag left by a process that stopped mid cycle
//
// only valid before the first Sync, as this process is the only writer
func (e *Engine) Recover() error {
	if !e.state.IsRunning() {
		return nil
	}
	e.log.Warn("clearing running flag left by previous process")
	return e.state.SetRunning(false)
}

// Sync - run one cycle then schedule the next
//
// returns SyncAlreadyRunning, without scheduling, if a cycle is in
// progress; after a fatal error nothing more is scheduled and every
// later call returns SyncHalted
func (e *Engine) Sync(s Scheduler) (err error) {
	if err := e.enter(s); nil != err {
		return err
	}

	indexed := uint64(0)
	defer func() {
		err = e.exit(s, indexed, err)
	}()

	indexed, err = e.cycle()
	return err
}

// Idle -> Syncing
//
// a failure to set the running flag is settled like a failed cycle
func (e *Engine) enter(s Scheduler) error {
	e.Lock()
	defer e.Unlock()

	if e.halted {
		return fault.SyncHalted
	}
	if e.state.IsRunning() {
		return fault.SyncAlreadyRunning
	}
	if err := e.state.SetRunning(true); nil != err {
		e.log.Errorf("cannot set running flag: %s", err)
		e.settle(s, 0, err)
		return err
	}
	return nil
}

// Syncing -> Idle, on every path out of a cycle
func (e *Engine) exit(s Scheduler, indexed uint64, err error) error {
	e.Lock()
	defer e.Unlock()

	if resetErr := e.state.SetRunning(false); nil != resetErr {
		e.log.Criticalf("cannot clear running flag: %s", resetErr)
		if nil == err {
			err = resetErr
		}
	}

	e.settle(s, indexed, err)
	return err
}

// record the outcome and schedule the next cycle, or halt
//
// must hold the lock
func (e *Engine) settle(s Scheduler, indexed uint64, err error) {
	e.cycles.Increment()
	e.lastError = err
	e.lastSync = time.Now()

	var delay time.Duration
	switch {
	case nil == err:
		delay = Backoff(indexed, e.state.MaxPageSize(), e.timing.MaxWait)
		e.log.Infof("indexed: %d  length: %d  next: %s", indexed, e.blocks.Len(), delay)

	case fault.IsFatal(err):
		e.halted = true
		e.log.Criticalf("synchronisation halted: %s", err)
		return

	default:
		delay = e.timing.RetryDelay
		e.log.Warnf("indexed: %d  error: %s  retry: %s", indexed, err, delay)
	}

	s.Schedule(delay)
}

// fetch one ledger page, with any archived ranges it names, inside a
// single transaction
func (e *Engine) cycle() (uint64, error) {
	trx, err := e.pools.Begin()
	if nil != err {
		return 0, err
	}

	pageSize := e.state.MaxPageSize()
	next := e.blocks.PendingLen(trx)

	e.log.Debugf("request ledger start: %d  length: %d", next, pageSize)

	page, err := e.ledger.GetBlocks(next, pageSize)
	if nil != err {
		trx.Abort()
		return 0, err
	}

	e.log.Debugf("ledger chain length: %d  first: %d  blocks: %d  archived ranges: %d", page.ChainLength, page.FirstIndex, len(page.Blocks), len(page.Archived))

	indexed := uint64(0)

	archived := make([]upstream.ArchivedRange, len(page.Archived))
	copy(archived, page.Archived)
	sort.Slice(archived, func(i, j int) bool {
		return archived[i].Start < archived[j].Start
	})

	for _, r := range archived {
		n, err := e.archive(trx, r)
		indexed += n
		if nil != err {
			return e.finish(trx, indexed, err)
		}
	}

	n, err := e.ledgerBlocks(trx, page)
	indexed += n
	return e.finish(trx, indexed, err)
}

// copy one archived range, in as many requests as the archive needs
func (e *Engine) archive(trx storage.Transaction, r upstream.ArchivedRange) (uint64, error) {
	position := e.blocks.PendingLen(trx)
	end := r.Start + r.Length

	if end <= position {
		return 0, nil
	}
	if r.Start > position {
		e.log.Warnf("archive: %s  start: %d  expected: %d", r.Archive, r.Start, position)
		return 0, fault.UpstreamGap
	}

	archive, err := e.dialer.Archive(r.Archive)
	if nil != err {
		return 0, fault.ProcessError("archive: " + r.Archive + ": " + err.Error())
	}

	indexed := uint64(0)
	for position < end {
		e.log.Debugf("request archive: %s  start: %d  length: %d", r.Archive, position, end-position)

		page, err := archive.GetBlocks(position, end-position)
		if nil != err {
			return indexed, err
		}
		if 0 == len(page.Blocks) {
			return indexed, fault.EmptyArchiveResponse
		}

		for _, packed := range page.Blocks {
			if position >= end {
				break
			}
			if err := e.appendBlock(trx, packed); nil != err {
				return indexed, err
			}
			position += 1
			indexed += 1
		}
	}
	return indexed, nil
}

// the ledger's own blocks, which follow every archived range
func (e *Engine) ledgerBlocks(trx storage.Transaction, page *upstream.LedgerPage) (uint64, error) {
	if 0 == len(page.Blocks) {
		return 0, nil
	}

	position := e.blocks.PendingLen(trx)
	if page.FirstIndex > position {
		e.log.Warnf("ledger first index: %d  expected: %d", page.FirstIndex, position)
		return 0, fault.UpstreamGap
	}

	// skip any blocks already held
	skip := position - page.FirstIndex
	if skip >= uint64(len(page.Blocks)) {
		return 0, nil
	}

	indexed := uint64(0)
	for _, packed := range page.Blocks[skip:] {
		if err := e.appendBlock(trx, packed); nil != err {
			return indexed, err
		}
		indexed += 1
	}
	return indexed, nil
}

// decode, store and index one block
func (e *Engine) appendBlock(trx storage.Transaction, packed transactionrecord.Packed) error {
	tx, err := packed.Unpack()
	if nil != err {
		e.log.Criticalf("block: %d  decode error: %s  data: %x", e.blocks.PendingLen(trx), err, []byte(packed))
		return err
	}

	n, err := e.blocks.Append(trx, packed)
	if nil != err {
		return err
	}

	for _, a := range tx.Accounts() {
		e.index.Insert(trx, a, n)
	}
	return nil
}

// commit what was done unless the error means none of it can be trusted
func (e *Engine) finish(trx storage.Transaction, indexed uint64, err error) (uint64, error) {
	if fault.IsFatal(err) {
		trx.Abort()
		return 0, err
	}

	if commitErr := trx.Commit(); nil != commitErr {
		return 0, commitErr
	}
	e.indexed.Add(indexed)
	return indexed, err
}

// Status - current diagnostics
func (e *Engine) Status() Status {
	e.Lock()
	defer e.Unlock()

	s := Status{
		Running:  e.state.IsRunning(),
		Halted:   e.halted,
		Cycles:   e.cycles.Uint64(),
		Indexed:  e.indexed.Uint64(),
		LastSync: e.lastSync,
	}
	if nil != e.lastError {
		s.LastError = e.lastError.Error()
	}
	return s
}
