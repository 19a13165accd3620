// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/storage"
)

// DefaultMaxPageSize - page size stored at initialisation when none is configured
const DefaultMaxPageSize = 2000

// keys in the state pool
var (
	ledgerKey   = []byte("ledger")
	runningKey  = []byte("running")
	pageSizeKey = []byte("page-size")
)

// State - the persistent configuration cell
type State struct {
	pools *storage.Store
}

// New - state cell over an open database
func New(s *storage.Store) *State {
	return &State{
		pools: s,
	}
}

// Initialise - one time setup of the ledger reference
//
// a second call with the same ledger returns AlreadyInitialised,
// with a different ledger LedgerMismatch; neither changes anything
func (st *State) Initialise(ledger string, maxPageSize uint64) error {
	if "" == ledger {
		return fault.MissingLedger
	}

	if current := st.pools.Pool.State.Get(ledgerKey); nil != current {
		if string(current) != ledger {
			return fault.LedgerMismatch
		}
		return fault.AlreadyInitialised
	}

	if 0 == maxPageSize {
		maxPageSize = DefaultMaxPageSize
	}
	if err := st.pools.Pool.State.PutN(pageSizeKey, maxPageSize); nil != err {
		return err
	}
	if err := st.SetRunning(false); nil != err {
		return err
	}

	// the ledger is written last as it marks the cell as initialised
	return st.pools.Pool.State.Put(ledgerKey, []byte(ledger))
}

// IsInitialised - true once a ledger reference is stored
func (st *State) IsInitialised() bool {
	return st.pools.Pool.State.Has(ledgerKey)
}

// LedgerId - the upstream ledger reference
func (st *State) LedgerId() (string, error) {
	ledger := st.pools.Pool.State.Get(ledgerKey)
	if nil == ledger {
		return "", fault.NotInitialised
	}
	return string(ledger), nil
}

// MaxPageSize - largest page requested upstream or returned to callers
func (st *State) MaxPageSize() uint64 {
	n, found := st.pools.Pool.State.GetN(pageSizeKey)
	if !found || 0 == n {
		return DefaultMaxPageSize
	}
	return n
}

// SetMaxPageSize - change the page size policy
func (st *State) SetMaxPageSize(n uint64) error {
	if 0 == n {
		return fault.InvalidCount
	}
	return st.pools.Pool.State.PutN(pageSizeKey, n)
}

// IsRunning - the persisted single-flight flag
func (st *State) IsRunning() bool {
	value := st.pools.Pool.State.Get(runningKey)
	return 1 == len(value) && 0x01 == value[0]
}

// SetRunning - persist the single-flight flag
func (st *State) SetRunning(running bool) error {
	value := []byte{0x00}
	if running {
		value[0] = 0x01
	}
	return st.pools.Pool.State.Put(runningKey, value)
}
