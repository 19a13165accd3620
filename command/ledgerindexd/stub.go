// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
	"github.com/bitmark-inc/ledgerindexd/upstream"
)

const stubBlockSuffix = ".block"

// a fixed ledger held in memory
type stubLedger struct {
	blocks []transactionrecord.Packed
}

func newStubLedger(blocks []transactionrecord.Packed) *stubLedger {
	return &stubLedger{
		blocks: blocks,
	}
}

// Page - ledger page for a request, there are no archived ranges
func (s *stubLedger) Page(start uint64, length uint64) (interface{}, error) {
	n := uint64(len(s.blocks))
	page := &upstream.LedgerPage{
		FirstIndex:  start,
		ChainLength: n,
		Blocks:      []transactionrecord.Packed{},
	}
	if start >= n {
		return page, nil
	}

	end := start + length
	if end > n || end < start {
		end = n
	}
	page.Blocks = s.blocks[start:end]
	return page, nil
}

// read every *.block file in name order, each holds one hex encoded
// block that must decode
func loadStubBlocks(directory string) ([]transactionrecord.Packed, error) {
	files, err := ioutil.ReadDir(directory)
	if nil != err {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), stubBlockSuffix) {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	blocks := make([]transactionrecord.Packed, 0, len(names))
	for _, name := range names {
		data, err := ioutil.ReadFile(filepath.Join(directory, name))
		if nil != err {
			return nil, err
		}
		packed, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if nil != err {
			return nil, fmt.Errorf("%s: %s", name, err)
		}
		if _, err := transactionrecord.Packed(packed).Unpack(); nil != err {
			return nil, fmt.Errorf("%s: %s", name, err)
		}
		blocks = append(blocks, packed)
	}
	return blocks, nil
}
