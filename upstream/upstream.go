// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package upstream - access to the ledger and its archive services
//
// the ledger answers a block request with the blocks it still holds
// plus a list of archived ranges; each range names the archive that
// holds those older blocks
package upstream

//go:generate mockgen -source=upstream.go -destination=mocks/upstream.go -package=mocks

import (
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

// ArchivedRange - a contiguous run of blocks held by an archive
type ArchivedRange struct {
	Start   uint64 `codec:"start"`
	Length  uint64 `codec:"length"`
	Archive string `codec:"archive"`
}

// LedgerPage - reply of the ledger to a block request
//
// Blocks start at FirstIndex and follow every archived range
type LedgerPage struct {
	FirstIndex  uint64                     `codec:"first_index"`
	ChainLength uint64                     `codec:"chain_length"`
	Blocks      []transactionrecord.Packed `codec:"blocks"`
	Archived    []ArchivedRange            `codec:"archived"`
}

// ArchivePage - reply of an archive to a block request
//
// an archive may return fewer blocks than requested
type ArchivePage struct {
	Blocks []transactionrecord.Packed `codec:"blocks"`
}

// Ledger - the upstream ledger service
type Ledger interface {
	GetBlocks(start uint64, length uint64) (*LedgerPage, error)
}

// Archive - one archive service
type Archive interface {
	GetBlocks(start uint64, length uint64) (*ArchivePage, error)
}

// Dialer - turns an archive reference from a ledger page into a client
type Dialer interface {
	Archive(reference string) (Archive, error)
}
