// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package query

import (
	"github.com/bitmark-inc/ledgerindexd/upstream"
)

// ArchiveResponder - serves committed blocks as archive pages
type ArchiveResponder struct {
	service *Service
}

// NewArchiveResponder - responder for an upstream.Server
func NewArchiveResponder(service *Service) *ArchiveResponder {
	return &ArchiveResponder{
		service: service,
	}
}

// Page - the archive page for a request
func (r *ArchiveResponder) Page(start uint64, length uint64) (interface{}, error) {
	reply := r.service.GetBlocks(start, length)
	return &upstream.ArchivePage{
		Blocks: reply.Blocks,
	}, nil
}
