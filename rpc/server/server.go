// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc/accounts"
	"github.com/bitmark-inc/ledgerindexd/rpc/blocks"
	"github.com/bitmark-inc/ledgerindexd/rpc/node"
)

// Create - RPC server with every service registered
func Create(log *logger.L, service *query.Service, n *node.Node) *rpc.Server {
	server := rpc.NewServer()

	_ = server.Register(blocks.New(log, service))
	_ = server.Register(accounts.New(log, service))
	_ = server.Register(n)

	return server
}
