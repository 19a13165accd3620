// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/counter"
	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc/certificate"
	"github.com/bitmark-inc/ledgerindexd/rpc/handler"
	"github.com/bitmark-inc/ledgerindexd/rpc/listeners"
	"github.com/bitmark-inc/ledgerindexd/rpc/node"
	"github.com/bitmark-inc/ledgerindexd/rpc/server"
)

const (
	tlsName   = "client_rpc"
	httpsName = "https_rpc"
)

// RPC - the running client facing servers
type RPC struct {
	log       *logger.L
	listeners []listeners.Listener
	count     counter.Counter
}

// Setup - create the JSON-RPC over TLS listener and, if configured,
// the HTTPS listener; nothing is served until Run
func Setup(
	rpcConfiguration *listeners.RPCConfiguration,
	httpsConfiguration *listeners.HTTPSConfiguration,
	service *query.Service,
	reporter node.Reporter,
	version string,
	start time.Time,
) (*RPC, error) {
	log := logger.New("rpc")

	r := &RPC{
		log: log,
	}

	n := node.New(log, service, reporter, start, version, &r.count)

	tlsConfig, fingerprint, err := certificate.Get(log, tlsName, rpcConfiguration.Certificate, rpcConfiguration.PrivateKey)
	if nil != err {
		return nil, err
	}

	rpcListener, err := listeners.NewRPC(
		rpcConfiguration,
		log,
		&r.count,
		server.Create(log, service, n),
		tlsConfig,
		fingerprint,
	)
	if nil != err {
		return nil, err
	}
	r.listeners = append(r.listeners, rpcListener)

	if 0 == len(httpsConfiguration.Listen) {
		log.Infof("disable: %s", httpsName)
		return r, nil
	}

	httpsTLS, httpsFingerprint, err := certificate.Get(log, httpsName, httpsConfiguration.Certificate, httpsConfiguration.PrivateKey)
	if nil != err {
		return nil, err
	}
	log.Infof("%s: SHA3-256 fingerprint: %x", httpsName, httpsFingerprint)

	hdlr := handler.New(log, server.Create(log, service, n), n, httpsConfiguration.MaximumConnections)
	httpsListener, err := listeners.NewHTTPS(httpsConfiguration, log, httpsTLS, hdlr)
	if nil != err {
		return nil, err
	}
	r.listeners = append(r.listeners, httpsListener)

	return r, nil
}

// Run - background process serving until shutdown
func (r *RPC) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log

	log.Info("starting…")

	for _, l := range r.listeners {
		if err := l.Serve(); nil != err {
			log.Criticalf("serve error: %s", err)
		}
	}

	<-shutdown

	log.Info("shutting down…")
	for _, l := range r.listeners {
		if err := l.Close(); nil != err {
			log.Errorf("close error: %s", err)
		}
	}
	log.Info("finished")
}
