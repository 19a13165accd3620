// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/zmqutil"
)

// Keys - optional CurveZMQ identity, all empty for plain connections
type Keys struct {
	Public  []byte
	Private []byte
	Server  []byte
}

// one REQ connection shared by the request methods
type remote struct {
	sync.Mutex
	log    *logger.L
	client *zmqutil.Client
}

func newRemote(log *logger.L, address string, keys Keys, timeout time.Duration) (*remote, error) {
	client, err := zmqutil.NewClient(zmq.REQ, keys.Private, keys.Public, timeout)
	if nil != err {
		return nil, err
	}
	if err := client.Connect(address, keys.Server); nil != err {
		return nil, err
	}
	log.Infof("connected to: %s", address)

	return &remote{
		log:    log,
		client: client,
	}, nil
}

// send one request and decode the reply into page
//
// transport failures are transient: the socket is rebuilt so the
// next request starts clean
func (r *remote) request(start uint64, length uint64, page interface{}) error {
	r.Lock()
	defer r.Unlock()

	r.log.Debugf("request: %s  start: %d  length: %d", r.client, start, length)

	if err := r.client.Send(encodeRequest(start, length)...); nil != err {
		r.reset(err)
		return fault.ProcessError("send failed: " + err.Error())
	}

	frames, err := r.client.Receive(0)
	if nil != err {
		r.reset(err)
		return fault.ProcessError("receive failed: " + err.Error())
	}

	err = decodeReply(frames, page)
	if nil != err {
		r.log.Warnf("reply from: %s  error: %s", r.client, err)
	}
	return err
}

func (r *remote) reset(cause error) {
	r.log.Warnf("connection: %s  error: %s", r.client, cause)
	if err := r.client.Reconnect(); nil != err {
		r.log.Errorf("reconnect: %s  error: %s", r.client, err)
	}
}

func (r *remote) close() error {
	r.Lock()
	defer r.Unlock()
	return r.client.Close()
}

// LedgerClient - ZeroMQ connection to the ledger
type LedgerClient struct {
	r *remote
}

// NewLedger - connect to a ledger
func NewLedger(log *logger.L, address string, keys Keys, timeout time.Duration) (*LedgerClient, error) {
	r, err := newRemote(log, address, keys, timeout)
	if nil != err {
		return nil, err
	}
	return &LedgerClient{r: r}, nil
}

// GetBlocks - request a page from the ledger
func (l *LedgerClient) GetBlocks(start uint64, length uint64) (*LedgerPage, error) {
	page := &LedgerPage{}
	if err := l.r.request(start, length, page); nil != err {
		return nil, err
	}
	return page, nil
}

// Close - drop the connection
func (l *LedgerClient) Close() error {
	return l.r.close()
}

// ArchiveClient - ZeroMQ connection to one archive
type ArchiveClient struct {
	r *remote
}

// NewArchive - connect to an archive
func NewArchive(log *logger.L, address string, keys Keys, timeout time.Duration) (*ArchiveClient, error) {
	r, err := newRemote(log, address, keys, timeout)
	if nil != err {
		return nil, err
	}
	return &ArchiveClient{r: r}, nil
}

// GetBlocks - request a page from the archive
func (a *ArchiveClient) GetBlocks(start uint64, length uint64) (*ArchivePage, error) {
	page := &ArchivePage{}
	if err := a.r.request(start, length, page); nil != err {
		return nil, err
	}
	return page, nil
}

// Close - drop the connection
func (a *ArchiveClient) Close() error {
	return a.r.close()
}
