// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ledgerindexd/zmqutil"
)

const (
	zapDomain    = "ledgerindexd"
	pollInterval = 100 * time.Millisecond
)

// Responder - source of the pages served by a Server
//
// the returned value is encoded as the reply, normally a
// *LedgerPage or an *ArchivePage
type Responder interface {
	Page(start uint64, length uint64) (interface{}, error)
}

// Server - answers block requests using the upstream wire format
type Server struct {
	log       *logger.L
	socket    *zmq.Socket
	responder Responder
}

// NewServer - bind a REP socket to the address
//
// keys.Private and keys.Public enable CurveZMQ
func NewServer(log *logger.L, address string, keys Keys, responder Responder) (*Server, error) {

	socket, err := zmqutil.NewServerSocket(zmq.REP, zapDomain, keys.Private, keys.Public)
	if nil != err {
		return nil, err
	}

	if err := socket.Bind(address); nil != err {
		socket.Close()
		log.Errorf("cannot bind: %q  error: %s", address, err)
		return nil, err
	}
	log.Infof("bind: %q", address)

	return &Server{
		log:       log,
		socket:    socket,
		responder: responder,
	}, nil
}

// Run - serve until shutdown, then close the socket
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	defer s.socket.Close()

	poller := zmq.NewPoller()
	poller.Add(s.socket, zmq.POLLIN)

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		polled, err := poller.Poll(pollInterval)
		if nil != err {
			log.Errorf("poll error: %s", err)
			continue loop
		}
		if 0 == len(polled) {
			continue loop
		}

		frames, err := s.socket.RecvMessageBytes(0)
		if nil != err {
			log.Errorf("receive error: %s", err)
			continue loop
		}

		if _, err := s.socket.SendMessage(s.reply(frames)...); nil != err {
			log.Errorf("send error: %s", err)
		}
	}

	log.Info("shutting down…")
}

func (s *Server) reply(frames [][]byte) []interface{} {
	start, length, err := decodeRequest(frames)
	if nil != err {
		s.log.Warnf("invalid request: %x", frames)
		return encodeError(err)
	}

	page, err := s.responder.Page(start, length)
	if nil != err {
		s.log.Warnf("start: %d  length: %d  error: %s", start, length, err)
		return encodeError(err)
	}

	reply, err := encodeReply(page)
	if nil != err {
		s.log.Errorf("encode error: %s", err)
		return encodeError(err)
	}
	return reply
}
