// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

// the ZAP handler is process wide
var authentication struct {
	once sync.Once
	err  error
}

// StartAuthentication - start the ZAP handler needed by CurveZMQ
// servers, later calls return the first result
func StartAuthentication() error {
	authentication.once.Do(func() {
		zmq.AuthSetVerbose(false)
		authentication.err = zmq.AuthStart()
	})
	return authentication.err
}

// NewServerSocket - create a socket suitable for a server side connection
//
// with empty keys the socket is plain, otherwise CurveZMQ is enabled
// for any client key
func NewServerSocket(socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte) (*zmq.Socket, error) {

	if 0 != len(privateKey) {
		if err := StartAuthentication(); nil != err {
			return nil, err
		}
	}

	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}

	if 0 != len(privateKey) {

		// allow any client to connect
		zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)

		socket.SetCurveServer(1)
		socket.SetCurveSecretkey(string(privateKey))
		socket.SetZapDomain(zapDomain)
		socket.SetIdentity(string(publicKey)) // just use public key for identity
	}

	socket.SetLinger(0)

	// heartbeat
	socket.SetHeartbeatIvl(heartbeatInterval)
	socket.SetHeartbeatTimeout(heartbeatTimeout)
	socket.SetHeartbeatTtl(heartbeatTTL)

	return socket, nil
}
