// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"crypto/rand"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ledgerindexd/fault"
)

// Client - structure to hold a client connection
//
// a client is not safe for concurrent use, callers serialise access
type Client struct {
	publicKey       []byte
	privateKey      []byte
	serverPublicKey []byte
	address         string
	socketType      zmq.Type
	socket          *zmq.Socket
	timeout         time.Duration
}

const (
	publicKeySize  = 32
	privateKeySize = 32
	identifierSize = 32
)

// NewClient - create a client socket usually of type zmq.REQ
//
// empty keys select a plain connection, otherwise both keys must be
// present and CurveZMQ encryption is used
func NewClient(socketType zmq.Type, privateKey []byte, publicKey []byte, timeout time.Duration) (*Client, error) {

	client := &Client{
		socketType: socketType,
		timeout:    timeout,
	}

	if 0 == len(privateKey) && 0 == len(publicKey) {
		return client, nil
	}

	if len(publicKey) != publicKeySize {
		return nil, fault.InvalidPublicKey
	}
	if len(privateKey) != privateKeySize {
		return nil, fault.InvalidPrivateKey
	}

	client.publicKey = make([]byte, publicKeySize)
	client.privateKey = make([]byte, privateKeySize)
	copy(client.privateKey, privateKey)
	copy(client.publicKey, publicKey)
	return client, nil
}

// IsSecure - true if CurveZMQ keys were given
func (client *Client) IsSecure() bool {
	return nil != client.privateKey
}

// create a socket and connect to the current address
func (client *Client) openSocket() error {

	socket, err := zmq.NewSocket(client.socketType)
	if nil != err {
		return err
	}

	err = client.configure(socket)
	if nil == err {
		err = socket.Connect(client.address)
	}
	if nil != err {
		socket.Close()
		return err
	}

	client.socket = socket
	return nil
}

func (client *Client) configure(socket *zmq.Socket) error {

	if client.IsSecure() {

		// set up as client
		if err := socket.SetCurveServer(0); nil != err {
			return err
		}
		if err := socket.SetCurvePublickey(string(client.publicKey)); nil != err {
			return err
		}
		if err := socket.SetCurveSecretkey(string(client.privateKey)); nil != err {
			return err
		}

		// destination identity is its public key
		if err := socket.SetCurveServerkey(string(client.serverPublicKey)); nil != err {
			return err
		}
	}

	// local identity is a random value
	randomIdBytes := make([]byte, identifierSize)
	if _, err := rand.Read(randomIdBytes); nil != err {
		return err
	}
	if err := socket.SetIdentity(string(randomIdBytes)); nil != err {
		return err
	}

	// zero => do not set timeout
	if 0 != client.timeout {
		if err := socket.SetSndtimeo(client.timeout); nil != err {
			return err
		}
		if err := socket.SetRcvtimeo(client.timeout); nil != err {
			return err
		}
	}
	if err := socket.SetLinger(0); nil != err {
		return err
	}

	if zmq.REQ == client.socketType {
		if err := socket.SetReqCorrelate(1); nil != err {
			return err
		}
		if err := socket.SetReqRelaxed(1); nil != err {
			return err
		}
	}

	// this need zmq 4.2
	if err := socket.SetHeartbeatIvl(heartbeatInterval); nil != err && zmq.ErrorNotImplemented42 != err {
		return err
	}
	if err := socket.SetHeartbeatTimeout(heartbeatTimeout); nil != err && zmq.ErrorNotImplemented42 != err {
		return err
	}
	if err := socket.SetHeartbeatTtl(heartbeatTTL); nil != err && zmq.ErrorNotImplemented42 != err {
		return err
	}
	return nil
}

// destroy the socket, but leave other connection info so can reconnect
// to the same endpoint again
func (client *Client) closeSocket() error {

	if nil == client.socket {
		return nil
	}

	if "" != client.address {
		client.socket.Disconnect(client.address)
	}

	err := client.socket.Close()
	client.socket = nil
	return err
}

// Connect - disconnect old address and connect to new
//
// address is a full ZeroMQ endpoint e.g. "tcp://127.0.0.1:2140"
func (client *Client) Connect(address string, serverPublicKey []byte) error {

	if err := client.closeSocket(); nil != err {
		return err
	}
	client.address = ""

	if client.IsSecure() {
		if len(serverPublicKey) != publicKeySize {
			return fault.InvalidPublicKey
		}
		client.serverPublicKey = make([]byte, publicKeySize)
		copy(client.serverPublicKey, serverPublicKey)
	}

	client.address = address
	if err := client.openSocket(); nil != err {
		client.address = ""
		return err
	}
	return nil
}

// IsConnected - check if connected to a node
func (client *Client) IsConnected() bool {
	return "" != client.address && nil != client.socket
}

// Reconnect - close and reopen the connection
//
// needed after a timeout, as a REQ socket cannot continue mid exchange
func (client *Client) Reconnect() error {
	if "" == client.address {
		return fault.NotConnected
	}
	if err := client.closeSocket(); nil != err {
		return err
	}
	return client.openSocket()
}

// Close - disconnect and close
func (client *Client) Close() error {
	err := client.closeSocket()
	client.address = ""
	return err
}

// Send - send a multi-part message of strings and byte slices
func (client *Client) Send(items ...interface{}) error {
	if !client.IsConnected() {
		return fault.NotConnected
	}

	last := len(items) - 1
	for i, item := range items {

		flag := zmq.SNDMORE
		if i == last {
			flag = 0
		}
		switch it := item.(type) {
		case string:
			if _, err := client.socket.Send(it, flag); nil != err {
				return err
			}
		case []byte:
			if _, err := client.socket.SendBytes(it, flag); nil != err {
				return err
			}
		default:
			return fault.InvalidParameter
		}
	}
	return nil
}

// Receive - receive a multi-part reply
func (client *Client) Receive(flags zmq.Flag) ([][]byte, error) {
	if !client.IsConnected() {
		return nil, fault.NotConnected
	}
	return client.socket.RecvMessageBytes(flags)
}

// String - the connected address
func (client *Client) String() string {
	return client.address
}
