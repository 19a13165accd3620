// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Client - to hold RPC connections streams
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to a ledgerindexd
//
// the server certificate is self signed so it is only checked when a
// SHA3-256 fingerprint is given
func NewClient(connect string, fingerprint string, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if err != nil {
		return nil, err
	}

	if "" != fingerprint {
		if err := checkFingerprint(conn, fingerprint); nil != err {
			conn.Close()
			return nil, err
		}
	}

	return newClient(conn, verbose, handle), nil
}

func newClient(conn net.Conn, verbose bool, handle io.Writer) *Client {
	return &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: verbose,
		handle:  handle,
	}
}

func checkFingerprint(conn *tls.Conn, fingerprint string) error {
	certificates := conn.ConnectionState().PeerCertificates
	if 0 == len(certificates) {
		return fmt.Errorf("no server certificate")
	}
	actual := sha3.Sum256(certificates[0].Raw)
	expected := strings.ToLower(strings.Replace(fingerprint, ":", "", -1))
	if hex.EncodeToString(actual[:]) != expected {
		return fmt.Errorf("server fingerprint: %x  does not match: %s", actual, fingerprint)
	}
	return nil
}

// Close - shutdown the ledgerindexd connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}

func (c *Client) printf(format string, arguments ...interface{}) {
	if c.verbose && nil != c.handle {
		fmt.Fprintf(c.handle, format, arguments...)
	}
}
