// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/command/ledgerindex-cli/rpccalls"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

func connect(m *metadata) (*rpccalls.Client, error) {
	if m.verbose {
		fmt.Fprintf(m.e, "connect: %s\n", m.connect)
	}
	return rpccalls.NewClient(m.connect, m.fingerprint, m.verbose, m.e)
}

func runBlocks(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	start := c.Uint64("start")
	response, err := client.GetBlocks(start, c.Uint64("count"))
	if nil != err {
		return err
	}

	if !c.Bool("decode") {
		return printJson(m.w, response)
	}

	type decodedBlock struct {
		Number      uint64                         `json:"number,string"`
		Transaction *transactionrecord.Transaction `json:"transaction"`
	}
	decoded := struct {
		ChainLength uint64         `json:"chainLength,string"`
		Blocks      []decodedBlock `json:"blocks"`
	}{
		ChainLength: response.ChainLength,
		Blocks:      make([]decodedBlock, len(response.Blocks)),
	}
	for i, h := range response.Blocks {
		packed, err := hex.DecodeString(h)
		if nil != err {
			return err
		}
		tx, err := transactionrecord.Packed(packed).Unpack()
		if nil != err {
			return fmt.Errorf("block: %d  error: %s", start+uint64(i), err)
		}
		decoded.Blocks[i] = decodedBlock{
			Number:      start + uint64(i),
			Transaction: tx,
		}
	}
	return printJson(m.w, decoded)
}

func runTransactions(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("account")
	if "" == name {
		return fmt.Errorf("account is required")
	}
	a, err := account.FromString(name)
	if nil != err {
		return err
	}

	var start *uint64
	if s := c.String("start"); "" != s {
		n, err := strconv.ParseUint(s, 10, 64)
		if nil != err {
			return fmt.Errorf("start: %q error: %s", s, err)
		}
		start = &n
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetAccountTransactions(a, start, c.Uint64("count"))
	if nil != err {
		return err
	}
	return printJson(m.w, response)
}

func runLedgerId(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	ledger, err := client.GetLedgerId()
	if nil != err {
		return err
	}
	fmt.Fprintf(m.w, "%s\n", ledger)
	return nil
}

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetInfoCompat()
	if nil != err {
		return err
	}
	response["_connection"] = m.connect

	return printJson(m.w, response)
}
