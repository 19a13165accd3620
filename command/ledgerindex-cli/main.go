// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect     string
	fingerprint string
	verbose     bool
	e           io.Writer
	w           io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "ledgerindex-cli"
	app.Usage = "query a ledgerindexd"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2150",
			Usage:  " ledgerindexd host/IP and port, `HOST:PORT`",
			EnvVar: "LEDGERINDEX_CONNECT",
		},
		cli.StringFlag{
			Name:   "fingerprint, f",
			Value:  "",
			Usage:  " expected SHA3-256 server certificate `FINGERPRINT`",
			EnvVar: "LEDGERINDEX_FINGERPRINT",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "blocks",
			Usage:     "fetch a range of blocks",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " first block `NUMBER`",
				},
				cli.Uint64Flag{
					Name:  "count, n",
					Value: 10,
					Usage: " maximum blocks to fetch `COUNT`",
				},
				cli.BoolFlag{
					Name:  "decode, d",
					Usage: " show decoded transactions instead of hex",
				},
			},
			Action: runBlocks,
		},
		{
			Name:      "transactions",
			Usage:     "list the transactions of an account, newest first",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "*account `OWNER[.SUBACCOUNT]`",
				},
				cli.StringFlag{
					Name:  "start, s",
					Value: "",
					Usage: " only transactions before block `NUMBER`",
				},
				cli.Uint64Flag{
					Name:  "count, n",
					Value: 10,
					Usage: " maximum transactions `COUNT`",
				},
			},
			Action: runTransactions,
		},
		{
			Name:   "ledger-id",
			Usage:  "display the ledger being indexed",
			Action: runLedgerId,
		},
		{
			Name:   "info",
			Usage:  "display ledgerindexd info",
			Action: runInfo,
		},
		{
			Name:  "version",
			Usage: "display ledgerindex-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		c.App.Metadata["config"] = &metadata{
			connect:     c.GlobalString("connect"),
			fingerprint: c.GlobalString("fingerprint"),
			verbose:     c.GlobalBool("verbose"),
			e:           c.App.ErrWriter,
			w:           c.App.Writer,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
