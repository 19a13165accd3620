// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/background"
	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc/certificate"
	"github.com/bitmark-inc/ledgerindexd/rpc/listeners"
	"github.com/bitmark-inc/ledgerindexd/upstream"
	"github.com/bitmark-inc/ledgerindexd/zmqutil"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"

	upstreamPublicKeyFilename  = "upstream.public"
	upstreamPrivateKeyFilename = "upstream.private"

	maximumDumpBlocks = 100
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := certificate.GenerateFiles("ledgerindexd", certificateFilename, privateKeyFilename, addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "gen-upstream-key", "key":
		publicKeyFilename := getFilenameWithDirectory(arguments, upstreamPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, upstreamPrivateKeyFilename)
		err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "stub-ledger", "stub":
		if len(arguments) < 2 {
			exitwithstatus.Message("usage: %s stub-ledger DIR LISTEN [PUBLIC_KEY PRIVATE_KEY]", program)
		}
		runStubLedger(arguments)

	case "start", "run":
		return false // continue processing

	case "block", "b":
		return false // defer processing until database is loaded

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...] (rpc)   - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-upstream-key [DIR]     (key)    - create private key in: %q\n", "DIR/"+upstreamPrivateKeyFilename)
		fmt.Printf("                                        and the public key in: %q\n", "DIR/"+upstreamPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  stub-ledger DIR LISTEN     (stub)   - serve the *.block files in DIR as a ledger\n")
		fmt.Printf("    [PUBLIC PRIVATE]                    optionally using the key files PUBLIC and PRIVATE\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  block S [E]                (b)      - dump block(s) as a JSON structures to stdout\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the committed blocks are readable so these commands can inspect
// the database
func processDataCommand(log *logger.L, arguments []string, service *query.Service) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "block", "b":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing block number argument")
		}

		first, err := strconv.ParseUint(arguments[0], 10, 64)
		if nil != err {
			exitwithstatus.Message("error in block number: %s", err)
		}
		last := first
		if len(arguments) > 1 {
			last, err = strconv.ParseUint(arguments[1], 10, 64)
			if nil != err {
				exitwithstatus.Message("error in ending block number: %s", err)
			}
		}
		if last < first {
			exitwithstatus.Message("ending block: %d is before: %d", last, first)
		}
		if last-first >= maximumDumpBlocks {
			exitwithstatus.Message("at most %d blocks can be dumped", maximumDumpBlocks)
		}

		log.Infof("dump blocks: %d to %d", first, last)
		if err := dumpBlocks(os.Stdout, service, first, last-first+1); nil != err {
			exitwithstatus.Message("dump error: %s", err)
		}

	default:
		exitwithstatus.Message("error: no such command: %q", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

// print committed blocks as JSON
func dumpBlocks(out io.Writer, service *query.Service, start uint64, count uint64) error {
	reply := service.GetBlocks(start, count)
	if 0 == len(reply.Blocks) {
		return fmt.Errorf("no blocks from: %d  chain length: %d", start, reply.ChainLength)
	}

	for i, packed := range reply.Blocks {
		tx, err := packed.Unpack()
		if nil != err {
			return err
		}
		item := struct {
			Number      uint64      `json:"number"`
			Transaction interface{} `json:"transaction"`
		}{
			Number:      start + uint64(i),
			Transaction: tx,
		}
		b, err := json.MarshalIndent(item, "", "  ")
		if nil != err {
			return err
		}
		fmt.Fprintf(out, "%s\n", b)
	}
	return nil
}

// run a stub ledger until interrupted
func runStubLedger(arguments []string) {
	blocks, err := loadStubBlocks(arguments[0])
	if nil != err {
		exitwithstatus.Message("stub ledger: %q error: %s", arguments[0], err)
	}

	keys := upstream.Keys{}
	if len(arguments) >= 4 {
		keys, err = readKeys(arguments[2], arguments[3], "")
		if nil != err {
			exitwithstatus.Message("stub ledger keys error: %s", err)
		}
	}

	logging := logger.Configuration{
		Directory: os.TempDir(),
		File:      "ledgerindexd-stub.log",
		Size:      defaultLogSize,
		Count:     defaultLogCount,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "info",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		exitwithstatus.Message("logger setup failed with error: %s", err)
	}
	defer logger.Finalise()

	server, err := upstream.NewServer(logger.New("stub"), arguments[1], keys, newStubLedger(blocks))
	if nil != err {
		exitwithstatus.Message("stub ledger: %q error: %s", arguments[1], err)
	}

	fmt.Printf("serving %d blocks on: %s\n", len(blocks), arguments[1])
	running := background.Start(background.Processes{server}, nil)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	fmt.Printf("\nreceived signal: %v\n", sig)

	running.Stop()
}

// read a set of CurveZMQ keys, a blank private key file gives no keys
func readKeys(publicKeyFile string, privateKeyFile string, serverKeyFile string) (upstream.Keys, error) {
	keys := upstream.Keys{}
	if "" == privateKeyFile {
		return keys, nil
	}

	data, err := ioutil.ReadFile(privateKeyFile)
	if nil != err {
		return keys, err
	}
	keys.Private, err = zmqutil.ReadPrivateKey(string(data))
	if nil != err {
		return keys, err
	}

	data, err = ioutil.ReadFile(publicKeyFile)
	if nil != err {
		return keys, err
	}
	keys.Public, err = zmqutil.ReadPublicKey(string(data))
	if nil != err {
		return keys, err
	}

	if "" != serverKeyFile {
		data, err = ioutil.ReadFile(serverKeyFile)
		if nil != err {
			return keys, err
		}
		keys.Server, err = zmqutil.ReadPublicKey(string(data))
		if nil != err {
			return keys, err
		}
	}
	return keys, nil
}

// copies of the listener configurations with the PEM data in place
// of the file names
func readCertificates(options *Configuration) (*listeners.RPCConfiguration, *listeners.HTTPSConfiguration, error) {
	clientRPC := options.ClientRPC
	httpsRPC := options.HttpsRPC

	files := []*string{
		&clientRPC.Certificate,
		&clientRPC.PrivateKey,
	}
	if 0 != len(httpsRPC.Listen) {
		files = append(files, &httpsRPC.Certificate, &httpsRPC.PrivateKey)
	}

	for _, f := range files {
		data, err := ioutil.ReadFile(*f)
		if nil != err {
			return nil, nil, err
		}
		*f = string(data)
	}
	return &clientRPC, &httpsRPC, nil
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
