// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/accountindex"
	"github.com/bitmark-inc/ledgerindexd/background"
	"github.com/bitmark-inc/ledgerindexd/block"
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/query"
	"github.com/bitmark-inc/ledgerindexd/rpc"
	"github.com/bitmark-inc/ledgerindexd/state"
	"github.com/bitmark-inc/ledgerindexd/storage"
	"github.com/bitmark-inc/ledgerindexd/synchronise"
	"github.com/bitmark-inc/ledgerindexd/upstream"
	"github.com/bitmark-inc/ledgerindexd/zmqutil"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, nil)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	times, err := theConfiguration.timing()
	if nil != err {
		log.Criticalf("configuration error: %s", err)
		exitwithstatus.Message("configuration error: %s", err)
	}

	// general info
	log.Infof("ledger: %q", theConfiguration.Ledger)
	log.Infof("database: %q", theConfiguration.Database.Name)

	// connection info
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "HttpsRPC", theConfiguration.HttpsRPC)
	log.Debugf("%s = %#v", "Upstream", theConfiguration.Upstream)
	log.Debugf("%s = %#v", "Publish", theConfiguration.Publish)

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	log.Info("initialise state")
	st, err := openState(log, store, theConfiguration)
	if nil != err {
		log.Criticalf("state initialise error: %s", err)
		exitwithstatus.Message("state initialise error: %s", err)
	}

	blocks := block.New(store, theConfiguration.Synchronise.MaximumBlocks)
	index := accountindex.New(store)
	service := query.New(logger.New("query"), blocks, index, st)

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(log, arguments, service) {
		return
	}

	// initialise encryption
	err = zmqutil.StartAuthentication()
	if nil != err {
		log.Criticalf("zmq.AuthStart: error: %s", err)
		exitwithstatus.Message("zmq.AuthStart: error: %s", err)
	}

	upstreamKeys, err := readKeys(theConfiguration.Upstream.PublicKey, theConfiguration.Upstream.PrivateKey, theConfiguration.Upstream.ServerPublicKey)
	if nil != err {
		log.Criticalf("upstream keys error: %s", err)
		exitwithstatus.Message("upstream keys error: %s", err)
	}

	upstreamLog := logger.New("upstream")
	ledger, err := upstream.NewLedger(upstreamLog, theConfiguration.Ledger, upstreamKeys, times.upstreamTimeout)
	if nil != err {
		log.Criticalf("ledger connect error: %s", err)
		exitwithstatus.Message("ledger connect error: %s", err)
	}
	defer ledger.Close()

	dialer := upstream.NewDialer(upstreamLog, upstreamKeys, times.upstreamTimeout, times.archiveIdle)
	defer dialer.Close()

	syncLog := logger.New("synchronise")
	engine := synchronise.New(syncLog, store, blocks, index, st, ledger, dialer, times.sync)
	runner := synchronise.NewRunner(syncLog, engine)

	processes := background.Processes{runner}

	// start up the rpc background processes
	clientRPC, httpsRPC, err := readCertificates(theConfiguration)
	if nil != err {
		log.Criticalf("rpc certificate error: %s", err)
		exitwithstatus.Message("rpc certificate error: %s", err)
	}
	server, err := rpc.Setup(clientRPC, httpsRPC, service, engine, version, time.Now())
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	processes = append(processes, server)

	// optional archive for downstream indexes
	if "" != theConfiguration.Publish.Listen {
		publishKeys, err := readKeys(theConfiguration.Publish.PublicKey, theConfiguration.Publish.PrivateKey, "")
		if nil != err {
			log.Criticalf("publish keys error: %s", err)
			exitwithstatus.Message("publish keys error: %s", err)
		}
		publisher, err := upstream.NewServer(logger.New("publish"), theConfiguration.Publish.Listen, publishKeys, query.NewArchiveResponder(service))
		if nil != err {
			log.Criticalf("publish initialise error: %s", err)
			exitwithstatus.Message("publish initialise error: %s", err)
		}
		processes = append(processes, publisher)
	}

	running := background.Start(processes, nil)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	running.Stop()
}

// bind the database to the configured ledger
//
// a database created for another ledger is never reused
func openState(log *logger.L, store *storage.Store, options *Configuration) (*state.State, error) {
	st := state.New(store)

	if !st.IsInitialised() {
		if err := st.Initialise(options.Ledger, options.Synchronise.MaxPageSize); nil != err {
			return nil, err
		}
		log.Infof("initialised for ledger: %q", options.Ledger)
		return st, nil
	}

	ledger, err := st.LedgerId()
	if nil != err {
		return nil, err
	}
	if ledger != options.Ledger {
		log.Criticalf("database ledger: %q  configured: %q", ledger, options.Ledger)
		return nil, fault.LedgerMismatch
	}

	if options.Synchronise.MaxPageSize > 0 && options.Synchronise.MaxPageSize != st.MaxPageSize() {
		log.Infof("max page size: %d -> %d", st.MaxPageSize(), options.Synchronise.MaxPageSize)
		if err := st.SetMaxPageSize(options.Synchronise.MaxPageSize); nil != err {
			return nil, err
		}
	}
	return st, nil
}
