// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ledgerindexd/configuration"
	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/rpc/listeners"
	"github.com/bitmark-inc/ledgerindexd/state"
	"github.com/bitmark-inc/ledgerindexd/synchronise"
	"github.com/bitmark-inc/ledgerindexd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultUpstreamPublicKeyFile  = "upstream.public"
	defaultUpstreamPrivateKeyFile = "upstream.private"
	defaultKeyFile                = "rpc.key"
	defaultCertificateFile        = "rpc.crt"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "index.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "ledgerindexd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10

	defaultUpstreamTimeout = "30s"
	defaultArchiveIdle     = "5m"
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - location of the LevelDB database
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// UpstreamType - connection to the ledger and its archives
type UpstreamType struct {
	Timeout         string `gluamapper:"timeout" json:"timeout"`
	ArchiveIdle     string `gluamapper:"archive_idle" json:"archive_idle"`
	PublicKey       string `gluamapper:"public_key" json:"public_key"`
	PrivateKey      string `gluamapper:"private_key" json:"private_key"`
	ServerPublicKey string `gluamapper:"server_public_key" json:"server_public_key"`
}

// PublishType - optional archive server for downstream indexes
type PublishType struct {
	Listen     string `gluamapper:"listen" json:"listen"`
	PublicKey  string `gluamapper:"public_key" json:"public_key"`
	PrivateKey string `gluamapper:"private_key" json:"private_key"`
}

// SynchroniseType - sync cycle limits
type SynchroniseType struct {
	MaxPageSize   uint64 `gluamapper:"max_page_size" json:"max_page_size"`
	MaxWait       string `gluamapper:"max_wait" json:"max_wait"`
	RetryDelay    string `gluamapper:"retry_delay" json:"retry_delay"`
	MaximumBlocks uint64 `gluamapper:"maximum_blocks" json:"maximum_blocks"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Ledger        string       `gluamapper:"ledger" json:"ledger"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	Upstream    UpstreamType    `gluamapper:"upstream" json:"upstream"`
	Publish     PublishType     `gluamapper:"publish" json:"publish"`
	Synchronise SynchroniseType `gluamapper:"synchronise" json:"synchronise"`

	ClientRPC listeners.RPCConfiguration   `gluamapper:"client_rpc" json:"client_rpc"`
	HttpsRPC  listeners.HTTPSConfiguration `gluamapper:"https_rpc" json:"https_rpc"`
	Logging   logger.Configuration         `gluamapper:"logging" json:"logging"`
}

// durations decoded from the configuration strings
type timing struct {
	upstreamTimeout time.Duration
	archiveIdle     time.Duration
	sync            synchronise.Timing
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		Upstream: UpstreamType{
			Timeout:     defaultUpstreamTimeout,
			ArchiveIdle: defaultArchiveIdle,
		},

		Publish: PublishType{
			PublicKey:  defaultUpstreamPublicKeyFile,
			PrivateKey: defaultUpstreamPrivateKeyFile,
		},

		Synchronise: SynchroniseType{
			MaxPageSize: state.DefaultMaxPageSize,
			MaxWait:     synchronise.DefaultMaxWait.String(),
			RetryDelay:  synchronise.DefaultRetryDelay.String(),
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		// default: share config with normal RPC
		HttpsRPC: listeners.HTTPSConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	if "" == options.Ledger {
		return nil, fault.MissingLedger
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.HttpsRPC.Certificate,
		&options.HttpsRPC.PrivateKey,
		&options.Publish.PublicKey,
		&options.Publish.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Upstream.PublicKey,
		&options.Upstream.PrivateKey,
		&options.Upstream.ServerPublicKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names, then add
	// the correct directory prefix (or none if nil)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		if !util.IsPlainName(*f[0]) {
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
		if nil != f[1] {
			*f[0] = util.EnsureAbsolute(*f[1], *f[0])
		}
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Logging.Directory,
	} {
		if err := util.EnsureDirectory(d); nil != err {
			return nil, err
		}
	}

	// reject bad durations before anything starts
	if _, err := options.timing(); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// decode the duration strings
func (options *Configuration) timing() (*timing, error) {
	t := &timing{}

	durations := []struct {
		name  string
		value string
		d     *time.Duration
	}{
		{"upstream.timeout", options.Upstream.Timeout, &t.upstreamTimeout},
		{"upstream.archive_idle", options.Upstream.ArchiveIdle, &t.archiveIdle},
		{"synchronise.max_wait", options.Synchronise.MaxWait, &t.sync.MaxWait},
		{"synchronise.retry_delay", options.Synchronise.RetryDelay, &t.sync.RetryDelay},
	}
	for _, item := range durations {
		d, err := time.ParseDuration(item.value)
		if nil != err {
			return nil, fmt.Errorf("%s: %q is not a duration: %s", item.name, item.value, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%s: %q must be positive", item.name, item.value)
		}
		*item.d = d
	}
	return t, nil
}
