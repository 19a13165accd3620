// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/configuration"
	"github.com/bitmark-inc/ledgerindexd/fault"
)

type section struct {
	Listen  []string `gluamapper:"listen"`
	Maximum uint64   `gluamapper:"maximum"`
}

type testConfiguration struct {
	Name    string            `gluamapper:"name"`
	File    string            `gluamapper:"file"`
	Section section           `gluamapper:"section"`
	Levels  map[string]string `gluamapper:"levels"`
	Missing string            `gluamapper:"missing"`
}

func writeFile(t *testing.T, text string) (string, func()) {
	dir, err := ioutil.TempDir("", "configuration-test")
	if nil != err {
		t.Fatalf("temporary directory error: %s", err)
	}
	fileName := filepath.Join(dir, "test.conf")
	if err := ioutil.WriteFile(fileName, []byte(text), 0600); nil != err {
		t.Fatalf("write error: %s", err)
	}
	return fileName, func() {
		os.RemoveAll(dir)
	}
}

func TestParseConfigurationFile(t *testing.T) {
	fileName, done := writeFile(t, `
local M = {}
M.name = node_name
M.file = arg[0]
M.section = {
    listen = { "127.0.0.1:2150", "[::1]:2150" },
    maximum = 2 * 1000,
}
M.levels = { DEFAULT = "info", sync = "debug" }
return M
`)
	defer done()

	config := testConfiguration{
		Missing: "default",
	}
	err := configuration.ParseConfigurationFile(fileName, &config, map[string]string{"node_name": "index-1"})
	assert.Nil(t, err, "parse error")

	assert.Equal(t, "index-1", config.Name, "variable not set")
	assert.Equal(t, fileName, config.File, "arg[0] not set")
	assert.Equal(t, []string{"127.0.0.1:2150", "[::1]:2150"}, config.Section.Listen, "wrong listen")
	assert.Equal(t, uint64(2000), config.Section.Maximum, "wrong maximum")
	assert.Equal(t, "debug", config.Levels["sync"], "wrong levels")
	assert.Equal(t, "default", config.Missing, "default overwritten")
}

func TestParseConfigurationFileErrors(t *testing.T) {
	fileName, done := writeFile(t, `return 42`)
	defer done()

	var config testConfiguration
	err := configuration.ParseConfigurationFile(fileName, &config, nil)
	assert.Equal(t, fault.MissingConfiguration, err, "non table accepted")

	err = configuration.ParseConfigurationFile(fileName, config, nil)
	assert.Equal(t, fault.InvalidStructPointer, err, "non pointer accepted")

	err = configuration.ParseConfigurationFile(filepath.Join(filepath.Dir(fileName), "absent.conf"), &config, nil)
	assert.NotNil(t, err, "missing file accepted")

	syntax, done2 := writeFile(t, `return {`)
	defer done2()
	err = configuration.ParseConfigurationFile(syntax, &config, nil)
	assert.NotNil(t, err, "syntax error accepted")
}
