// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate_test

import (
	"crypto/tls"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/fixtures"
	"github.com/bitmark-inc/ledgerindexd/rpc/certificate"
)

func TestGet(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	cer, key, err := certificate.Generate("test", nil)
	assert.Nil(t, err, "generate error")

	tlsConfig, fingerprint, err := certificate.Get(
		logger.New(fixtures.LogCategory),
		"test",
		string(cer),
		string(key),
	)
	assert.Nil(t, err, "wrong Get")

	pair, _ := tls.X509KeyPair(cer, key)

	assert.Equal(t, sha3.Sum256(pair.Certificate[0]), fingerprint, "wrong fingerprint")
	assert.Equal(t, pair, tlsConfig.Certificates[0], "wrong config")
}

func TestGetInvalid(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_, _, err := certificate.Get(logger.New(fixtures.LogCategory), "test", "bad", "bad")
	assert.NotNil(t, err, "invalid pair accepted")
}

func TestGenerateFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "certificate-test")
	assert.Nil(t, err, "temporary directory error")
	defer os.RemoveAll(dir)

	cer := filepath.Join(dir, "rpc.crt")
	key := filepath.Join(dir, "rpc.key")

	err = certificate.GenerateFiles("test", cer, key, nil)
	assert.Nil(t, err, "generate error")

	_, err = tls.LoadX509KeyPair(cer, key)
	assert.Nil(t, err, "generated files do not load")

	err = certificate.GenerateFiles("test", cer, key, nil)
	assert.Equal(t, fault.CertificateFileAlreadyExists, err, "existing files overwritten")
}
