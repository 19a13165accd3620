// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"
	"io/ioutil"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"
	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/util"
)

const validity = 10 * 365 * 24 * time.Hour

// Get - load a PEM certificate and key into a TLS configuration
// together with the certificate's fingerprint
func Get(log *logger.L, name, certificate, key string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if err != nil {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
	}

	fin = fingerprint(keyPair.Certificate[0])

	return tlsConfiguration, fin, nil
}

// Generate - create a self-signed certificate and key as PEM
func Generate(name string, extraHosts []string) ([]byte, []byte, error) {
	org := "ledgerindexd self signed cert for: " + name
	return certgen.NewTLSCertPair(org, time.Now().Add(validity), false, extraHosts)
}

// GenerateFiles - write a new self-signed certificate and key,
// never overwriting either file
func GenerateFiles(name string, certificateFileName string, privateKeyFileName string, extraHosts []string) error {
	if util.EnsureFileExists(certificateFileName) || util.EnsureFileExists(privateKeyFileName) {
		return fault.CertificateFileAlreadyExists
	}

	cert, key, err := Generate(name, extraHosts)
	if nil != err {
		return err
	}

	if err := ioutil.WriteFile(certificateFileName, cert, 0666); nil != err {
		return err
	}
	if err := ioutil.WriteFile(privateKeyFileName, key, 0600); nil != err {
		_ = os.Remove(certificateFileName)
		return err
	}
	return nil
}

// fingerprint - compute the fingerprint of a certificate
//
// FreeBSD: openssl x509 -outform DER -in ledgerindexd-rpc.crt | sha3sum -a 256
func fingerprint(certificate []byte) [32]byte {
	return sha3.Sum256(certificate)
}
