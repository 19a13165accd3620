// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError
type StorageError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised           = ExistsError("already initialised")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	EmptyArchiveResponse         = ProcessError("archive returned no blocks")
	InvalidAccount               = InvalidError("invalid account")
	InvalidBlockAccount          = RecordError("invalid account in block")
	InvalidBlockEncoding         = RecordError("invalid block encoding")
	InvalidCount                 = InvalidError("invalid count")
	InvalidCursor                = InvalidError("invalid cursor")
	InvalidIpAddress             = InvalidError("invalid IP address")
	InvalidLoggerChannel         = InvalidError("invalid logger channel")
	InvalidOperation             = RecordError("invalid operation")
	InvalidOwner                 = InvalidError("invalid owner")
	InvalidParameter             = InvalidError("invalid parameter")
	InvalidPeerResponse          = ProcessError("invalid peer response")
	InvalidPrivateKey            = InvalidError("invalid private key")
	InvalidPublicKey             = InvalidError("invalid public key")
	InvalidStructPointer         = InvalidError("invalid struct pointer")
	InvalidSubaccount            = InvalidError("invalid subaccount")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	LedgerMismatch               = InvalidError("ledger does not match initialised ledger")
	MissingAccount               = RecordError("missing account in transaction")
	MissingAmount                = RecordError("missing amount in transaction")
	MissingBlock                 = NotFoundError("missing block")
	MissingConfiguration         = InvalidError("missing configuration")
	MissingLedger                = InvalidError("missing ledger reference")
	MissingParameters            = InvalidError("missing parameters")
	NotConnected                 = ProcessError("not connected")
	NotInitialised               = NotFoundError("not initialised")
	OutOfSpace                   = StorageError("block store out of space")
	RateLimiting                 = InvalidError("rate limiting")
	SyncAlreadyRunning           = ExistsError("sync already running")
	SyncHalted                   = StorageError("sync halted after fatal error")
	TransactionInUse             = ExistsError("transaction already in use")
	UnsupportedVersion           = StorageError("unsupported database version")
	UpstreamGap                  = ProcessError("upstream blocks do not continue the local chain")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }
func (e StorageError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }
func IsErrStorage(e error) bool  { _, ok := e.(StorageError); return ok }

// IsFatal - errors that must stop synchronisation until an operator intervenes
func IsFatal(e error) bool {
	return IsErrRecord(e) || IsErrStorage(e)
}
