// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/ledgerindexd/fault"
)

// miscellaneous constants
const (
	MaximumOwnerLength = 29 // longest owner identity the ledger issues
	SubaccountLength   = 32
	HashLength         = 32

	subaccountSeparator = "."
)

// Subaccount - optional 32 byte sub-identifier of an owner
type Subaccount [SubaccountLength]byte

// Hash - fixed size digest of the canonical account, used as index key
type Hash [HashLength]byte

// the all zero subaccount, equivalent to no subaccount
var defaultSubaccount Subaccount

// Account - owner identity with an optional subaccount
type Account struct {
	Owner      []byte
	Subaccount *Subaccount
}

// New - create an account, copying its inputs
func New(owner []byte, subaccount []byte) (*Account, error) {
	if len(owner) > MaximumOwnerLength {
		return nil, fault.InvalidOwner
	}

	a := &Account{
		Owner: make([]byte, len(owner)),
	}
	copy(a.Owner, owner)

	switch len(subaccount) {
	case 0:
	case SubaccountLength:
		a.Subaccount = new(Subaccount)
		copy(a.Subaccount[:], subaccount)
	default:
		return nil, fault.InvalidSubaccount
	}
	return a, nil
}

// EffectiveSubaccount - the subaccount with absent mapped to all zeros
func (a *Account) EffectiveSubaccount() Subaccount {
	if nil == a.Subaccount {
		return defaultSubaccount
	}
	return *a.Subaccount
}

// Hash - SHA3-256 of:  len(owner) ⧺ owner ⧺ effective subaccount
//
// the length prefix keeps (owner, subaccount) pairs unambiguous
func (a *Account) Hash() Hash {
	subaccount := a.EffectiveSubaccount()

	buffer := make([]byte, 0, 1+len(a.Owner)+SubaccountLength)
	buffer = append(buffer, byte(len(a.Owner)))
	buffer = append(buffer, a.Owner...)
	buffer = append(buffer, subaccount[:]...)

	return Hash(sha3.Sum256(buffer))
}

// Equal - compare canonical forms
func (a *Account) Equal(other *Account) bool {
	if nil == a || nil == other {
		return a == other
	}
	return bytes.Equal(a.Owner, other.Owner) && a.EffectiveSubaccount() == other.EffectiveSubaccount()
}

// String - base58 owner, followed by "." and hex subaccount when
// the subaccount is not the default
func (a Account) String() string {
	s := base58.Encode(a.Owner)
	if nil != a.Subaccount && defaultSubaccount != *a.Subaccount {
		s += subaccountSeparator + hex.EncodeToString(a.Subaccount[:])
	}
	return s
}

// MarshalText - convert an account to text
func (a Account) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - convert text into an account
func (a *Account) UnmarshalText(s []byte) error {
	parsed, err := FromString(string(s))
	if nil != err {
		return err
	}
	*a = *parsed
	return nil
}

// FromString - parse the text form produced by String
func FromString(s string) (*Account, error) {
	if "" == s {
		return nil, fault.InvalidAccount
	}

	ownerText := s
	subaccountText := ""
	if i := strings.Index(s, subaccountSeparator); i >= 0 {
		ownerText = s[:i]
		subaccountText = s[i+1:]
		if "" == subaccountText {
			return nil, fault.InvalidSubaccount
		}
	}

	owner, err := base58.Decode(ownerText)
	if nil != err || 0 == len(owner) {
		return nil, fault.InvalidOwner
	}

	var subaccount []byte
	if "" != subaccountText {
		subaccount, err = hex.DecodeString(subaccountText)
		if nil != err {
			return nil, fault.InvalidSubaccount
		}
	}

	return New(owner, subaccount)
}
