// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerindexd/account"
	"github.com/bitmark-inc/ledgerindexd/fault"
)

var (
	ownerOne = []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	ownerTwo = []byte{0x01, 0x02, 0x03, 0x04, 0x06}
)

func TestAbsentSubaccountEqualsZero(t *testing.T) {
	absent, err := account.New(ownerOne, nil)
	assert.Nil(t, err, "absent subaccount")

	zero, err := account.New(ownerOne, make([]byte, account.SubaccountLength))
	assert.Nil(t, err, "zero subaccount")

	assert.Equal(t, absent.Hash(), zero.Hash(), "hash differs for zero subaccount")
	assert.True(t, absent.Equal(zero), "accounts not equal")
	assert.Equal(t, absent.String(), zero.String(), "text differs for zero subaccount")
}

func TestHashSeparatesAccounts(t *testing.T) {
	sub := bytes.Repeat([]byte{0x07}, account.SubaccountLength)

	a, _ := account.New(ownerOne, nil)
	b, _ := account.New(ownerTwo, nil)
	c, _ := account.New(ownerOne, sub)

	assert.NotEqual(t, a.Hash(), b.Hash(), "owners collide")
	assert.NotEqual(t, a.Hash(), c.Hash(), "subaccounts collide")
	assert.False(t, a.Equal(c), "different subaccounts compare equal")
}

func TestInvalidAccounts(t *testing.T) {
	_, err := account.New(make([]byte, account.MaximumOwnerLength+1), nil)
	assert.Equal(t, fault.InvalidOwner, err, "long owner accepted")

	_, err = account.New(ownerOne, []byte{1, 2, 3})
	assert.Equal(t, fault.InvalidSubaccount, err, "short subaccount accepted")

	for _, s := range []string{"", "0OIl", "2VfUX.", "2VfUX.zz"} {
		_, err := account.FromString(s)
		assert.NotNil(t, err, "accepted: %q", s)
	}
}

func TestTextForm(t *testing.T) {
	sub := make([]byte, account.SubaccountLength)
	sub[31] = 0x2a

	a, _ := account.New(ownerOne, sub)
	text := a.String()
	assert.Contains(t, text, ".", "missing subaccount separator")

	b, err := account.FromString(text)
	assert.Nil(t, err, "parse error")
	assert.True(t, a.Equal(b), "parsed account differs")

	buffer, err := json.Marshal(struct {
		Account *account.Account `json:"account"`
	}{a})
	assert.Nil(t, err, "marshal error")

	var reply struct {
		Account *account.Account `json:"account"`
	}
	err = json.Unmarshal(buffer, &reply)
	assert.Nil(t, err, "unmarshal error")
	assert.True(t, a.Equal(reply.Account), "json round trip changed account")
}
