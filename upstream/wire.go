// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"encoding/binary"

	"github.com/ugorji/go/codec"

	"github.com/bitmark-inc/ledgerindexd/fault"
	"github.com/bitmark-inc/ledgerindexd/transactionrecord"
)

// message frames
//
// request:  "B" ++ start(8) ++ length(8)
// reply:    "B" ++ CBOR page
// error:    "E" ++ text
const (
	blocksCommand = "B"
	errorReply    = "E"
)

func encodeRequest(start uint64, length uint64) []interface{} {
	s := make([]byte, 8)
	binary.BigEndian.PutUint64(s, start)
	n := make([]byte, 8)
	binary.BigEndian.PutUint64(n, length)
	return []interface{}{blocksCommand, s, n}
}

func decodeRequest(frames [][]byte) (uint64, uint64, error) {
	if 3 != len(frames) || blocksCommand != string(frames[0]) || 8 != len(frames[1]) || 8 != len(frames[2]) {
		return 0, 0, fault.InvalidParameter
	}
	return binary.BigEndian.Uint64(frames[1]), binary.BigEndian.Uint64(frames[2]), nil
}

// split a reply into its payload or the remote error
func decodeReply(frames [][]byte, page interface{}) error {
	if 2 != len(frames) {
		return fault.InvalidPeerResponse
	}
	switch string(frames[0]) {
	case blocksCommand:
	case errorReply:
		return fault.ProcessError("upstream error: " + string(frames[1]))
	default:
		return fault.InvalidPeerResponse
	}

	decoder := codec.NewDecoderBytes(frames[1], transactionrecord.CBOR())
	if err := decoder.Decode(page); nil != err {
		return fault.ProcessError(fault.InvalidPeerResponse.Error() + ": " + err.Error())
	}
	return nil
}

func encodeReply(page interface{}) ([]interface{}, error) {
	var buffer []byte
	encoder := codec.NewEncoderBytes(&buffer, transactionrecord.CBOR())
	if err := encoder.Encode(page); nil != err {
		return nil, err
	}
	return []interface{}{blocksCommand, buffer}, nil
}

func encodeError(err error) []interface{} {
	return []interface{}{errorReply, err.Error()}
}
