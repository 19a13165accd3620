// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// This maintains a single LevelDB database split into a series of
// pools.  Each pool is defined by a prefix byte that is obtained from
// the prefix tag in the struct defining the available pools.  Blocks
// and the account index live in the same database so that one batch
// can update both.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++           = concatenation of byte data
// 3. block number = big endian uint64 (8 bytes)
// 4. reversed     = bitwise complement of block number (8 bytes)
// 5. account hash = SHA3-256(len(owner) ++ owner ++ subaccount) (32 bytes)
//
// State:
//
//   S ++ name                  - singleton values
//                                "ledger"  : ledger reference text
//                                "count"   : number of stored blocks (uint64)
//                                "running" : 0x01 while a sync cycle is active
//
// Blocks:
//
//   B ++ block number          - block store
//                                data: packed block exactly as received
//
// Account index:
//
//   A ++ account hash ++ reversed
//                              - one entry per block touching the account
//                                data: empty
//
// Database version:
//
//   0x00 ++ "VERSION"          - big endian uint32
package storage
