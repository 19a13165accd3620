// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"
)

// DefaultIdleTime - archive connections unused for this long are closed
const DefaultIdleTime = 10 * time.Minute

// ZmqDialer - keeps archive connections open between cycles
type ZmqDialer struct {
	sync.Mutex
	log     *logger.L
	keys    Keys
	timeout time.Duration
	clients *cache.Cache
}

// NewDialer - archive dialer sharing one set of keys
func NewDialer(log *logger.L, keys Keys, timeout time.Duration, idle time.Duration) *ZmqDialer {
	if idle <= 0 {
		idle = DefaultIdleTime
	}

	clients := cache.New(idle, idle/2)
	clients.OnEvicted(func(reference string, item interface{}) {
		log.Infof("close idle archive: %s", reference)
		item.(*ArchiveClient).Close()
	})

	return &ZmqDialer{
		log:     log,
		keys:    keys,
		timeout: timeout,
		clients: clients,
	}
}

// Archive - cached or new connection to an archive
func (d *ZmqDialer) Archive(reference string) (Archive, error) {
	d.Lock()
	defer d.Unlock()

	if item, found := d.clients.Get(reference); found {
		// restart the idle time
		d.clients.SetDefault(reference, item)
		return item.(*ArchiveClient), nil
	}

	// an expired entry is still held until the janitor runs, Delete
	// passes it to OnEvicted so it is closed before being replaced
	d.clients.Delete(reference)

	a, err := NewArchive(d.log, reference, d.keys, d.timeout)
	if nil != err {
		return nil, err
	}
	d.clients.SetDefault(reference, a)
	return a, nil
}

// Open - number of cached archive connections
func (d *ZmqDialer) Open() int {
	return d.clients.ItemCount()
}

// Close - close every cached connection
func (d *ZmqDialer) Close() {
	d.Lock()
	defer d.Unlock()

	// Items skips expired entries
	d.clients.DeleteExpired()

	for reference, item := range d.clients.Items() {
		item.Object.(*ArchiveClient).Close()
		d.log.Debugf("closed archive: %s", reference)
	}
	d.clients.Flush()
}
