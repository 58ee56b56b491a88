// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/iotexproject/go-pkgs/cache/ttl"
	"github.com/iotexproject/go-pkgs/hash"
	"go.uber.org/zap"

	"github.com/gluwa/gluwacoin-ledger/pkg/log"
)

type (
	// ReadKey represents a read key
	ReadKey struct {
		Name   string `json:"name,omitempty"`
		Height string `json:"height,omitempty"`
	}

	// ReadCache stores serialized read results. Receipts of an applied height never change, so entries are not
	// invalidated by new blocks.
	ReadCache struct {
		mu         sync.Mutex
		total, hit int
		c          *ttl.Cache
	}
)

func receiptsKey(height uint64) hash.Hash160 {
	k := ReadKey{Name: "receipts", Height: strconv.FormatUint(height, 10)}
	return k.Hash()
}

// Hash returns the hash of key's json string
func (k *ReadKey) Hash() hash.Hash160 {
	b, _ := json.Marshal(k)
	return hash.Hash160b(b)
}

// NewReadCache returns a new read cache
func NewReadCache() *ReadCache {
	c, _ := ttl.NewCache()
	return &ReadCache{
		c: c,
	}
}

// Get reads according to key
func (rc *ReadCache) Get(key hash.Hash160) ([]byte, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.total++
	d, ok := rc.c.Get(key)
	if !ok {
		return nil, false
	}
	rc.hit++
	if rc.hit%100 == 0 {
		log.Logger("chainservice").Debug("Read cache hit", zap.Int("total", rc.total), zap.Int("hit", rc.hit))
	}
	return d.([]byte), true
}

// Put writes according to key
func (rc *ReadCache) Put(key hash.Hash160, value []byte) {
	rc.c.Set(key, value)
}

// Stats returns the number of lookups and hits
func (rc *ReadCache) Stats() (total, hit int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.total, rc.hit
}

// Clear clears the cache
func (rc *ReadCache) Clear() {
	rc.c.Reset()
}
