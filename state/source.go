// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"slices"

	"github.com/qianbin/directcache"

	"github.com/inference-net/staking/kv"
)

// source reads committed values from the kv store through an optional raw cache.
type source struct {
	db    kv.Getter
	cache *directcache.Cache
}

func storeKey(k storageKey) []byte {
	b := make([]byte, 0, len(k.addr)+len(k.key))
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

func (s *source) get(k storageKey) ([]byte, error) {
	key := storeKey(k)

	var (
		val    []byte
		cached bool
	)
	if s.cache != nil {
		cached = s.cache.AdvGet(key, func(v []byte) {
			val = slices.Clone(v)
		}, false)
		if cached {
			if len(val) == 0 {
				return []byte(nil), nil
			}
			return val, nil
		}
	}

	val, err := s.db.Get(key)
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, err
		}
		val = nil
	}
	if s.cache != nil {
		_ = s.cache.Set(key, val)
	}
	return val, nil
}

// update refreshes cached values after a commit.
func (s *source) update(key []byte, val []byte) {
	if s.cache != nil {
		_ = s.cache.Set(key, val)
	}
}
