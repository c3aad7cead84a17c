// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/kv"
)

// Stage abstracts changes on the storage.
type Stage struct {
	src     *source
	keys    []storageKey
	changes map[storageKey][]byte
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all changes into the batch and flushes it.
func (s *Stage) Commit(batch kv.Batch) error {
	for _, k := range s.keys {
		v := s.changes[k]
		key := storeKey(k)
		if len(v) == 0 {
			if err := batch.Delete(key); err != nil {
				return errors.Wrap(err, "stage delete")
			}
		} else {
			if err := batch.Put(key, v); err != nil {
				return errors.Wrap(err, "stage put")
			}
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "stage write")
	}
	for _, k := range s.keys {
		s.src.update(storeKey(k), s.changes[k])
	}
	return nil
}
