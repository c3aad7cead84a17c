// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/qianbin/directcache"

	"github.com/inference-net/staking/kv"
)

const bucket = kv.Bucket("s")

// Stater is the state creator.
type Stater struct {
	db  kv.Store
	src *source
}

// NewStater create a new stater. cacheSizeMB of zero disables the raw cache.
func NewStater(db kv.Store, cacheSizeMB int) *Stater {
	store := bucket.NewStore(db)
	src := &source{db: store}
	if cacheSizeMB > 0 {
		src.cache = directcache.New(cacheSizeMB * 1024 * 1024)
	}
	return &Stater{db: store, src: src}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return newState(s.src)
}

// Commit commits a stage into the underlying store.
func (s *Stater) Commit(stage *Stage) error {
	return stage.Commit(s.db.NewBatch())
}
