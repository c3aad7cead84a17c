// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/inference-net/staking/kv"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying error.
func (e *Error) Cause() error {
	return e.cause
}

type storageKey struct {
	addr pubkey.Address
	key  pubkey.Bytes32
}

// State manages the staking storage.
type State struct {
	src *source
	sm  *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object.
func New(db kv.Getter) *State {
	return newState(&source{db: db})
}

func newState(src *source) *State {
	state := &State{src: src}
	state.sm = stackedmap.New[storageKey, []byte](src.get)
	return state
}

// GetRawStorage returns storage value in raw form. A nil value means absent.
func (s *State) GetRawStorage(addr pubkey.Address, key pubkey.Bytes32) ([]byte, error) {
	v, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage set storage value in raw form. An empty value deletes the slot.
func (s *State) SetRawStorage(addr pubkey.Address, key pubkey.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr pubkey.Address, key pubkey.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr pubkey.Address, key pubkey.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	var keys []storageKey
	s.sm.Changes(func(key storageKey, v []byte) bool {
		keys = append(keys, key)
		changes[key] = v
		return true
	})

	return &Stage{src: s.src, keys: keys, changes: changes}
}
