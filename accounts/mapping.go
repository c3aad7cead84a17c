// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/pubkey"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key keys a mapping by a number, e.g. an epoch.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

var (
	ErrExists   = errors.New("entry already exists")
	ErrNotFound = errors.New("entry not found")
)

// Mapping is a key/value storage abstraction. Each entry lives at blake2b(key, basePos).
// An absent entry decodes to the zero value of V.
type Mapping[K Key, V any] struct {
	context *Context
	basePos pubkey.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos pubkey.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) pubkey.Bytes32 {
	return pubkey.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// Insert writes a new entry, failing with ErrExists if the key is taken.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrExists
	}
	return m.set(key, value)
}

// Update overwrites an existing entry, failing with ErrNotFound if there is none.
func (m *Mapping[K, V]) Update(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return m.set(key, value)
}

func (m *Mapping[K, V]) Upsert(key K, value V) error {
	return m.set(key, value)
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

func (m *Mapping[K, V]) set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
