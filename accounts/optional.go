// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"encoding/json"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Optional holds a value that may be unset. Unlike an rlp "nil" pointer field it keeps
// Some(0) distinct from None, encoding as an empty or single element list.
type Optional[T any] struct {
	value T
	valid bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

func (o Optional[T]) IsSome() bool {
	return o.valid
}

// Or returns the value, or def when unset.
func (o Optional[T]) Or(def T) T {
	if o.valid {
		return o.value
	}
	return def
}

func (o Optional[T]) EncodeRLP(w io.Writer) error {
	if !o.valid {
		return rlp.Encode(w, []T{})
	}
	return rlp.Encode(w, []T{o.value})
}

func (o *Optional[T]) DecodeRLP(s *rlp.Stream) error {
	var list []T
	if err := s.Decode(&list); err != nil {
		return err
	}
	switch len(list) {
	case 0:
		*o = None[T]()
	case 1:
		*o = Some(list[0])
	default:
		return errors.Errorf("optional: %d elements", len(list))
	}
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
