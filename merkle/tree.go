// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package merkle

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/pubkey"
)

// Tree is a complete binary tree over an epoch's leaves. The leaf count is padded to a
// power of two with zero address leaves carrying no amounts.
type Tree struct {
	leaves []Leaf
	levels [][]pubkey.Bytes32
	index  map[pubkey.Address]int
}

// NewTree builds a tree. Leaves must be non-empty, unique and sorted ascending by the
// base58 form of the pool address.
func NewTree(leaves []Leaf) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, errors.New("no leaves")
	}
	index := make(map[pubkey.Address]int, len(leaves))
	prev := ""
	for i, l := range leaves {
		if l.Pool.IsZero() {
			return nil, errors.Errorf("leaf %d: zero pool address", i)
		}
		s := l.Pool.String()
		if i > 0 {
			if s == prev {
				return nil, errors.Errorf("leaf %d: duplicate pool %v", i, s)
			}
			if s < prev {
				return nil, errors.Errorf("leaf %d: pool %v out of order", i, s)
			}
		}
		index[l.Pool] = i
		prev = s
	}

	size := 1
	for size < len(leaves) {
		size <<= 1
	}
	padded := make([]Leaf, size)
	copy(padded, leaves)

	level := make([]pubkey.Bytes32, size)
	for i, l := range padded {
		level[i] = l.Hash()
	}
	levels := [][]pubkey.Bytes32{level}
	for len(level) > 1 {
		next := make([]pubkey.Bytes32, len(level)/2)
		for i := range next {
			next[i] = NodeHash(level[2*i], level[2*i+1])
		}
		levels = append(levels, next)
		level = next
	}

	return &Tree{
		leaves: padded,
		levels: levels,
		index:  index,
	}, nil
}

func (t *Tree) Root() pubkey.Bytes32 {
	return t.levels[len(t.levels)-1][0]
}

// Leaves returns the padded leaf set.
func (t *Tree) Leaves() []Leaf {
	return t.leaves
}

// Leaf returns the leaf of the given pool.
func (t *Tree) Leaf(pool pubkey.Address) (Leaf, bool) {
	i, ok := t.index[pool]
	if !ok {
		return Leaf{}, false
	}
	return t.leaves[i], true
}

// Proof returns the proof for the given pool.
func (t *Tree) Proof(pool pubkey.Address) (*Proof, error) {
	i, ok := t.index[pool]
	if !ok {
		return nil, errors.Errorf("pool %v not in tree", pool)
	}
	return t.proofAt(i), nil
}

func (t *Tree) proofAt(idx int) *Proof {
	proof := &Proof{
		Siblings: make([]pubkey.Bytes32, 0, len(t.levels)-1),
		Path:     make([]bool, 0, len(t.levels)-1),
	}
	for level := 0; level < len(t.levels)-1; level++ {
		if idx%2 == 0 {
			proof.Siblings = append(proof.Siblings, t.levels[level][idx+1])
			proof.Path = append(proof.Path, false)
		} else {
			proof.Siblings = append(proof.Siblings, t.levels[level][idx-1])
			proof.Path = append(proof.Path, true)
		}
		idx /= 2
	}
	return proof
}
