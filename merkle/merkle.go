// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package merkle implements the reward distribution tree. Leaves and internal nodes are
// hashed with distinct one byte prefixes so that a node can never be presented as a leaf.
package merkle

import (
	"crypto/sha256"
	"strconv"

	"github.com/pkg/errors"

	"github.com/inference-net/staking/pubkey"
)

const (
	leafPrefix byte = 0x00
	nodePrefix byte = 0x01
)

var (
	ErrProofLength  = errors.New("proof and proof path lengths differ")
	ErrRootMismatch = errors.New("computed root does not match")
)

// Leaf is one pool's share of an epoch distribution.
type Leaf struct {
	Pool   pubkey.Address `json:"pool"`
	Reward uint64         `json:"reward"`
	Usdc   uint64         `json:"usdc"`
}

// Hash returns sha256(0x00 || "{pool},{reward},{usdc}") with the pool in base58.
func (l Leaf) Hash() pubkey.Bytes32 {
	h := sha256.New()
	h.Write([]byte{leafPrefix})
	h.Write([]byte(l.Pool.String()))
	h.Write([]byte{','})
	h.Write(strconv.AppendUint(nil, l.Reward, 10))
	h.Write([]byte{','})
	h.Write(strconv.AppendUint(nil, l.Usdc, 10))

	var out pubkey.Bytes32
	h.Sum(out[:0])
	return out
}

// NodeHash returns sha256(0x01 || left || right).
func NodeHash(left, right pubkey.Bytes32) pubkey.Bytes32 {
	var buf [1 + 2*32]byte
	buf[0] = nodePrefix
	copy(buf[1:], left[:])
	copy(buf[33:], right[:])
	return sha256.Sum256(buf[:])
}

// Proof is the sibling path from a leaf to the root. Path[i] is true when Siblings[i]
// is the left child at that level.
type Proof struct {
	Siblings []pubkey.Bytes32 `json:"proof"`
	Path     []bool           `json:"proofPath"`
}

// ComputeRoot folds the proof over the leaf hash.
func (p *Proof) ComputeRoot(leaf Leaf) (pubkey.Bytes32, error) {
	if len(p.Siblings) != len(p.Path) {
		return pubkey.Bytes32{}, ErrProofLength
	}
	node := leaf.Hash()
	for i, sibling := range p.Siblings {
		if p.Path[i] {
			node = NodeHash(sibling, node)
		} else {
			node = NodeHash(node, sibling)
		}
	}
	return node, nil
}

// Verify checks that leaf belongs to the tree with the given root.
func Verify(root pubkey.Bytes32, leaf Leaf, proof *Proof) error {
	computed, err := proof.ComputeRoot(leaf)
	if err != nil {
		return err
	}
	if computed != root {
		return ErrRootMismatch
	}
	return nil
}
