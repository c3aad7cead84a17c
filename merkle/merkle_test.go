// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package merkle

import (
	"crypto/sha256"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/pubkey"
)

func sortedLeaves(n int) []Leaf {
	leaves := make([]Leaf, n)
	for i := range leaves {
		leaves[i] = Leaf{
			Pool:   pubkey.Derive([]byte("pool"), pubkey.Uint64Seed(uint64(i))),
			Reward: uint64(100 * (i + 1)),
			Usdc:   uint64(7 * i),
		}
	}
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].Pool.String() < leaves[j].Pool.String()
	})
	return leaves
}

func TestLeafHash(t *testing.T) {
	pool := pubkey.Derive([]byte("pool"))
	leaf := Leaf{Pool: pool, Reward: 100, Usdc: 5}

	expected := sha256.Sum256(append([]byte{0x00}, []byte(pool.String()+",100,5")...))
	assert.Equal(t, pubkey.Bytes32(expected), leaf.Hash())

	// a node built from two hashes never equals the unprefixed hash
	l, r := leaf.Hash(), Leaf{Pool: pool}.Hash()
	plain := sha256.Sum256(append(l.Bytes(), r.Bytes()...))
	assert.NotEqual(t, pubkey.Bytes32(plain), NodeHash(l, r))
}

func TestTreeProofs(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8, 13} {
		leaves := sortedLeaves(n)
		tree, err := NewTree(leaves)
		require.NoError(t, err)

		size := len(tree.Leaves())
		assert.GreaterOrEqual(t, size, n)
		assert.Zero(t, size&(size-1), "padded size must be a power of two")

		for _, l := range leaves {
			proof, err := tree.Proof(l.Pool)
			require.NoError(t, err)
			assert.NoError(t, Verify(tree.Root(), l, proof))

			tampered := l
			tampered.Reward++
			assert.ErrorIs(t, Verify(tree.Root(), tampered, proof), ErrRootMismatch)
		}
	}
}

func TestSingleLeaf(t *testing.T) {
	leaves := sortedLeaves(1)
	tree, err := NewTree(leaves)
	require.NoError(t, err)

	assert.Equal(t, leaves[0].Hash(), tree.Root())
	proof, err := tree.Proof(leaves[0].Pool)
	require.NoError(t, err)
	assert.Empty(t, proof.Siblings)
	assert.NoError(t, Verify(tree.Root(), leaves[0], proof))
}

func TestVerifyProofLength(t *testing.T) {
	leaves := sortedLeaves(4)
	tree, err := NewTree(leaves)
	require.NoError(t, err)
	proof, err := tree.Proof(leaves[1].Pool)
	require.NoError(t, err)

	proof.Path = proof.Path[:1]
	assert.ErrorIs(t, Verify(tree.Root(), leaves[1], proof), ErrProofLength)
}

func TestNewTreeValidation(t *testing.T) {
	_, err := NewTree(nil)
	assert.Error(t, err)

	leaves := sortedLeaves(3)
	_, err = NewTree([]Leaf{leaves[1], leaves[0]})
	assert.Error(t, err)

	_, err = NewTree([]Leaf{leaves[0], leaves[0]})
	assert.Error(t, err)

	_, err = NewTree([]Leaf{{Pool: pubkey.Zero}})
	assert.Error(t, err)

	tree, err := NewTree(leaves)
	require.NoError(t, err)
	_, err = tree.Proof(pubkey.Derive([]byte("absent")))
	assert.Error(t, err)
}
