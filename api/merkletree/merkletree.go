// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package merkletree builds distribution trees for reward publishers.
package merkletree

import (
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/cache"
	"github.com/inference-net/staking/merkle"
	"github.com/inference-net/staking/pubkey"
)

// MaxLeaves bounds the leaves of one request.
const MaxLeaves = 4096

type MerkleTree struct {
	trees *cache.LRU[pubkey.Bytes32, *JSONTree]
}

func New(cacheSize int) (*MerkleTree, error) {
	trees, err := cache.NewLRU[pubkey.Bytes32, *JSONTree](cacheSize)
	if err != nil {
		return nil, err
	}
	return &MerkleTree{trees}, nil
}

type JSONLeaf struct {
	merkle.Leaf
	Proof     []pubkey.Bytes32 `json:"proof"`
	ProofPath []bool           `json:"proofPath"`
}

type JSONTree struct {
	Root   pubkey.Bytes32 `json:"root"`
	Leaves []*JSONLeaf    `json:"leaves"`
}

// digest identifies a leaf set independent of its order.
func digest(leaves []merkle.Leaf) pubkey.Bytes32 {
	return pubkey.Blake2bFn(func(w io.Writer) {
		for _, l := range leaves {
			w.Write(l.Pool.Bytes())
			w.Write(strconv.AppendUint(nil, l.Reward, 10))
			w.Write([]byte{','})
			w.Write(strconv.AppendUint(nil, l.Usdc, 10))
			w.Write([]byte{';'})
		}
	})
}

// Build sorts leaves by pool and returns the root with one proof per leaf.
func (m *MerkleTree) Build(leaves []merkle.Leaf) (*JSONTree, error) {
	if len(leaves) == 0 {
		return nil, errors.New("no leaves")
	}
	if len(leaves) > MaxLeaves {
		return nil, errors.Errorf("too many leaves, max %d", MaxLeaves)
	}
	sorted := slices.Clone(leaves)
	slices.SortFunc(sorted, func(a, b merkle.Leaf) int {
		return strings.Compare(a.Pool.String(), b.Pool.String())
	})

	return m.trees.GetOrLoad(digest(sorted), func(pubkey.Bytes32) (*JSONTree, error) {
		tree, err := merkle.NewTree(sorted)
		if err != nil {
			return nil, err
		}
		out := &JSONTree{Root: tree.Root(), Leaves: make([]*JSONLeaf, 0, len(sorted))}
		for _, l := range sorted {
			proof, err := tree.Proof(l.Pool)
			if err != nil {
				return nil, err
			}
			out.Leaves = append(out.Leaves, &JSONLeaf{Leaf: l, Proof: proof.Siblings, ProofPath: proof.Path})
		}
		return out, nil
	})
}

func (m *MerkleTree) handleBuildTree(w http.ResponseWriter, req *http.Request) error {
	var leaves []merkle.Leaf
	if err := utils.ParseJSON(req.Body, &leaves); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	tree, err := m.Build(leaves)
	if err != nil {
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, tree)
}

func (m *MerkleTree) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/tree").
		Methods(http.MethodPost).
		Name("merkle_build_tree").
		HandlerFunc(utils.WrapHandlerFunc(m.handleBuildTree))
}
