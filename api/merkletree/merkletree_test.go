// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package merkletree

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/merkle"
	"github.com/inference-net/staking/pubkey"
)

func leaves(n int) []merkle.Leaf {
	out := make([]merkle.Leaf, 0, n)
	for i := range n {
		out = append(out, merkle.Leaf{
			Pool:   pubkey.Derive(pubkey.Uint64Seed(uint64(i))),
			Reward: uint64(100 * (i + 1)),
			Usdc:   uint64(i),
		})
	}
	return out
}

func TestBuild(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)

	in := leaves(5)
	tree, err := m.Build(in)
	require.NoError(t, err)
	require.Len(t, tree.Leaves, 5)

	for i := 1; i < len(tree.Leaves); i++ {
		assert.Less(t, tree.Leaves[i-1].Pool.String(), tree.Leaves[i].Pool.String())
	}
	for _, l := range tree.Leaves {
		assert.NoError(t, merkle.Verify(tree.Root, l.Leaf, &merkle.Proof{Siblings: l.Proof, Path: l.ProofPath}))
	}

	// input order does not matter, and the second build is served from cache
	reversed := []merkle.Leaf{in[4], in[3], in[2], in[1], in[0]}
	again, err := m.Build(reversed)
	require.NoError(t, err)
	assert.Same(t, tree, again)

	_, hits, misses := m.trees.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestBuildRejects(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)

	_, err = m.Build(nil)
	assert.Error(t, err)

	dup := leaves(2)
	dup[1].Pool = dup[0].Pool
	_, err = m.Build(dup)
	assert.Error(t, err)

	_, err = m.Build(leaves(MaxLeaves + 1))
	assert.Error(t, err)
}

func TestHandleBuildTree(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)
	router := mux.NewRouter()
	m.Mount(router, "/merkle")
	ts := httptest.NewServer(router)
	defer ts.Close()

	post := func(body []byte) ([]byte, int) {
		res, err := http.Post(ts.URL+"/merkle/tree", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		return data, res.StatusCode
	}

	in := leaves(3)
	body, err := json.Marshal(in)
	require.NoError(t, err)
	data, code := post(body)
	require.Equal(t, http.StatusOK, code, string(data))

	var got JSONTree
	require.NoError(t, json.Unmarshal(data, &got))
	want, err := m.Build(in)
	require.NoError(t, err)
	assert.Equal(t, want.Root, got.Root)
	assert.Len(t, got.Leaves, 3)

	_, code = post([]byte(`[]`))
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = post([]byte(`{"pool":1}`))
	assert.Equal(t, http.StatusBadRequest, code)
}
