// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/api/pools"
	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/test/teststaking"
)

var ts *httptest.Server

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func initPoolsServer(t *testing.T) *teststaking.Seeded {
	env := teststaking.NewSeeded(t)
	router := mux.NewRouter()
	pools.New(utils.NewStakerReader(env.Stater, env.Schedule), 2).Mount(router, "/pools")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return env
}

func TestPools(t *testing.T) {
	env := initPoolsServer(t)
	second := env.CreatePool(pubkey.Derive([]byte("second")), 200)
	env.Commit()

	for name, tt := range map[string]func(*testing.T, *teststaking.Seeded, pubkey.Address){
		"listPools":          testListPools,
		"listPoolsPaged":     testListPoolsPaged,
		"listPoolsOverLimit": testListPoolsOverLimit,
		"getPool":            testGetPool,
		"getPoolNotFound":    testGetPoolNotFound,
		"getPoolBadAddress":  testGetPoolBadAddress,
		"getRecord":          testGetRecord,
		"getRecordNotFound":  testGetRecordNotFound,
	} {
		t.Run(name, func(t *testing.T) { tt(t, env, second) })
	}
}

func testListPools(t *testing.T, env *teststaking.Seeded, second pubkey.Address) {
	body, code := httpGet(t, ts.URL+"/pools")
	require.Equal(t, http.StatusOK, code, string(body))

	var list pools.JSONPoolList
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, uint64(2), list.TotalPools)
	require.Len(t, list.Pools, 2)
	assert.Equal(t, env.Pool, list.Pools[0].Address)
	assert.Equal(t, second, list.Pools[1].Address)
	assert.Equal(t, uint64(1), list.Pools[0].PoolID)
}

func testListPoolsPaged(t *testing.T, _ *teststaking.Seeded, second pubkey.Address) {
	body, code := httpGet(t, ts.URL+"/pools?offset=1&limit=1")
	require.Equal(t, http.StatusOK, code, string(body))

	var list pools.JSONPoolList
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Pools, 1)
	assert.Equal(t, second, list.Pools[0].Address)

	body, code = httpGet(t, ts.URL+"/pools?offset=5")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Empty(t, list.Pools)
}

func testListPoolsOverLimit(t *testing.T, _ *teststaking.Seeded, _ pubkey.Address) {
	_, code := httpGet(t, ts.URL+"/pools?limit=3")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpGet(t, ts.URL+"/pools?offset=x")
	assert.Equal(t, http.StatusBadRequest, code)
}

func testGetPool(t *testing.T, env *teststaking.Seeded, _ pubkey.Address) {
	body, code := httpGet(t, ts.URL+"/pools/"+env.Pool.String())
	require.Equal(t, http.StatusOK, code, string(body))

	var got pools.JSONPool
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, env.Pool, got.Address)
	assert.Equal(t, uint64(2400), got.TotalStakedAmount)
	assert.Equal(t, uint64(1500), got.TotalShares)
	assert.Equal(t, uint64(1), got.RewardLastClaimedEpoch)
	assert.False(t, got.IsHalted)
	assert.False(t, got.IsClosed)
	require.NotNil(t, got.Balances)
	assert.Equal(t, uint64(2400), got.Balances.Staked)
	assert.Equal(t, uint64(100), got.Balances.RewardCommission)
	assert.Equal(t, uint64(30), got.Balances.UsdcCommission)
}

func testGetPoolNotFound(t *testing.T, _ *teststaking.Seeded, _ pubkey.Address) {
	_, code := httpGet(t, ts.URL+"/pools/"+pubkey.Derive([]byte("nobody")).String())
	assert.Equal(t, http.StatusNotFound, code)
}

func testGetPoolBadAddress(t *testing.T, _ *teststaking.Seeded, _ pubkey.Address) {
	_, code := httpGet(t, ts.URL+"/pools/0OIl")
	assert.Equal(t, http.StatusBadRequest, code)
}

func testGetRecord(t *testing.T, env *teststaking.Seeded, _ pubkey.Address) {
	body, code := httpGet(t, ts.URL+"/pools/"+env.Pool.String()+"/records/"+teststaking.Alice.String())
	require.Equal(t, http.StatusOK, code, string(body))

	var got pools.JSONRecord
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, teststaking.Alice, got.Owner)
	assert.Equal(t, env.Pool, got.OperatorPool)
	assert.Equal(t, uint64(500), got.Shares)
	assert.Equal(t, uint64(800), got.TokenValue)
	assert.Equal(t, uint64(90), got.ClaimableUsdc)
	assert.False(t, got.IsCooling)
	assert.False(t, got.ID.IsZero())
}

func testGetRecordNotFound(t *testing.T, env *teststaking.Seeded, _ pubkey.Address) {
	_, code := httpGet(t, ts.URL+"/pools/"+env.Pool.String()+"/records/"+teststaking.Treasury.String())
	assert.Equal(t, http.StatusNotFound, code)
}
