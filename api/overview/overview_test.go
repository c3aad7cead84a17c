// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package overview_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/api/overview"
	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/lvldb"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/emissions"
	"github.com/inference-net/staking/state"
	"github.com/inference-net/staking/test/teststaking"
)

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func newServer(stater *state.Stater, schedule *emissions.Schedule) *httptest.Server {
	router := mux.NewRouter()
	overview.New(utils.NewStakerReader(stater, schedule), schedule).Mount(router, "/overview")
	return httptest.NewServer(router)
}

func TestGetOverview(t *testing.T) {
	env := teststaking.NewSeeded(t)
	ts := newServer(env.Stater, env.Schedule)
	defer ts.Close()

	body, code := httpGet(t, ts.URL+"/overview")
	require.Equal(t, http.StatusOK, code, string(body))

	var got overview.JSONOverview
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, teststaking.Admin, got.Admin)
	assert.Equal(t, uint64(1), got.TotalPools)
	assert.Equal(t, uint64(1), got.CompletedRewardEpoch)
	assert.Equal(t, uint64(2), got.CurrentEpoch)
	assert.Equal(t, uint64(teststaking.Emission), got.ExpectedEmission)
	assert.Equal(t, []pubkey.Address{teststaking.Authority}, got.HaltAuthorities)
}

func TestGetOverviewMissing(t *testing.T) {
	env := teststaking.New(t)
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	ts := newServer(state.NewStater(db, 0), env.Schedule)
	defer ts.Close()

	_, code := httpGet(t, ts.URL+"/overview")
	assert.Equal(t, http.StatusNotFound, code)
}
