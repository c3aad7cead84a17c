// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/eventdb"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/test/teststaking"
)

func newServer(t *testing.T, env *teststaking.Env, origins ...string) (*Subscriptions, *httptest.Server) {
	subs := New(env.EventDB, origins, 10*time.Millisecond)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return subs, ts
}

func dial(t *testing.T, ts *httptest.Server, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	u := url.URL{
		Scheme:   "ws",
		Host:     strings.TrimPrefix(ts.URL, "http://"),
		Path:     "/subscriptions/events",
		RawQuery: query,
	}
	return websocket.DefaultDialer.Dial(u.String(), header)
}

func readEntry(t *testing.T, conn *websocket.Conn) *eventdb.Entry {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var entry eventdb.Entry
	require.NoError(t, conn.ReadJSON(&entry))
	return &entry
}

func TestSubscribeEvents(t *testing.T) {
	env := teststaking.NewSeeded(t)
	subs, ts := newServer(t, env.Env, "*")

	conn, _, err := dial(t, ts, "type=Staked&pool="+env.Pool.String(), nil)
	require.NoError(t, err)
	defer conn.Close()

	// backlog first
	first := readEntry(t, conn)
	second := readEntry(t, conn)
	assert.Equal(t, events.Staked, first.Type)
	assert.Equal(t, teststaking.Operator, first.Subject)
	assert.Equal(t, teststaking.Alice, second.Subject)

	// then live events
	carol := pubkey.Derive([]byte("carol"))
	env.Delegate(carol, env.Pool, 50)
	live := readEntry(t, conn)
	assert.Equal(t, carol, live.Subject)
	assert.Greater(t, live.Seq, second.Seq)

	subs.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestSubscribeFromPosition(t *testing.T) {
	env := teststaking.NewSeeded(t)
	subs, ts := newServer(t, env.Env)
	defer subs.Close()

	last, err := env.EventDB.LastSeq(context.Background())
	require.NoError(t, err)

	conn, _, err := dial(t, ts, "pos="+strconv.FormatUint(last-1, 10), nil)
	require.NoError(t, err)
	defer conn.Close()

	entry := readEntry(t, conn)
	assert.Equal(t, last, entry.Seq)
}

func TestSubscribeRejects(t *testing.T) {
	env := teststaking.New(t)
	subs, ts := newServer(t, env, "https://allowed.example")
	defer subs.Close()

	_, res, err := dial(t, ts, "pool=bad", nil)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	_, res, err = dial(t, ts, "pos=x", nil)
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	_, res, err = dial(t, ts, "", http.Header{"Origin": {"https://evil.example"}})
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	conn, _, err := dial(t, ts, "", http.Header{"Origin": {"https://ALLOWED.example"}})
	require.NoError(t, err)
	conn.Close()
}
