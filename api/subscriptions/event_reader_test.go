// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/test/teststaking"
)

func TestEventReader(t *testing.T) {
	env := teststaking.NewSeeded(t)
	ctx := context.Background()

	last, err := env.EventDB.LastSeq(ctx)
	require.NoError(t, err)

	all := newEventReader(env.EventDB, 0, &EventFilter{}, 2)
	var total int
	for {
		msgs, more, err := all.Read(ctx)
		require.NoError(t, err)
		total += len(msgs)
		if !more {
			break
		}
	}
	assert.Equal(t, int(last), total)
	assert.Equal(t, last, all.pos)

	msgs, more, err := all.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.False(t, more)

	staked := newEventReader(env.EventDB, 0, &EventFilter{Pool: &env.Pool, Types: []events.Type{events.Staked}}, 100)
	msgs, _, err = staked.Read(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, last, staked.pos)

	// events appended later are picked up from the last position
	env.Delegate(pubkey.Derive([]byte("carol")), env.Pool, 50)
	msgs, _, err = staked.Read(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, uint64(50), mustStakeData(t, msgs[0].Event).TokenAmount)
}

func TestEventFilterMatch(t *testing.T) {
	pool := pubkey.Derive([]byte("pool"))
	other := pubkey.Derive([]byte("other"))
	ev := &events.Event{Type: events.Unstaked, Pool: pool}

	assert.True(t, (&EventFilter{}).Match(ev))
	assert.True(t, (&EventFilter{Pool: &pool}).Match(ev))
	assert.False(t, (&EventFilter{Pool: &other}).Match(ev))
	assert.True(t, (&EventFilter{Types: []events.Type{events.Staked, events.Unstaked}}).Match(ev))
	assert.False(t, (&EventFilter{Pool: &pool, Types: []events.Type{events.Staked}}).Match(ev))
}

func mustStakeData(t *testing.T, ev *events.Event) *events.StakeData {
	var data events.StakeData
	require.NoError(t, ev.Decode(&data))
	return &data
}
