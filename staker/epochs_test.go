// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/reverts"
)

func TestMarkEpochFinalizing(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.staker.MarkEpochFinalizing(stranger, 1), reverts.ErrInvalidRewardDistributionAuthority)
	assert.ErrorIs(t, env.staker.MarkEpochFinalizing(authority, 2), reverts.ErrEpochMismatch)
	require.NoError(t, env.staker.MarkEpochFinalizing(authority, 1))
	assert.ErrorIs(t, env.staker.MarkEpochFinalizing(authority, 1), reverts.ErrEpochIsFinalizing)

	evs := env.sink.OfType(events.EpochFinalizing)
	require.Len(t, evs, 1)
	var data events.EpochData
	require.NoError(t, evs[0].Decode(&data))
	assert.Equal(t, events.EpochData{Epoch: 1, IsFinalizing: true}, data)
}

func TestCreateRewardRecord(t *testing.T) {
	env := newTestEnv(t)
	roots := []pubkey.Bytes32{{1}}

	assert.ErrorIs(t, env.staker.CreateRewardRecord(authority, roots, emission, 0), reverts.ErrEpochMustBeFinalizing)
	require.NoError(t, env.staker.MarkEpochFinalizing(authority, 1))

	tests := []struct {
		name    string
		signer  pubkey.Address
		roots   []pubkey.Bytes32
		rewards uint64
		usdc    uint64
		want    error
	}{
		{"not an authority", stranger, roots, emission, 0, reverts.ErrInvalidRewardDistributionAuthority},
		{"wrong emission", authority, roots, emission - 1, 0, reverts.ErrInvalidRewardAmount},
		{"empty with rewards", authority, nil, emission, 0, reverts.ErrInvalidRewardAmount},
		{"empty with usdc", authority, nil, 0, 5, reverts.ErrInvalidUsdcAmount},
		{"too many roots", authority, make([]pubkey.Bytes32, 6), emission, 0, reverts.ErrTooManyMerkleRoots},
		{"unfunded rewards", authority, roots, emission, 0, reverts.ErrInsufficientRewards},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, env.staker.CreateRewardRecord(tt.signer, tt.roots, tt.rewards, tt.usdc), tt.want)
		})
	}

	env.fund(tokenMint, GlobalRewardVault, emission)
	assert.ErrorIs(t, env.staker.CreateRewardRecord(authority, roots, emission, 10), reverts.ErrInsufficientUsdc)
	env.fund(usdcMint, GlobalUsdcVault, 10)
	require.NoError(t, env.staker.CreateRewardRecord(authority, roots, emission, 10))

	record, err := env.staker.RewardRecord(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), record.Epoch)
	assert.Equal(t, roots, record.MerkleRoots)
	assert.Equal(t, uint64(emission), record.TotalRewards)
	assert.Equal(t, uint64(10), record.TotalUsdcPayout)
	assert.Equal(t, uint64(genesisTime), record.EpochFinalizedAt)

	o, err := env.staker.Overview()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), o.CompletedRewardEpoch)
	assert.False(t, o.IsEpochFinalizing)
	assert.Equal(t, uint64(emission), o.UnclaimedRewards)
	assert.Equal(t, uint64(10), o.UnclaimedUsdc)

	// the next epoch has to be finalized again
	assert.ErrorIs(t, env.staker.CreateRewardRecord(authority, nil, 0, 0), reverts.ErrEpochMustBeFinalizing)
}

func TestModifyRewardRecord(t *testing.T) {
	env := newTestEnv(t)
	poolAddr := env.createPool(operatorA, &PoolArgs{}, 1000)

	env.publish()
	env.publish(leafOf(poolAddr, emission, 0))

	roots := []pubkey.Bytes32{{1}, {2}}
	assert.ErrorIs(t, env.staker.ModifyRewardRecord(authority, 1, roots), reverts.ErrMerkleRootCountChange)
	assert.ErrorIs(t, env.staker.ModifyRewardRecord(authority, 2, nil), reverts.ErrMerkleRootCountChange)
	assert.ErrorIs(t, env.staker.ModifyRewardRecord(authority, 3, roots), reverts.ErrRewardRecordNotFound)
	assert.ErrorIs(t, env.staker.ModifyRewardRecord(stranger, 2, roots), reverts.ErrInvalidRewardDistributionAuthority)
	assert.ErrorIs(t, env.staker.ModifyRewardRecord(authority, 2, make([]pubkey.Bytes32, 6)), reverts.ErrTooManyMerkleRoots)

	require.NoError(t, env.staker.ModifyRewardRecord(authority, 2, roots))
	record, err := env.staker.RewardRecord(2)
	require.NoError(t, err)
	assert.Equal(t, roots, record.MerkleRoots)
	assert.Equal(t, uint64(emission), record.TotalRewards)
	assert.Len(t, env.sink.OfType(events.RewardRecordModified), 1)
}

func TestUpdateIsEpochFinalizing(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.staker.UpdateIsEpochFinalizing(stranger, true), reverts.ErrInvalidAuthority)
	require.NoError(t, env.staker.UpdateIsEpochFinalizing(admin, true))
	assert.ErrorIs(t, env.staker.MarkEpochFinalizing(authority, 1), reverts.ErrEpochIsFinalizing)

	require.NoError(t, env.staker.UpdateIsEpochFinalizing(admin, false))
	require.NoError(t, env.staker.MarkEpochFinalizing(authority, 1))
}

func TestPoolCreatedWhileFinalizing(t *testing.T) {
	env := newTestEnv(t)
	env.publish()
	require.NoError(t, env.staker.MarkEpochFinalizing(authority, 2))

	poolAddr, err := env.staker.CreateOperatorPool(operatorA, &PoolArgs{})
	require.NoError(t, err)
	p := env.pool(poolAddr)
	assert.Equal(t, uint64(2), p.JoinedAtEpoch)
	assert.Equal(t, uint64(2), p.RewardLastClaimedEpoch)

	require.NoError(t, env.staker.CreateRewardRecord(authority, nil, 0, 0))
	assert.Equal(t, uint64(2), env.completed())

	// the pool never owed epoch 2 and can take stake right away
	env.fund(tokenMint, operatorA, 1000)
	require.NoError(t, env.staker.Stake(operatorA, poolAddr, 1000))
}
