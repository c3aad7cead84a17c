// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/reverts"
)

func TestUnstakeCooldownAndCancel(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{AllowDelegation: true}, 1000)
	env.delegate(alice, addr, 500)

	assert.ErrorIs(t, env.staker.Unstake(alice, addr, 0), reverts.ErrInvalidAmount)
	assert.ErrorIs(t, env.staker.Unstake(alice, addr, 501), reverts.ErrInsufficientShares)
	assert.ErrorIs(t, env.staker.CancelUnstake(alice, addr), reverts.ErrNoTokensToClaim)

	require.NoError(t, env.staker.Unstake(alice, addr, 200))
	env.clock.Advance(100)
	require.NoError(t, env.staker.Unstake(alice, addr, 100))

	rec, err := env.staker.Position(addr, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), rec.Shares)
	assert.Equal(t, uint64(300), rec.TokensUnstakeAmount)
	assert.Equal(t, uint64(genesisTime+100+delegatorDelay), rec.UnstakeAtTimestamp)
	assert.Equal(t, uint64(300), env.pool(addr).TotalUnstaking)
	env.checkPoolSolvency(addr, operatorA, alice)

	require.NoError(t, env.staker.CancelUnstake(alice, addr))
	rec, err = env.staker.Position(addr, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), rec.Shares)
	assert.False(t, rec.IsCooling())
	assert.Equal(t, uint64(0), rec.UnstakeAtTimestamp)
	assert.Equal(t, uint64(0), env.pool(addr).TotalUnstaking)
	env.checkPoolSolvency(addr, operatorA, alice)

	require.NoError(t, env.staker.Unstake(operatorA, addr, 100))
	op, err := env.staker.Position(addr, operatorA)
	require.NoError(t, err)
	assert.Equal(t, uint64(genesisTime+100+operatorDelay), op.UnstakeAtTimestamp)
	assert.ErrorIs(t, env.staker.Unstake(operatorA, addr, 850), reverts.ErrMinOperatorTokenStakeNotMet)

	env.clock.Advance(delegatorDelay)
	assert.ErrorIs(t, env.staker.ClaimUnstake(operatorA, addr), reverts.ErrPendingDelay)

	assert.Len(t, env.sink.OfType(events.Unstaked), 3)
	assert.Len(t, env.sink.OfType(events.UnstakeCancelled), 1)
}

func TestWithdrawalsHalted(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{AllowDelegation: true}, 1000)
	env.delegate(alice, addr, 500)
	require.NoError(t, env.staker.Unstake(alice, addr, 100))

	yes := true
	require.NoError(t, env.staker.UpdatePoolOverview(admin, &OverviewUpdate{IsWithdrawalHalted: &yes}))
	env.clock.Advance(delegatorDelay)

	assert.ErrorIs(t, env.staker.Unstake(alice, addr, 100), reverts.ErrWithdrawalsHalted)
	assert.ErrorIs(t, env.staker.ClaimUnstake(alice, addr), reverts.ErrWithdrawalsHalted)
	_, err := env.staker.ClaimUsdcEarnings(alice, addr)
	assert.ErrorIs(t, err, reverts.ErrWithdrawalsHalted)
	_, err = env.staker.WithdrawOperatorRewardCommission(operatorA, addr, operatorA)
	assert.ErrorIs(t, err, reverts.ErrWithdrawalsHalted)

	// cancelling keeps the tokens inside the pool
	require.NoError(t, env.staker.CancelUnstake(alice, addr))
}

func TestCloseStakingRecord(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{AllowDelegation: true}, 1000)
	env.delegate(alice, addr, 500)
	tree := env.publish(leafOf(addr, 0, 300))
	require.NoError(t, env.accrue(tree, addr))

	assert.ErrorIs(t, env.staker.CloseStakingRecord(alice, addr), reverts.ErrAccountNotEmpty)
	require.NoError(t, env.staker.Unstake(alice, addr, 500))
	assert.ErrorIs(t, env.staker.CloseStakingRecord(alice, addr), reverts.ErrAccountNotEmpty)

	env.clock.Advance(delegatorDelay)
	require.NoError(t, env.staker.ClaimUnstake(alice, addr))
	assert.ErrorIs(t, env.staker.CloseStakingRecord(alice, addr), reverts.ErrUnclaimedUsdcEarnings)

	claimed, err := env.staker.ClaimUsdcEarnings(alice, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), claimed)
	require.NoError(t, env.staker.CloseStakingRecord(alice, addr))
	assert.ErrorIs(t, env.staker.CloseStakingRecord(alice, addr), reverts.ErrRecordNotFound)
}

func TestCloseOperatorRecordNeedsEmptyPool(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{AllowDelegation: true}, 1000)
	env.delegate(alice, addr, 500)

	require.NoError(t, env.staker.CloseOperatorPool(operatorA, addr))
	env.publish()
	require.NoError(t, env.staker.Unstake(operatorA, addr, 1000))
	env.clock.Advance(operatorDelay)
	require.NoError(t, env.staker.ClaimUnstake(operatorA, addr))

	assert.ErrorIs(t, env.staker.CloseStakingRecord(operatorA, addr), reverts.ErrPoolIsNotEmpty)
	require.NoError(t, env.staker.Unstake(alice, addr, 500))
	env.clock.Advance(delegatorDelay)
	require.NoError(t, env.staker.ClaimUnstake(alice, addr))
	require.NoError(t, env.staker.CloseStakingRecord(operatorA, addr))
}

func TestConservationFuzz(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{
		AllowDelegation:         true,
		RewardCommissionRateBps: 700,
		UsdcCommissionRateBps:   1500,
	}, 1000)
	owners := []pubkey.Address{operatorA, alice, bob}
	for _, o := range owners[1:] {
		require.NoError(t, env.staker.CreateStakingRecord(o, addr))
	}

	lastIndex := env.pool(addr).Index().Clone()
	lastCompleted := env.completed()
	lastClaimed := env.pool(addr).RewardLastClaimedEpoch

	f := fuzz.NewWithSeed(42).NilChance(0)
	for step := range 200 {
		var amount uint16
		f.Fuzz(&amount)
		owner := owners[1+step%2]
		rec, err := env.staker.Position(addr, owner)
		require.NoError(t, err)

		switch step % 5 {
		case 0:
			env.fund(tokenMint, owner, uint64(amount)+1)
			require.NoError(t, env.staker.Stake(owner, addr, uint64(amount)+1))
		case 1:
			if rec.Shares >= 2 {
				require.NoError(t, env.staker.Unstake(owner, addr, rec.Shares/2))
			}
		case 2:
			tree := env.publish(leafOf(addr, uint64(amount)%emission, uint64(amount)))
			require.NoError(t, env.accrue(tree, addr))
		case 3:
			if _, err := env.staker.ClaimUsdcEarnings(owner, addr); err != nil {
				require.ErrorIs(t, err, reverts.ErrNoUsdcEarningsToClaim)
			}
		case 4:
			env.clock.Advance(delegatorDelay)
			if rec.IsCooling() {
				require.NoError(t, env.staker.ClaimUnstake(owner, addr))
			}
		}

		env.checkPoolSolvency(addr, owners...)

		p := env.pool(addr)
		require.False(t, p.Index().Lt(lastIndex), "usdc index decreased at step %d", step)
		require.GreaterOrEqual(t, env.completed(), lastCompleted, "completed epoch decreased at step %d", step)
		require.GreaterOrEqual(t, p.RewardLastClaimedEpoch, lastClaimed, "claimed epoch decreased at step %d", step)
		lastIndex = p.Index().Clone()
		lastCompleted = env.completed()
		lastClaimed = p.RewardLastClaimedEpoch

		var owed uint64
		for _, o := range owners {
			rec, err := env.staker.Position(addr, o)
			require.NoError(t, err)
			unsettled, err := rec.Unsettled(p.Index())
			require.NoError(t, err)
			owed += rec.AccruedUsdcEarnings + unsettled
		}
		require.GreaterOrEqual(t, env.balance(usdcMint, PoolVaults(addr).DelegatorUsdc), owed)
	}
}
