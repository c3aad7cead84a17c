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
	"github.com/inference-net/staking/staker/pool"
	"github.com/inference-net/staking/staker/position"
	"github.com/inference-net/staking/staker/reverts"
)

func TestCreateOperatorPool(t *testing.T) {
	env := newTestEnv(t)
	fee := uint64(50)
	require.NoError(t, env.staker.UpdatePoolOverview(admin, &OverviewUpdate{OperatorPoolRegistrationFee: &fee}))

	_, err := env.staker.CreateOperatorPool(operatorA, &PoolArgs{})
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
	_, err = env.staker.CreateOperatorPool(operatorA, &PoolArgs{UsdcCommissionRateBps: 10_001})
	assert.ErrorIs(t, err, reverts.ErrInvalidCommissionRate)

	env.fund(tokenMint, operatorA, 2*fee)
	addr, err := env.staker.CreateOperatorPool(operatorA, &PoolArgs{RewardCommissionRateBps: 500, AllowDelegation: true})
	require.NoError(t, err)
	assert.Equal(t, pool.Address(operatorA), addr)
	assert.Equal(t, fee, env.balance(tokenMint, treasury))

	p := env.pool(addr)
	assert.Equal(t, uint64(1), p.PoolID)
	assert.Equal(t, operatorA, p.Admin)
	assert.Equal(t, position.ID(addr, operatorA), p.OperatorStakingRecord)
	assert.Equal(t, uint16(500), p.RewardCommissionRateBps)
	assert.Equal(t, uint64(1), p.JoinedAtEpoch)
	assert.Equal(t, uint64(0), p.RewardLastClaimedEpoch)
	assert.True(t, p.AllowDelegation)

	op, err := env.staker.Position(addr, operatorA)
	require.NoError(t, err)
	assert.True(t, op.IsEmpty())

	byID, err := env.staker.PoolAddressByID(1)
	require.NoError(t, err)
	assert.Equal(t, addr, byID)

	// the rejected second registration does not keep the fee
	_, err = env.staker.CreateOperatorPool(operatorA, &PoolArgs{})
	assert.ErrorIs(t, err, reverts.ErrPoolExists)
	assert.Equal(t, fee, env.balance(tokenMint, operatorA))

	no := false
	require.NoError(t, env.staker.UpdatePoolOverview(admin, &OverviewUpdate{AllowPoolCreation: &no}))
	_, err = env.staker.CreateOperatorPool(operatorB, &PoolArgs{})
	assert.ErrorIs(t, err, reverts.ErrPoolCreationDisabled)

	assert.Len(t, env.sink.OfType(events.PoolCreated), 1)
}

func TestOperatorMinimumStake(t *testing.T) {
	env := newTestEnv(t)
	addr, err := env.staker.CreateOperatorPool(operatorA, &PoolArgs{})
	require.NoError(t, err)

	env.fund(tokenMint, operatorA, 1000)
	assert.ErrorIs(t, env.staker.Stake(operatorA, addr, minStake-1), reverts.ErrMinOperatorTokenStakeNotMet)
	assert.ErrorIs(t, env.staker.Stake(operatorA, addr, 0), reverts.ErrInvalidAmount)
	require.NoError(t, env.staker.Stake(operatorA, addr, minStake))
	assert.ErrorIs(t, env.staker.Unstake(operatorA, addr, 1), reverts.ErrMinOperatorTokenStakeNotMet)

	require.NoError(t, env.staker.CreateStakingRecord(alice, addr))
	env.fund(tokenMint, alice, 10)
	assert.ErrorIs(t, env.staker.Stake(alice, addr, 10), reverts.ErrStakingNotAllowed)
	assert.ErrorIs(t, env.staker.CreateStakingRecord(alice, addr), reverts.ErrRecordExists)
}

func TestChangeOperatorAdminAndRecord(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{AllowDelegation: true}, 1000)

	assert.ErrorIs(t, env.staker.ChangeOperatorAdmin(stranger, addr, stranger), reverts.ErrInvalidAuthority)
	require.NoError(t, env.staker.ChangeOperatorAdmin(operatorA, addr, alice))
	assert.Equal(t, alice, env.pool(addr).Admin)
	assert.Equal(t, pool.Address(operatorA), addr)

	yes := true
	assert.ErrorIs(t, env.staker.UpdateOperatorPool(operatorA, addr, &PoolUpdate{AutoStakeFees: &yes}), reverts.ErrInvalidAuthority)
	require.NoError(t, env.staker.UpdateOperatorPool(alice, addr, &PoolUpdate{AutoStakeFees: &yes}))
	assert.True(t, env.pool(addr).AutoStakeFees)

	assert.ErrorIs(t, env.staker.ChangeOperatorStakingRecord(alice, addr, bob), reverts.ErrRecordNotFound)
	env.delegate(bob, addr, minStake-1)
	assert.ErrorIs(t, env.staker.ChangeOperatorStakingRecord(alice, addr, bob), reverts.ErrMinOperatorTokenStakeNotMet)

	env.fund(tokenMint, bob, 1)
	require.NoError(t, env.staker.Stake(bob, addr, 1))
	assert.ErrorIs(t, env.staker.ChangeOperatorStakingRecord(operatorA, addr, bob), reverts.ErrInvalidAuthority)
	require.NoError(t, env.staker.ChangeOperatorStakingRecord(alice, addr, bob))
	assert.Equal(t, position.ID(addr, bob), env.pool(addr).OperatorStakingRecord)

	// the former operator is a plain delegator now and may leave entirely
	require.NoError(t, env.staker.Unstake(operatorA, addr, 1000))
}

func TestHaltAndSlash(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{AllowDelegation: true}, 1000)
	env.delegate(alice, addr, 500)
	tree := env.publish(leafOf(addr, 0, 300))
	require.NoError(t, env.accrue(tree, addr))

	assert.ErrorIs(t, env.staker.SetHaltStatus(stranger, addr, true), reverts.ErrInvalidHaltAuthority)
	assert.ErrorIs(t, env.staker.SetHaltStatus(authority, addr, false), reverts.ErrOperatorPoolNotHalted)
	assert.ErrorIs(t, env.staker.SlashStake(authority, addr, 1, treasury, treasury), reverts.ErrOperatorPoolNotHalted)
	require.NoError(t, env.staker.SetHaltStatus(authority, addr, true))
	assert.ErrorIs(t, env.staker.SetHaltStatus(authority, addr, true), reverts.ErrOperatorPoolHalted)

	haltedAt, ok := env.pool(addr).HaltedAtTimestamp.Get()
	require.True(t, ok)
	assert.Equal(t, uint64(genesisTime), haltedAt)

	// the operator is frozen while halted
	assert.ErrorIs(t, env.staker.Unstake(operatorA, addr, 100), reverts.ErrOperatorPoolHalted)
	_, err := env.staker.ClaimUsdcEarnings(operatorA, addr)
	assert.ErrorIs(t, err, reverts.ErrOperatorPoolHalted)
	_, err = env.staker.WithdrawOperatorRewardCommission(operatorA, addr, operatorA)
	assert.ErrorIs(t, err, reverts.ErrOperatorPoolHalted)
	assert.ErrorIs(t, env.staker.CloseOperatorPool(operatorA, addr), reverts.ErrOperatorPoolHalted)
	assert.ErrorIs(t, env.staker.Stake(alice, addr, 1), reverts.ErrOperatorPoolHalted)

	assert.ErrorIs(t, env.staker.SlashStake(authority, addr, 400, treasury, treasury), reverts.ErrSlashingDelayNotMet)
	env.clock.Advance(3600)
	assert.ErrorIs(t, env.staker.SlashStake(authority, addr, 400, treasury, treasury), reverts.ErrSlashingDelayNotMet)
	env.clock.Advance(slashDelay - 3600 - 1)
	assert.ErrorIs(t, env.staker.SlashStake(authority, addr, 400, treasury, treasury), reverts.ErrSlashingDelayNotMet)
	env.clock.Advance(1)

	assert.ErrorIs(t, env.staker.SlashStake(stranger, addr, 400, treasury, treasury), reverts.ErrInvalidSlashingAuthority)
	assert.ErrorIs(t, env.staker.SlashStake(authority, addr, 0, treasury, treasury), reverts.ErrInvalidSlashSharesAmount)
	assert.ErrorIs(t, env.staker.SlashStake(authority, addr, 1001, treasury, treasury), reverts.ErrInvalidSlashSharesAmount)
	require.NoError(t, env.staker.SlashStake(authority, addr, 400, treasury, treasury))

	assert.Equal(t, uint64(400), env.balance(tokenMint, treasury))
	assert.Equal(t, uint64(200), env.balance(usdcMint, treasury))
	p := env.pool(addr)
	assert.Equal(t, uint64(1100), p.TotalStakedAmount)
	assert.Equal(t, uint64(1100), p.TotalShares)
	op, err := env.staker.Position(addr, operatorA)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), op.Shares)
	assert.Equal(t, uint64(0), op.AccruedUsdcEarnings)
	env.checkPoolSolvency(addr, operatorA, alice)

	evs := env.sink.OfType(events.StakeSlashed)
	require.Len(t, evs, 1)
	var data events.SlashData
	require.NoError(t, evs[0].Decode(&data))
	assert.Equal(t, uint64(400), data.TokenAmountSlashed)
	assert.Equal(t, uint64(200), data.UsdcConfiscated)
	assert.Equal(t, op.ID(), data.Record)

	// delegators keep their earnings
	claimed, err := env.staker.ClaimUsdcEarnings(alice, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), claimed)

	require.NoError(t, env.staker.SetHaltStatus(authority, addr, false))
	assert.False(t, env.pool(addr).IsHalted())
}

func TestCloseOperatorPool(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{}, 1000)
	halted := env.createPool(operatorB, &PoolArgs{}, 1000)

	_, err := env.staker.SweepClosedPoolUsdcDust(admin, addr, treasury)
	assert.ErrorIs(t, err, reverts.ErrPoolNotClosed)

	require.NoError(t, env.staker.SetHaltStatus(authority, halted, true))
	assert.ErrorIs(t, env.staker.CloseOperatorPool(operatorB, halted), reverts.ErrOperatorPoolHalted)

	require.NoError(t, env.staker.MarkEpochFinalizing(authority, 1))
	assert.ErrorIs(t, env.staker.CloseOperatorPool(stranger, addr), reverts.ErrInvalidAuthority)
	require.NoError(t, env.staker.CloseOperatorPool(operatorA, addr))
	closedAt, ok := env.pool(addr).ClosedAtEpoch.Get()
	require.True(t, ok)
	assert.Equal(t, uint64(2), closedAt)
	assert.ErrorIs(t, env.staker.CloseOperatorPool(operatorA, addr), reverts.ErrClosedPool)

	_, err = env.staker.SweepClosedPoolUsdcDust(admin, addr, treasury)
	assert.ErrorIs(t, err, reverts.ErrPoolClosedEpochInvalid)
}

func TestClosedPoolLifecycle(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{AllowDelegation: true}, 1000)
	env.delegate(alice, addr, 500)

	require.NoError(t, env.staker.CloseOperatorPool(operatorA, addr))
	assert.ErrorIs(t, env.staker.Stake(alice, addr, 1), reverts.ErrClosedPool)
	no := false
	assert.ErrorIs(t, env.staker.UpdateOperatorPool(operatorA, addr, &PoolUpdate{AllowDelegation: &no}), reverts.ErrClosedPool)
	assert.ErrorIs(t, env.staker.Unstake(operatorA, addr, 1000), reverts.ErrUnstakingNotAllowed)

	// the closing epoch is still accrued and flushed
	tree := env.publish(leafOf(addr, 1000, 301))
	require.NoError(t, env.accrue(tree, addr))
	assert.True(t, lastAccrual(t, env).Flushed)
	env.publish()

	// rewards are current up to the closure, so exits work although epoch 2 was never accrued
	require.NoError(t, env.staker.Unstake(operatorA, addr, 1000))
	require.NoError(t, env.staker.Unstake(alice, addr, 500))
	op, err := env.staker.Position(addr, operatorA)
	require.NoError(t, err)
	assert.Equal(t, uint64(1666), op.TokensUnstakeAmount)

	claimed, err := env.staker.ClaimUsdcEarnings(operatorA, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), claimed)
	claimed, err = env.staker.ClaimUsdcEarnings(alice, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), claimed)

	_, err = env.staker.SweepClosedPoolUsdcDust(stranger, addr, treasury)
	assert.ErrorIs(t, err, reverts.ErrInvalidAuthority)
	_, err = env.staker.SweepClosedPoolUsdcDust(admin, addr, treasury)
	assert.ErrorIs(t, err, reverts.ErrPoolIsNotEmpty)

	env.clock.Advance(operatorDelay)
	require.NoError(t, env.staker.ClaimUnstake(operatorA, addr))
	require.NoError(t, env.staker.ClaimUnstake(alice, addr))
	assert.Equal(t, uint64(1666), env.balance(tokenMint, operatorA))
	assert.Equal(t, uint64(834), env.balance(tokenMint, alice))
	env.checkPoolSolvency(addr, operatorA, alice)

	dust, err := env.staker.SweepClosedPoolUsdcDust(admin, addr, treasury)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), dust)
	assert.Equal(t, uint64(1), env.balance(usdcMint, treasury))

	require.NoError(t, env.staker.CloseStakingRecord(alice, addr))
	require.NoError(t, env.staker.CloseStakingRecord(operatorA, addr))
	_, err = env.staker.Position(addr, operatorA)
	assert.ErrorIs(t, err, reverts.ErrRecordNotFound)
	assert.Len(t, env.sink.OfType(events.RecordClosed), 2)
}

func TestPoolBalances(t *testing.T) {
	env := newTestEnv(t)
	addr := env.createPool(operatorA, &PoolArgs{RewardCommissionRateBps: 1000, UsdcCommissionRateBps: 1000}, 1000)
	tree := env.publish(leafOf(addr, 1000, 100))
	require.NoError(t, env.accrue(tree, addr))

	b, err := env.staker.PoolBalances(addr)
	require.NoError(t, err)
	assert.Equal(t, &Balances{Staked: 1900, RewardCommission: 100, UsdcCommission: 10, DelegatorUsdc: 90}, b)

	_, err = env.staker.PoolBalances(pubkey.Address{})
	require.NoError(t, err)
}
