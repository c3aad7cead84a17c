// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package teststaking builds a committed staking database for package tests.
package teststaking

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/clock"
	"github.com/inference-net/staking/eventdb"
	"github.com/inference-net/staking/ledger"
	"github.com/inference-net/staking/lvldb"
	"github.com/inference-net/staking/merkle"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker"
	"github.com/inference-net/staking/staker/emissions"
	"github.com/inference-net/staking/state"
)

const (
	Emission       = 1000
	MinStake       = 100
	OperatorDelay  = 1000
	DelegatorDelay = 500
	SlashDelay     = 86_400
	GenesisTime    = 1_700_000_000
	ScheduleEpochs = 300
)

var (
	TokenMint = pubkey.Derive([]byte("token-mint"))
	UsdcMint  = pubkey.Derive([]byte("usdc-mint"))
	Admin     = pubkey.Derive([]byte("admin"))
	Authority = pubkey.Derive([]byte("authority"))
	Treasury  = pubkey.Derive([]byte("treasury"))
	Operator  = pubkey.Derive([]byte("operator"))
	Alice     = pubkey.Derive([]byte("alice"))
)

// Env is an initialized protocol whose staker appends to an in-memory event db.
type Env struct {
	t        testing.TB
	DB       *lvldb.LevelDB
	Stater   *state.Stater
	State    *state.State
	Ledger   *ledger.Ledger
	Clock    *clock.Mock
	Schedule *emissions.Schedule
	EventDB  *eventdb.EventDB
	Staker   *staker.Staker
}

// New creates the overview and commits it.
func New(t testing.TB) *Env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	schedule, err := emissions.New(ScheduleEpochs, []uint64{Emission * ScheduleEpochs})
	require.NoError(t, err)

	stater := state.NewStater(db, 0)
	st := stater.NewState()
	env := &Env{
		t:        t,
		DB:       db,
		Stater:   stater,
		State:    st,
		Ledger:   ledger.New(st),
		Clock:    clock.NewMock(GenesisTime),
		Schedule: schedule,
		EventDB:  events,
	}
	env.Staker = staker.New(st, env.Ledger, env.Clock, schedule, events)

	require.NoError(t, env.Staker.CreatePoolOverview(Admin, &staker.OverviewParams{
		TokenMint:                     TokenMint,
		UsdcMint:                      UsdcMint,
		MinOperatorTokenStake:         MinStake,
		OperatorUnstakeDelaySeconds:   OperatorDelay,
		DelegatorUnstakeDelaySeconds:  DelegatorDelay,
		SlashingDelaySeconds:          SlashDelay,
		AllowPoolCreation:             true,
		RewardDistributionAuthorities: []pubkey.Address{Authority},
		HaltAuthorities:               []pubkey.Address{Authority},
		SlashingAuthorities:           []pubkey.Address{Authority},
		RegistrationFeePayoutWallet:   Treasury,
	}))
	env.Commit()
	return env
}

// Commit writes pending state changes to the database.
func (e *Env) Commit() {
	require.NoError(e.t, e.Stater.Commit(e.State.Stage()))
}

func (e *Env) Fund(mint, owner pubkey.Address, amount uint64) {
	require.NoError(e.t, e.Ledger.Mint(mint, owner, amount))
}

// CreatePool registers a pool for op with a 10% reward commission and stakes stake tokens.
func (e *Env) CreatePool(op pubkey.Address, stake uint64) pubkey.Address {
	addr, err := e.Staker.CreateOperatorPool(op, &staker.PoolArgs{
		RewardCommissionRateBps: 1000,
		UsdcCommissionRateBps:   1000,
		AllowDelegation:         true,
	})
	require.NoError(e.t, err)
	e.Fund(TokenMint, op, stake)
	require.NoError(e.t, e.Staker.Stake(op, addr, stake))
	return addr
}

func (e *Env) Delegate(owner, poolAddr pubkey.Address, amount uint64) {
	require.NoError(e.t, e.Staker.CreateStakingRecord(owner, poolAddr))
	e.Fund(TokenMint, owner, amount)
	require.NoError(e.t, e.Staker.Stake(owner, poolAddr, amount))
}

// Publish finalizes the next epoch with one tree over leaves and funds the global vaults.
func (e *Env) Publish(leaves ...merkle.Leaf) *merkle.Tree {
	o, err := e.Staker.Overview()
	require.NoError(e.t, err)
	require.NoError(e.t, e.Staker.MarkEpochFinalizing(Authority, o.CompletedRewardEpoch+1))

	tree, err := merkle.NewTree(SortLeaves(leaves))
	require.NoError(e.t, err)

	var usdc uint64
	for _, l := range leaves {
		usdc += l.Usdc
	}
	e.Fund(TokenMint, staker.GlobalRewardVault, Emission)
	e.Fund(UsdcMint, staker.GlobalUsdcVault, usdc)
	require.NoError(e.t, e.Staker.CreateRewardRecord(Authority, []pubkey.Bytes32{tree.Root()}, Emission, usdc))
	return tree
}

// Claim builds the accrual argument of poolAddr from tree.
func Claim(t testing.TB, tree *merkle.Tree, poolAddr pubkey.Address) *staker.RewardClaim {
	leaf, ok := tree.Leaf(poolAddr)
	require.True(t, ok)
	proof, err := tree.Proof(poolAddr)
	require.NoError(t, err)
	return &staker.RewardClaim{
		Proof:        proof.Siblings,
		ProofPath:    proof.Path,
		RewardAmount: leaf.Reward,
		UsdcAmount:   leaf.Usdc,
	}
}

// SortLeaves orders leaves by the base58 form of their pool.
func SortLeaves(leaves []merkle.Leaf) []merkle.Leaf {
	sorted := slices.Clone(leaves)
	slices.SortFunc(sorted, func(a, b merkle.Leaf) int {
		return strings.Compare(a.Pool.String(), b.Pool.String())
	})
	return sorted
}

// Seeded is an Env with one pool, one delegator and one accrued epoch.
type Seeded struct {
	*Env
	Pool pubkey.Address
	Tree *merkle.Tree
}

// NewSeeded creates a pool for Operator staking 1000, delegates 500 from Alice, publishes
// epoch 1 paying the pool 1000 tokens and 300 USDC and accrues it. Everything is committed.
func NewSeeded(t testing.TB) *Seeded {
	env := New(t)
	poolAddr := env.CreatePool(Operator, 1000)
	env.Delegate(Alice, poolAddr, 500)
	tree := env.Publish(merkle.Leaf{Pool: poolAddr, Reward: Emission, Usdc: 300})
	require.NoError(t, env.Staker.AccrueReward(poolAddr, Claim(t, tree, poolAddr)))
	env.Commit()
	return &Seeded{Env: env, Pool: poolAddr, Tree: tree}
}
