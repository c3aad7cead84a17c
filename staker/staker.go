// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/clock"
	"github.com/inference-net/staking/ledger"
	"github.com/inference-net/staking/log"
	"github.com/inference-net/staking/metrics"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/epoch"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/overview"
	"github.com/inference-net/staking/staker/pool"
	"github.com/inference-net/staking/staker/position"
	"github.com/inference-net/staking/staker/reverts"
	"github.com/inference-net/staking/state"
)

var (
	logger = log.WithContext("pkg", "staker")

	// Address owns the staker's storage slots.
	Address = pubkey.Derive([]byte("InferenceStaking"))

	metricOperations       = metrics.LazyLoadCounterVec("staker_operations_count", []string{"op", "result"})
	metricCompletedEpoch   = metrics.LazyLoadGauge("staker_completed_epoch")
	metricUnclaimedRewards = metrics.LazyLoadGauge("staker_unclaimed_rewards")
	metricUnclaimedUsdc    = metrics.LazyLoadGauge("staker_unclaimed_usdc")
)

// Ledger moves token balances. It must write to the same state as the staker so that a
// rejected operation rolls its transfers back too.
type Ledger interface {
	Balance(mint, owner pubkey.Address) (uint64, error)
	Transfer(mint, from, to pubkey.Address, amount uint64) error
	Mint(mint, to pubkey.Address, amount uint64) error
	CloseAccount(mint, owner pubkey.Address) error
}

// Emissions yields the token issuance expected for an epoch.
type Emissions interface {
	ExpectedForEpoch(epoch uint64) (uint64, error)
}

// Staker is the staking protocol. Each exported mutating method is atomic: it either
// applies completely and appends its events to the sink, or leaves state untouched.
// A Staker is not safe for concurrent use.
type Staker struct {
	state     *state.State
	ledger    Ledger
	clock     clock.Clock
	emissions Emissions
	sink      events.Sink

	overviewService *overview.Service
	poolService     *pool.Service
	positionService *position.Service
	epochService    *epoch.Service

	pending []*events.Event
}

// New create a new instance.
func New(st *state.State, lg Ledger, clk clock.Clock, emissions Emissions, sink events.Sink) *Staker {
	sctx := accounts.NewContext(Address, st)
	if sink == nil {
		sink = events.Discard{}
	}

	return &Staker{
		state:     st,
		ledger:    lg,
		clock:     clk,
		emissions: emissions,
		sink:      sink,

		overviewService: overview.NewService(sctx),
		poolService:     pool.NewService(sctx),
		positionService: position.NewService(sctx),
		epochService:    epoch.NewService(sctx),
	}
}

//
// Getters - no state change
//

// Overview returns the protocol singleton.
func (s *Staker) Overview() (*overview.Overview, error) {
	return s.overviewService.Get()
}

// Pool returns the operator pool at addr.
func (s *Staker) Pool(addr pubkey.Address) (*pool.Pool, error) {
	return s.poolService.Get(addr)
}

// PoolAddressByID resolves the sequential id assigned at pool creation.
func (s *Staker) PoolAddressByID(id uint64) (pubkey.Address, error) {
	return s.poolService.AddressByID(id)
}

// Position returns the staking record of owner in pool.
func (s *Staker) Position(poolAddr, owner pubkey.Address) (*position.Position, error) {
	return s.positionService.Get(poolAddr, owner)
}

// PositionByID returns a staking record by its derived id.
func (s *Staker) PositionByID(id pubkey.Address) (*position.Position, error) {
	return s.positionService.GetByID(id)
}

// RewardRecord returns the published record of epoch.
func (s *Staker) RewardRecord(epochNum uint64) (*epoch.RewardRecord, error) {
	return s.epochService.Get(epochNum)
}

// PoolBalances returns the ledger balances of a pool's vaults.
func (s *Staker) PoolBalances(poolAddr pubkey.Address) (*Balances, error) {
	o, err := s.overviewService.Get()
	if err != nil {
		return nil, err
	}
	v := PoolVaults(poolAddr)
	b := &Balances{}
	for _, e := range []struct {
		mint  pubkey.Address
		vault pubkey.Address
		out   *uint64
	}{
		{o.TokenMint, v.Staked, &b.Staked},
		{o.TokenMint, v.RewardCommission, &b.RewardCommission},
		{o.UsdcMint, v.UsdcCommission, &b.UsdcCommission},
		{o.UsdcMint, v.DelegatorUsdc, &b.DelegatorUsdc},
	} {
		if *e.out, err = s.ledger.Balance(e.mint, e.vault); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// run executes fn atomically.
func (s *Staker) run(op string, ctx []any, fn func() error) error {
	logger.Debug(op, ctx...)

	checkpoint := s.state.NewCheckpoint()
	s.pending = nil
	err := fn()
	if err == nil && len(s.pending) > 0 {
		err = errors.Wrap(s.sink.Append(s.pending), "append events")
	}
	s.pending = nil

	if err != nil {
		s.state.RevertTo(checkpoint)
		logger.Info(op+" failed", append(ctx, "error", err)...)
		metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": resultLabel(err)})
		return err
	}

	logger.Info(op+" done", ctx...)
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	if o, err := s.overviewService.Get(); err == nil {
		metricCompletedEpoch().Set(int64(o.CompletedRewardEpoch))
		metricUnclaimedRewards().Set(int64(o.UnclaimedRewards))
		metricUnclaimedUsdc().Set(int64(o.UnclaimedUsdc))
	}
	return nil
}

func resultLabel(err error) string {
	if kind := reverts.KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}

// emit queues an event for the running operation.
func (s *Staker) emit(typ events.Type, poolAddr, subject pubkey.Address, epochNum uint64, data any) error {
	ev, err := events.New(typ, poolAddr, subject, epochNum, s.clock.Now(), data)
	if err != nil {
		return err
	}
	s.pending = append(s.pending, ev)
	return nil
}

// transfer moves tokens, reporting a short balance as insufficient.
func (s *Staker) transfer(mint, from, to pubkey.Address, amount uint64, insufficient error) error {
	if err := s.ledger.Transfer(mint, from, to, amount); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return errors.WithMessage(insufficient, err.Error())
		}
		return errors.Wrap(err, "transfer")
	}
	return nil
}

// loadPoolRecord loads a pool together with owner's record in it.
func (s *Staker) loadPoolRecord(poolAddr, owner pubkey.Address) (*pool.Pool, *position.Position, error) {
	p, err := s.poolService.Get(poolAddr)
	if err != nil {
		return nil, nil, err
	}
	rec, err := s.positionService.Get(poolAddr, owner)
	if err != nil {
		return nil, nil, err
	}
	return p, rec, nil
}

// checkOperatorStake fails when the operator record holds less than the protocol minimum.
func checkOperatorStake(o *overview.Overview, p *pool.Pool, op *position.Position) error {
	tokens, err := p.TokensForShares(op.Shares)
	if err != nil {
		return err
	}
	if tokens < o.MinOperatorTokenStake {
		return errors.WithMessagef(reverts.ErrMinOperatorTokenStakeNotMet, "operator holds %d, min %d", tokens, o.MinOperatorTokenStake)
	}
	return nil
}

// currentEpoch is the epoch in progress.
func currentEpoch(o *overview.Overview) uint64 {
	return o.CompletedRewardEpoch + 1
}
