// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/holiman/uint256"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/checked"
	"github.com/inference-net/staking/staker/reverts"
)

// Precision scales the per-share USDC index.
var Precision = uint256.NewInt(1_000_000_000_000_000_000)

// Position is an owner's stake in one operator pool, aka a staking record.
type Position struct {
	Owner                   pubkey.Address `json:"owner"`
	OperatorPool            pubkey.Address `json:"operatorPool"`
	Shares                  uint64         `json:"shares"`
	TokensUnstakeAmount     uint64         `json:"tokensUnstakeAmount"`
	UnstakeAtTimestamp      uint64         `json:"unstakeAtTimestamp"`
	LastSettledUsdcPerShare *uint256.Int   `json:"lastSettledUsdcPerShare"`
	AccruedUsdcEarnings     uint64         `json:"accruedUsdcEarnings"`
}

// New returns an empty position checkpointed at the pool's current index, so it never
// earns USDC distributed before it existed.
func New(owner, pool pubkey.Address, index *uint256.Int) *Position {
	return &Position{
		Owner:                   owner,
		OperatorPool:            pool,
		LastSettledUsdcPerShare: new(uint256.Int).Set(index),
	}
}

// ID derives the storage identity of the position of owner in pool.
func ID(pool, owner pubkey.Address) pubkey.Address {
	return pubkey.Derive([]byte("StakingRecord"), pool.Bytes(), owner.Bytes())
}

func (p *Position) ID() pubkey.Address {
	return ID(p.OperatorPool, p.Owner)
}

// IsCooling returns whether tokens are pending an unstake claim.
func (p *Position) IsCooling() bool {
	return p.TokensUnstakeAmount > 0
}

func (p *Position) IsEmpty() bool {
	return p.Shares == 0 && p.TokensUnstakeAmount == 0
}

// Unsettled returns the USDC earned since the last checkpoint against index.
func (p *Position) Unsettled(index *uint256.Int) (uint64, error) {
	last := p.lastSettled()
	if index.Cmp(last) <= 0 || p.Shares == 0 {
		return 0, nil
	}
	delta := new(uint256.Int).Sub(index, last)
	earned, overflow := new(uint256.Int).MulDivOverflow(uint256.NewInt(p.Shares), delta, Precision)
	if overflow || !earned.IsUint64() {
		return 0, reverts.ErrOverflow
	}
	return earned.Uint64(), nil
}

// SettleUsdc credits earnings accrued since the last checkpoint and moves the checkpoint
// to index. It must run before every change of Shares.
func (p *Position) SettleUsdc(index *uint256.Int) error {
	earned, err := p.Unsettled(index)
	if err != nil {
		return err
	}
	accrued, err := checked.Add(p.AccruedUsdcEarnings, earned)
	if err != nil {
		return err
	}
	p.AccruedUsdcEarnings = accrued
	if index.Cmp(p.lastSettled()) > 0 {
		p.LastSettledUsdcPerShare = new(uint256.Int).Set(index)
	}
	return nil
}

// HasUnclaimedUsdc reports accrued earnings or a non-zero unsettled payout.
func (p *Position) HasUnclaimedUsdc(index *uint256.Int) bool {
	if p.AccruedUsdcEarnings > 0 {
		return true
	}
	earned, err := p.Unsettled(index)
	return err != nil || earned > 0
}

func (p *Position) lastSettled() *uint256.Int {
	if p.LastSettledUsdcPerShare == nil {
		p.LastSettledUsdcPerShare = new(uint256.Int)
	}
	return p.LastSettledUsdcPerShare
}
