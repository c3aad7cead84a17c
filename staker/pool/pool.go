// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/checked"
	"github.com/inference-net/staking/staker/position"
	"github.com/inference-net/staking/staker/reverts"
)

// MaxCommissionRateBps is 100%.
const MaxCommissionRateBps uint16 = 10_000

// Pool is an operator pool. Its fields double as the share ledger: every change to
// TotalShares goes through StakeTokens, UnstakeTokens or SlashTokens.
type Pool struct {
	PoolID                     uint64                    `json:"poolId"`
	InitialPoolAdmin           pubkey.Address            `json:"initialPoolAdmin"`
	Admin                      pubkey.Address            `json:"admin"`
	OperatorStakingRecord      pubkey.Address            `json:"operatorStakingRecord"`
	RewardCommissionRateBps    uint16                    `json:"rewardCommissionRateBps"`
	NewRewardCommissionRateBps accounts.Optional[uint16] `json:"newRewardCommissionRateBps"`
	UsdcCommissionRateBps      uint16                    `json:"usdcCommissionRateBps"`
	NewUsdcCommissionRateBps   accounts.Optional[uint16] `json:"newUsdcCommissionRateBps"`
	AllowDelegation            bool                      `json:"allowDelegation"`
	AutoStakeFees              bool                      `json:"autoStakeFees"`
	TotalStakedAmount          uint64                    `json:"totalStakedAmount"`
	TotalShares                uint64                    `json:"totalShares"`
	TotalUnstaking             uint64                    `json:"totalUnstaking"`
	JoinedAtEpoch              uint64                    `json:"joinedAtEpoch"`
	ClosedAtEpoch              accounts.Optional[uint64] `json:"closedAtEpoch"`
	HaltedAtTimestamp          accounts.Optional[uint64] `json:"haltedAtTimestamp"`
	RewardLastClaimedEpoch     uint64                    `json:"rewardLastClaimedEpoch"`
	AccruedRewards             uint64                    `json:"accruedRewards"`
	AccruedRewardCommission    uint64                    `json:"accruedRewardCommission"`
	AccruedUsdcCommission      uint64                    `json:"accruedUsdcCommission"`
	AccruedDelegatorUsdc       uint64                    `json:"accruedDelegatorUsdc"`
	CumulativeUsdcPerShare     *uint256.Int              `json:"cumulativeUsdcPerShare"`
}

// Address derives the identity of the pool created by initialAdmin.
func Address(initialAdmin pubkey.Address) pubkey.Address {
	return pubkey.Derive([]byte("OperatorPool"), initialAdmin.Bytes())
}

func (p *Pool) Address() pubkey.Address {
	return Address(p.InitialPoolAdmin)
}

func (p *Pool) IsHalted() bool {
	return p.HaltedAtTimestamp.IsSome()
}

func (p *Pool) IsClosed() bool {
	return p.ClosedAtEpoch.IsSome()
}

// IsEmpty returns whether no shares and no cooling tokens remain.
func (p *Pool) IsEmpty() bool {
	return p.TotalShares == 0 && p.TotalUnstaking == 0
}

// Index returns the cumulative USDC per share index.
func (p *Pool) Index() *uint256.Int {
	if p.CumulativeUsdcPerShare == nil {
		p.CumulativeUsdcPerShare = new(uint256.Int)
	}
	return p.CumulativeUsdcPerShare
}

// SharesForTokens converts tokens to shares, rounding down. An empty pool mints 1:1.
func (p *Pool) SharesForTokens(amount uint64) (uint64, error) {
	if p.TotalShares == 0 {
		return amount, nil
	}
	return checked.MulDiv(amount, p.TotalShares, p.TotalStakedAmount)
}

// TokensForShares converts shares to tokens, rounding down.
func (p *Pool) TokensForShares(shares uint64) (uint64, error) {
	if shares == 0 {
		return 0, nil
	}
	return checked.MulDiv(shares, p.TotalStakedAmount, p.TotalShares)
}

// StakeTokens mints shares for amount into pos and returns the shares created.
func (p *Pool) StakeTokens(pos *position.Position, amount uint64) (uint64, error) {
	if err := pos.SettleUsdc(p.Index()); err != nil {
		return 0, err
	}
	shares, err := p.SharesForTokens(amount)
	if err != nil {
		return 0, err
	}
	staked, err := checked.Add(p.TotalStakedAmount, amount)
	if err != nil {
		return 0, err
	}
	total, err := checked.Add(p.TotalShares, shares)
	if err != nil {
		return 0, err
	}
	owned, err := checked.Add(pos.Shares, shares)
	if err != nil {
		return 0, err
	}
	p.TotalStakedAmount, p.TotalShares, pos.Shares = staked, total, owned
	return shares, nil
}

// UnstakeTokens burns shares from pos and moves their tokens to TotalUnstaking.
func (p *Pool) UnstakeTokens(pos *position.Position, shares uint64) (uint64, error) {
	tokens, err := p.burn(pos, shares)
	if err != nil {
		return 0, err
	}
	unstaking, err := checked.Add(p.TotalUnstaking, tokens)
	if err != nil {
		return 0, err
	}
	if err := p.applyBurn(pos, shares, tokens); err != nil {
		return 0, err
	}
	p.TotalUnstaking = unstaking
	return tokens, nil
}

// SlashTokens burns shares from pos. The tokens leave the pool immediately.
func (p *Pool) SlashTokens(pos *position.Position, shares uint64) (uint64, error) {
	tokens, err := p.burn(pos, shares)
	if err != nil {
		return 0, err
	}
	if err := p.applyBurn(pos, shares, tokens); err != nil {
		return 0, err
	}
	return tokens, nil
}

func (p *Pool) burn(pos *position.Position, shares uint64) (uint64, error) {
	if err := pos.SettleUsdc(p.Index()); err != nil {
		return 0, err
	}
	if shares > pos.Shares {
		return 0, reverts.ErrInsufficientShares
	}
	return p.TokensForShares(shares)
}

func (p *Pool) applyBurn(pos *position.Position, shares, tokens uint64) error {
	staked, err := checked.Sub(p.TotalStakedAmount, tokens)
	if err != nil {
		return err
	}
	total, err := checked.Sub(p.TotalShares, shares)
	if err != nil {
		return err
	}
	owned, err := checked.Sub(pos.Shares, shares)
	if err != nil {
		return err
	}
	p.TotalStakedAmount, p.TotalShares, pos.Shares = staked, total, owned
	return nil
}

// DistributeUsdc raises the per-share index by amount spread over all shares. Nothing
// happens when the pool has no shares.
func (p *Pool) DistributeUsdc(amount uint64) error {
	if amount == 0 || p.TotalShares == 0 {
		return nil
	}
	delta, overflow := new(uint256.Int).MulDivOverflow(uint256.NewInt(amount), position.Precision, uint256.NewInt(p.TotalShares))
	if overflow {
		return reverts.ErrOverflow
	}
	index, overflow := new(uint256.Int).AddOverflow(p.Index(), delta)
	if overflow {
		return reverts.ErrOverflow
	}
	p.CumulativeUsdcPerShare = index
	return nil
}

// ApplyPendingRates moves pending commission rates into effect and clears them.
func (p *Pool) ApplyPendingRates() {
	p.RewardCommissionRateBps = p.NewRewardCommissionRateBps.Or(p.RewardCommissionRateBps)
	p.UsdcCommissionRateBps = p.NewUsdcCommissionRateBps.Or(p.UsdcCommissionRateBps)
	p.NewRewardCommissionRateBps = accounts.None[uint16]()
	p.NewUsdcCommissionRateBps = accounts.None[uint16]()
}
