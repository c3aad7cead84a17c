// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/checked"
	"github.com/inference-net/staking/staker/reverts"
)

// Split is one epoch's reward for a pool divided between operator and delegators.
type Split struct {
	RewardCommission uint64 `json:"rewardCommission"`
	DelegatorRewards uint64 `json:"delegatorRewards"`
	UsdcCommission   uint64 `json:"usdcCommission"`
	DelegatorUsdc    uint64 `json:"delegatorUsdc"`
}

// SplitReward applies the active commission rates. Commissions round down.
func (p *Pool) SplitReward(reward, usdc uint64) (*Split, error) {
	rewardCommission, err := checked.MulDiv(reward, uint64(p.RewardCommissionRateBps), uint64(MaxCommissionRateBps))
	if err != nil {
		return nil, err
	}
	usdcCommission, err := checked.MulDiv(usdc, uint64(p.UsdcCommissionRateBps), uint64(MaxCommissionRateBps))
	if err != nil {
		return nil, err
	}
	delegatorRewards, err := checked.Sub(reward, rewardCommission)
	if err != nil {
		return nil, err
	}
	delegatorUsdc, err := checked.Sub(usdc, usdcCommission)
	if err != nil {
		return nil, err
	}
	return &Split{
		RewardCommission: rewardCommission,
		DelegatorRewards: delegatorRewards,
		UsdcCommission:   usdcCommission,
		DelegatorUsdc:    delegatorUsdc,
	}, nil
}

// Accrue adds a split to the pending accumulators.
func (p *Pool) Accrue(s *Split) error {
	rewards, err := checked.Add(p.AccruedRewards, s.DelegatorRewards)
	if err != nil {
		return err
	}
	rewardCommission, err := checked.Add(p.AccruedRewardCommission, s.RewardCommission)
	if err != nil {
		return err
	}
	usdcCommission, err := checked.Add(p.AccruedUsdcCommission, s.UsdcCommission)
	if err != nil {
		return err
	}
	delegatorUsdc, err := checked.Add(p.AccruedDelegatorUsdc, s.DelegatorUsdc)
	if err != nil {
		return err
	}
	p.AccruedRewards = rewards
	p.AccruedRewardCommission = rewardCommission
	p.AccruedUsdcCommission = usdcCommission
	p.AccruedDelegatorUsdc = delegatorUsdc
	return nil
}

// Accrued returns the pending accumulators as a split.
func (p *Pool) Accrued() *Split {
	return &Split{
		RewardCommission: p.AccruedRewardCommission,
		DelegatorRewards: p.AccruedRewards,
		UsdcCommission:   p.AccruedUsdcCommission,
		DelegatorUsdc:    p.AccruedDelegatorUsdc,
	}
}

func (p *Pool) ClearAccrued() {
	p.AccruedRewards = 0
	p.AccruedRewardCommission = 0
	p.AccruedUsdcCommission = 0
	p.AccruedDelegatorUsdc = 0
}

// CheckUnclaimedRewards fails unless the pool accrued every completed epoch. A closed
// pool only needs to have accrued up to the epoch before its closure.
func (p *Pool) CheckUnclaimedRewards(completedEpoch uint64) error {
	if completedEpoch <= p.RewardLastClaimedEpoch {
		return nil
	}
	if closedAt, ok := p.ClosedAtEpoch.Get(); ok && closedAt > 0 && p.RewardLastClaimedEpoch >= closedAt-1 {
		return nil
	}
	return reverts.ErrUnclaimedRewards
}

// IsOperator returns whether the record id is the pool's operator record.
func (p *Pool) IsOperator(recordID pubkey.Address) bool {
	return p.OperatorStakingRecord == recordID
}
