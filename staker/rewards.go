// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/merkle"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/checked"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/overview"
	"github.com/inference-net/staking/staker/pool"
	"github.com/inference-net/staking/staker/reverts"
)

// RewardClaim proves a pool's share of one epoch distribution.
type RewardClaim struct {
	RootIndex    int              `json:"merkleIndex"`
	Proof        []pubkey.Bytes32 `json:"proof"`
	ProofPath    []bool           `json:"proofPath"`
	RewardAmount uint64           `json:"rewardAmount"`
	UsdcAmount   uint64           `json:"usdcAmount"`
}

// AccrueReward credits the next unclaimed epoch to a pool. Amounts are accumulated lazily and
// only moved between vaults when the pool catches up with the latest completed epoch, or
// reaches the epoch it closes at.
func (s *Staker) AccrueReward(poolAddr pubkey.Address, claim *RewardClaim) error {
	ctx := []any{"pool", poolAddr, "reward", claim.RewardAmount, "usdc", claim.UsdcAmount}
	return s.run("accrue_reward", ctx, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if o.IsAccrueRewardHalted {
			return reverts.ErrAccrueRewardHalted
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		record, err := s.epochService.Get(p.RewardLastClaimedEpoch + 1)
		if err != nil {
			return err
		}
		leaf := merkle.Leaf{Pool: poolAddr, Reward: claim.RewardAmount, Usdc: claim.UsdcAmount}
		if err := record.VerifyProof(claim.RootIndex, leaf, &merkle.Proof{Siblings: claim.Proof, Path: claim.ProofPath}); err != nil {
			return err
		}
		closedAt, closed := p.ClosedAtEpoch.Get()
		if closed && closedAt < record.Epoch {
			return errors.WithMessagef(reverts.ErrClosedPool, "closed at %d", closedAt)
		}

		split, err := p.SplitReward(claim.RewardAmount, claim.UsdcAmount)
		if err != nil {
			return err
		}
		if err := p.Accrue(split); err != nil {
			return err
		}
		p.RewardLastClaimedEpoch++

		data := &events.AccrueRewardData{
			Epoch:            record.Epoch,
			RewardAmount:     claim.RewardAmount,
			UsdcAmount:       claim.UsdcAmount,
			RewardCommission: split.RewardCommission,
			DelegatorRewards: split.DelegatorRewards,
			UsdcCommission:   split.UsdcCommission,
			DelegatorUsdc:    split.DelegatorUsdc,
		}
		if record.Epoch == o.CompletedRewardEpoch || (closed && closedAt == record.Epoch) {
			if err := s.flush(o, p, data); err != nil {
				return err
			}
			if err := s.overviewService.Set(o); err != nil {
				return err
			}
		}

		if err := s.poolService.Update(p); err != nil {
			return err
		}
		return s.emit(events.RewardAccrued, poolAddr, pubkey.Address{}, record.Epoch, data)
	})
}

// flush moves everything accrued by p out of the global vaults.
func (s *Staker) flush(o *overview.Overview, p *pool.Pool, data *events.AccrueRewardData) error {
	var (
		poolAddr = p.Address()
		vaults   = PoolVaults(poolAddr)
		accrued  = p.Accrued()
	)

	var err error
	if p.TotalStakedAmount, err = checked.Add(p.TotalStakedAmount, accrued.DelegatorRewards); err != nil {
		return err
	}
	if err := s.transfer(o.TokenMint, GlobalRewardVault, vaults.Staked, accrued.DelegatorRewards, reverts.ErrInsufficientRewards); err != nil {
		return err
	}

	if p.AutoStakeFees {
		if err := s.transfer(o.TokenMint, GlobalRewardVault, vaults.Staked, accrued.RewardCommission, reverts.ErrInsufficientRewards); err != nil {
			return err
		}
		operator, err := s.positionService.GetByID(p.OperatorStakingRecord)
		if err != nil {
			return err
		}
		if _, err := p.StakeTokens(operator, accrued.RewardCommission); err != nil {
			return err
		}
		if err := s.positionService.Update(operator); err != nil {
			return err
		}
	} else {
		if err := s.transfer(o.TokenMint, GlobalRewardVault, vaults.RewardCommission, accrued.RewardCommission, reverts.ErrInsufficientRewards); err != nil {
			return err
		}
	}

	if accrued.UsdcCommission > 0 {
		if err := s.transfer(o.UsdcMint, GlobalUsdcVault, vaults.UsdcCommission, accrued.UsdcCommission, reverts.ErrInsufficientUsdc); err != nil {
			return err
		}
	}
	if accrued.DelegatorUsdc > 0 {
		if err := s.transfer(o.UsdcMint, GlobalUsdcVault, vaults.DelegatorUsdc, accrued.DelegatorUsdc, reverts.ErrInsufficientUsdc); err != nil {
			return err
		}
	}
	if err := p.DistributeUsdc(accrued.DelegatorUsdc); err != nil {
		return err
	}
	p.ApplyPendingRates()

	rewards, err := checked.Add(accrued.DelegatorRewards, accrued.RewardCommission)
	if err != nil {
		return err
	}
	usdc, err := checked.Add(accrued.UsdcCommission, accrued.DelegatorUsdc)
	if err != nil {
		return err
	}
	if o.UnclaimedRewards, err = checked.Sub(o.UnclaimedRewards, rewards); err != nil {
		return err
	}
	if o.UnclaimedUsdc, err = checked.Sub(o.UnclaimedUsdc, usdc); err != nil {
		return err
	}
	p.ClearAccrued()

	data.Flushed = true
	data.TotalRewardsTransferred = rewards
	data.TotalUsdcTransferred = usdc
	return nil
}

// AccrueRewardEmergencyBypass skips one epoch for a pool stranded behind an epoch it cannot
// prove. The skipped amounts stay in the global vaults.
func (s *Staker) AccrueRewardEmergencyBypass(signer, poolAddr pubkey.Address) error {
	return s.run("accrue_reward_emergency_bypass", []any{"signer", signer, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if signer != o.Admin {
			return reverts.ErrInvalidAuthority
		}
		if o.IsEpochFinalizing {
			return reverts.ErrEpochIsFinalizing
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		if p.IsHalted() {
			return reverts.ErrOperatorPoolHalted
		}
		if p.IsClosed() {
			return reverts.ErrClosedPool
		}
		if o.CompletedRewardEpoch <= p.RewardLastClaimedEpoch {
			return reverts.ErrInvalidEmergencyBypassEpoch
		}
		skipped := p.RewardLastClaimedEpoch + 1
		for _, e := range []uint64{skipped, skipped + 1} {
			ok, err := s.epochService.Exists(e)
			if err != nil {
				return err
			}
			if !ok {
				return errors.WithMessagef(reverts.ErrInvalidEmergencyBypassEpoch, "no reward record for epoch %d", e)
			}
		}

		p.RewardLastClaimedEpoch = skipped
		if err := s.poolService.Update(p); err != nil {
			return err
		}
		return s.emit(events.RewardEmergencyBypassed, poolAddr, signer, skipped, &events.BypassData{SkippedEpoch: skipped})
	})
}
