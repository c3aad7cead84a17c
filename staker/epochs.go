// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/checked"
	"github.com/inference-net/staking/staker/epoch"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/reverts"
)

// MarkEpochFinalizing moves the protocol from idle to finalizing for the expected epoch.
func (s *Staker) MarkEpochFinalizing(signer pubkey.Address, expected uint64) error {
	return s.run("mark_epoch_finalizing", []any{"signer", signer, "epoch", expected}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if !o.IsRewardDistributionAuthority(signer) {
			return reverts.ErrInvalidRewardDistributionAuthority
		}
		if o.IsEpochFinalizing {
			return reverts.ErrEpochIsFinalizing
		}
		if expected != currentEpoch(o) {
			return errors.WithMessagef(reverts.ErrEpochMismatch, "expected %d, in progress %d", expected, currentEpoch(o))
		}

		o.IsEpochFinalizing = true
		if err := s.overviewService.Set(o); err != nil {
			return err
		}
		return s.emit(events.EpochFinalizing, pubkey.Address{}, signer, expected, &events.EpochData{
			Epoch:        expected,
			IsFinalizing: true,
		})
	})
}

// CreateRewardRecord publishes the distribution of the finalizing epoch and completes it.
// The global vaults must cover every published but unaccrued amount afterwards.
func (s *Staker) CreateRewardRecord(signer pubkey.Address, roots []pubkey.Bytes32, totalRewards, totalUsdc uint64) error {
	ctx := []any{"signer", signer, "roots", len(roots), "rewards", totalRewards, "usdc", totalUsdc}
	return s.run("create_reward_record", ctx, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if !o.IsRewardDistributionAuthority(signer) {
			return reverts.ErrInvalidRewardDistributionAuthority
		}
		if !o.IsEpochFinalizing {
			return reverts.ErrEpochMustBeFinalizing
		}
		if err := epoch.ValidateRoots(roots); err != nil {
			return err
		}

		epochNum := currentEpoch(o)
		if len(roots) == 0 {
			if totalRewards != 0 {
				return reverts.ErrInvalidRewardAmount
			}
			if totalUsdc != 0 {
				return reverts.ErrInvalidUsdcAmount
			}
		} else {
			expected, err := s.emissions.ExpectedForEpoch(epochNum)
			if err != nil {
				return err
			}
			if totalRewards != expected {
				return errors.WithMessagef(reverts.ErrInvalidRewardAmount, "epoch %d expects %d", epochNum, expected)
			}
		}

		if o.UnclaimedRewards, err = checked.Add(o.UnclaimedRewards, totalRewards); err != nil {
			return err
		}
		if o.UnclaimedUsdc, err = checked.Add(o.UnclaimedUsdc, totalUsdc); err != nil {
			return err
		}
		o.CompletedRewardEpoch = epochNum
		o.IsEpochFinalizing = false

		rewardBalance, err := s.ledger.Balance(o.TokenMint, GlobalRewardVault)
		if err != nil {
			return err
		}
		if rewardBalance < o.UnclaimedRewards {
			return errors.WithMessagef(reverts.ErrInsufficientRewards, "vault holds %d, owed %d", rewardBalance, o.UnclaimedRewards)
		}
		usdcBalance, err := s.ledger.Balance(o.UsdcMint, GlobalUsdcVault)
		if err != nil {
			return err
		}
		if usdcBalance < o.UnclaimedUsdc {
			return errors.WithMessagef(reverts.ErrInsufficientUsdc, "vault holds %d, owed %d", usdcBalance, o.UnclaimedUsdc)
		}

		record := &epoch.RewardRecord{
			Epoch:            epochNum,
			MerkleRoots:      slices.Clone(roots),
			TotalRewards:     totalRewards,
			TotalUsdcPayout:  totalUsdc,
			EpochFinalizedAt: s.clock.Now(),
		}
		if err := s.epochService.Add(record); err != nil {
			return err
		}
		if err := s.overviewService.Set(o); err != nil {
			return err
		}
		return s.emit(events.RewardRecordCreated, pubkey.Address{}, signer, epochNum, &events.RewardRecordData{
			Epoch:           epochNum,
			MerkleRoots:     record.MerkleRoots,
			TotalRewards:    totalRewards,
			TotalUsdcPayout: totalUsdc,
		})
	})
}

// ModifyRewardRecord replaces the merkle roots of a published epoch. Totals never change, and
// an epoch published without roots stays without roots.
func (s *Staker) ModifyRewardRecord(signer pubkey.Address, epochNum uint64, roots []pubkey.Bytes32) error {
	return s.run("modify_reward_record", []any{"signer", signer, "epoch", epochNum, "roots", len(roots)}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if !o.IsRewardDistributionAuthority(signer) {
			return reverts.ErrInvalidRewardDistributionAuthority
		}
		record, err := s.epochService.Get(epochNum)
		if err != nil {
			return err
		}
		if err := epoch.ValidateRoots(roots); err != nil {
			return err
		}
		if (len(record.MerkleRoots) == 0) != (len(roots) == 0) {
			return reverts.ErrMerkleRootCountChange
		}

		record.MerkleRoots = slices.Clone(roots)
		if err := s.epochService.Update(record); err != nil {
			return err
		}
		return s.emit(events.RewardRecordModified, pubkey.Address{}, signer, epochNum, &events.RewardRecordData{
			Epoch:           epochNum,
			MerkleRoots:     record.MerkleRoots,
			TotalRewards:    record.TotalRewards,
			TotalUsdcPayout: record.TotalUsdcPayout,
		})
	})
}
