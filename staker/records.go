// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/checked"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/position"
	"github.com/inference-net/staking/staker/reverts"
)

// CreateStakingRecord opens an empty record for owner in the pool.
func (s *Staker) CreateStakingRecord(owner, poolAddr pubkey.Address) error {
	return s.run("create_staking_record", []any{"owner", owner, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		record := position.New(owner, poolAddr, p.Index())
		if err := s.positionService.Add(record); err != nil {
			return err
		}
		return s.emit(events.RecordCreated, poolAddr, owner, currentEpoch(o), &events.RecordData{Record: record.ID()})
	})
}

// CloseStakingRecord removes an empty record. The operator record can only be closed once the
// whole pool is empty.
func (s *Staker) CloseStakingRecord(owner, poolAddr pubkey.Address) error {
	return s.run("close_staking_record", []any{"owner", owner, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		p, record, err := s.loadPoolRecord(poolAddr, owner)
		if err != nil {
			return err
		}
		if !record.IsEmpty() {
			return reverts.ErrAccountNotEmpty
		}
		if record.HasUnclaimedUsdc(p.Index()) {
			return reverts.ErrUnclaimedUsdcEarnings
		}
		if p.IsOperator(record.ID()) && !p.IsEmpty() {
			return reverts.ErrPoolIsNotEmpty
		}

		s.positionService.Remove(record)
		return s.emit(events.RecordClosed, poolAddr, owner, currentEpoch(o), &events.RecordData{Record: record.ID()})
	})
}

// Stake moves amount from owner's token wallet into the pool and mints shares at the current
// ratio. The pool must have accrued every completed epoch.
func (s *Staker) Stake(owner, poolAddr pubkey.Address, amount uint64) error {
	return s.run("stake", []any{"owner", owner, "pool", poolAddr, "amount", amount}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if o.IsStakingHalted {
			return reverts.ErrStakingHalted
		}
		p, record, err := s.loadPoolRecord(poolAddr, owner)
		if err != nil {
			return err
		}
		if p.IsClosed() {
			return reverts.ErrClosedPool
		}
		if p.IsHalted() {
			return reverts.ErrOperatorPoolHalted
		}
		isOperator := p.IsOperator(record.ID())
		if !p.AllowDelegation && !isOperator {
			return reverts.ErrStakingNotAllowed
		}
		if p.RewardLastClaimedEpoch < o.CompletedRewardEpoch {
			return reverts.ErrUnclaimedRewards
		}
		if amount == 0 {
			return reverts.ErrInvalidAmount
		}

		if err := s.transfer(o.TokenMint, owner, PoolVaults(poolAddr).Staked, amount, reverts.ErrInsufficientBalance); err != nil {
			return err
		}
		shares, err := p.StakeTokens(record, amount)
		if err != nil {
			return err
		}

		operator := record
		if !isOperator {
			if operator, err = s.positionService.GetByID(p.OperatorStakingRecord); err != nil {
				return err
			}
		}
		if err := checkOperatorStake(o, p, operator); err != nil {
			return err
		}

		if err := s.poolService.Update(p); err != nil {
			return err
		}
		if err := s.positionService.Update(record); err != nil {
			return err
		}
		return s.emit(events.Staked, poolAddr, owner, currentEpoch(o), &events.StakeData{
			Record:        record.ID(),
			TokenAmount:   amount,
			SharesCreated: shares,
			TotalStaked:   p.TotalStakedAmount,
			TotalShares:   p.TotalShares,
		})
	})
}

// Unstake burns shares and starts the cooldown of their tokens. Repeated unstakes add to the
// pending amount and restart the cooldown.
func (s *Staker) Unstake(owner, poolAddr pubkey.Address, shares uint64) error {
	return s.run("unstake", []any{"owner", owner, "pool", poolAddr, "shares", shares}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if o.IsWithdrawalHalted {
			return reverts.ErrWithdrawalsHalted
		}
		p, record, err := s.loadPoolRecord(poolAddr, owner)
		if err != nil {
			return err
		}
		isOperator := p.IsOperator(record.ID())
		if isOperator && p.IsHalted() {
			return reverts.ErrOperatorPoolHalted
		}
		if err := p.CheckUnclaimedRewards(o.CompletedRewardEpoch); err != nil {
			return err
		}
		if shares == 0 {
			return reverts.ErrInvalidAmount
		}
		if shares > record.Shares {
			return reverts.ErrInsufficientShares
		}
		closedAt, closed := p.ClosedAtEpoch.Get()
		if isOperator && closed && o.CompletedRewardEpoch < closedAt {
			return errors.WithMessagef(reverts.ErrUnstakingNotAllowed, "pool closes at epoch %d", closedAt)
		}

		tokens, err := p.UnstakeTokens(record, shares)
		if err != nil {
			return err
		}
		if record.TokensUnstakeAmount, err = checked.Add(record.TokensUnstakeAmount, tokens); err != nil {
			return err
		}
		if record.UnstakeAtTimestamp, err = checked.Add(s.clock.Now(), o.UnstakeDelay(isOperator)); err != nil {
			return err
		}
		if isOperator && !closed {
			if err := checkOperatorStake(o, p, record); err != nil {
				return err
			}
		}

		if err := s.poolService.Update(p); err != nil {
			return err
		}
		if err := s.positionService.Update(record); err != nil {
			return err
		}
		return s.emit(events.Unstaked, poolAddr, owner, currentEpoch(o), &events.UnstakeData{
			Record:      record.ID(),
			Shares:      shares,
			TokenAmount: tokens,
			UnstakeAt:   record.UnstakeAtTimestamp,
			TotalStaked: p.TotalStakedAmount,
			TotalShares: p.TotalShares,
		})
	})
}

// CancelUnstake puts the cooling tokens back at stake at the current ratio.
func (s *Staker) CancelUnstake(owner, poolAddr pubkey.Address) error {
	return s.run("cancel_unstake", []any{"owner", owner, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		p, record, err := s.loadPoolRecord(poolAddr, owner)
		if err != nil {
			return err
		}
		if p.IsOperator(record.ID()) && p.IsHalted() {
			return reverts.ErrOperatorPoolHalted
		}
		if !record.IsCooling() {
			return reverts.ErrNoTokensToClaim
		}
		if err := p.CheckUnclaimedRewards(o.CompletedRewardEpoch); err != nil {
			return err
		}

		tokens := record.TokensUnstakeAmount
		if p.TotalUnstaking, err = checked.Sub(p.TotalUnstaking, tokens); err != nil {
			return err
		}
		shares, err := p.StakeTokens(record, tokens)
		if err != nil {
			return err
		}
		record.TokensUnstakeAmount = 0
		record.UnstakeAtTimestamp = 0

		if err := s.poolService.Update(p); err != nil {
			return err
		}
		if err := s.positionService.Update(record); err != nil {
			return err
		}
		return s.emit(events.UnstakeCancelled, poolAddr, owner, currentEpoch(o), &events.CancelUnstakeData{
			Record:        record.ID(),
			TokenAmount:   tokens,
			SharesCreated: shares,
		})
	})
}

// ClaimUnstake pays the cooled tokens out of the staked vault to owner's wallet.
func (s *Staker) ClaimUnstake(owner, poolAddr pubkey.Address) error {
	return s.run("claim_unstake", []any{"owner", owner, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if o.IsWithdrawalHalted {
			return reverts.ErrWithdrawalsHalted
		}
		p, record, err := s.loadPoolRecord(poolAddr, owner)
		if err != nil {
			return err
		}
		isOperator := p.IsOperator(record.ID())
		if isOperator && p.IsHalted() {
			return reverts.ErrOperatorPoolHalted
		}
		if err := p.CheckUnclaimedRewards(o.CompletedRewardEpoch); err != nil {
			return err
		}
		if now := s.clock.Now(); now < record.UnstakeAtTimestamp {
			return errors.WithMessagef(reverts.ErrPendingDelay, "claimable at %d", record.UnstakeAtTimestamp)
		}
		tokens := record.TokensUnstakeAmount
		if tokens == 0 {
			return reverts.ErrNoTokensToClaim
		}

		if err := s.transfer(o.TokenMint, PoolVaults(poolAddr).Staked, owner, tokens, reverts.ErrInsufficientVaultBalance); err != nil {
			return err
		}
		if p.TotalUnstaking, err = checked.Sub(p.TotalUnstaking, tokens); err != nil {
			return err
		}
		record.TokensUnstakeAmount = 0
		record.UnstakeAtTimestamp = 0
		if isOperator && !p.IsClosed() {
			if err := checkOperatorStake(o, p, record); err != nil {
				return err
			}
		}

		if err := s.poolService.Update(p); err != nil {
			return err
		}
		if err := s.positionService.Update(record); err != nil {
			return err
		}
		return s.emit(events.UnstakeClaimed, poolAddr, owner, currentEpoch(o), &events.ClaimUnstakeData{
			Record:      record.ID(),
			TokenAmount: tokens,
		})
	})
}

// ClaimUsdcEarnings settles the record against the pool index and pays its USDC earnings out
// of the pool's delegator vault to owner's wallet.
func (s *Staker) ClaimUsdcEarnings(owner, poolAddr pubkey.Address) (uint64, error) {
	var claimable uint64
	err := s.run("claim_usdc_earnings", []any{"owner", owner, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if o.IsWithdrawalHalted {
			return reverts.ErrWithdrawalsHalted
		}
		p, record, err := s.loadPoolRecord(poolAddr, owner)
		if err != nil {
			return err
		}
		if p.IsOperator(record.ID()) && p.IsHalted() {
			return reverts.ErrOperatorPoolHalted
		}
		if err := p.CheckUnclaimedRewards(o.CompletedRewardEpoch); err != nil {
			return err
		}
		if err := record.SettleUsdc(p.Index()); err != nil {
			return err
		}
		claimable = record.AccruedUsdcEarnings
		if claimable == 0 {
			return reverts.ErrNoUsdcEarningsToClaim
		}

		vault := PoolVaults(poolAddr).DelegatorUsdc
		balance, err := s.ledger.Balance(o.UsdcMint, vault)
		if err != nil {
			return err
		}
		if balance < claimable {
			return errors.WithMessagef(reverts.ErrInsufficientPoolUsdcVaultBalance, "vault holds %d, claim %d", balance, claimable)
		}
		if err := s.transfer(o.UsdcMint, vault, owner, claimable, reverts.ErrInsufficientPoolUsdcVaultBalance); err != nil {
			return err
		}
		record.AccruedUsdcEarnings = 0

		if err := s.positionService.Update(record); err != nil {
			return err
		}
		return s.emit(events.UsdcEarningsClaimed, poolAddr, owner, currentEpoch(o), &events.ClaimUsdcData{
			Record:      record.ID(),
			Destination: owner,
			UsdcAmount:  claimable,
		})
	})
	if err != nil {
		return 0, err
	}
	return claimable, nil
}
