// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/checked"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/pool"
	"github.com/inference-net/staking/staker/position"
	"github.com/inference-net/staking/staker/reverts"
)

// PoolArgs configure a new operator pool.
type PoolArgs struct {
	RewardCommissionRateBps uint16
	UsdcCommissionRateBps   uint16
	AllowDelegation         bool
	AutoStakeFees           bool
}

// PoolUpdate changes the non-nil settings. A pending rate set to None cancels a previously
// scheduled change.
type PoolUpdate struct {
	NewRewardCommissionRateBps *accounts.Optional[uint16]
	NewUsdcCommissionRateBps   *accounts.Optional[uint16]
	AllowDelegation            *bool
	AutoStakeFees              *bool
}

func validateRate(rate accounts.Optional[uint16]) error {
	if v, ok := rate.Get(); ok && v > pool.MaxCommissionRateBps {
		return reverts.ErrInvalidCommissionRate
	}
	return nil
}

// CreateOperatorPool registers a pool administered by admin, together with admin's own
// operator staking record. The registration fee is charged from admin's token wallet.
func (s *Staker) CreateOperatorPool(admin pubkey.Address, args *PoolArgs) (pubkey.Address, error) {
	poolAddr := pool.Address(admin)
	err := s.run("create_operator_pool", []any{"admin", admin, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if !o.AllowPoolCreation {
			return reverts.ErrPoolCreationDisabled
		}
		if args.RewardCommissionRateBps > pool.MaxCommissionRateBps || args.UsdcCommissionRateBps > pool.MaxCommissionRateBps {
			return reverts.ErrInvalidCommissionRate
		}
		if o.OperatorPoolRegistrationFee > 0 {
			if err := s.transfer(o.TokenMint, admin, o.RegistrationFeePayoutWallet, o.OperatorPoolRegistrationFee, reverts.ErrInsufficientBalance); err != nil {
				return err
			}
		}

		if o.TotalPools, err = checked.Add(o.TotalPools, 1); err != nil {
			return err
		}
		lastClaimed := o.CompletedRewardEpoch
		if o.IsEpochFinalizing {
			lastClaimed++
		}
		operator := position.New(admin, poolAddr, new(uint256.Int))
		p := &pool.Pool{
			PoolID:                  o.TotalPools,
			InitialPoolAdmin:        admin,
			Admin:                   admin,
			OperatorStakingRecord:   operator.ID(),
			RewardCommissionRateBps: args.RewardCommissionRateBps,
			UsdcCommissionRateBps:   args.UsdcCommissionRateBps,
			AllowDelegation:         args.AllowDelegation,
			AutoStakeFees:           args.AutoStakeFees,
			JoinedAtEpoch:           currentEpoch(o),
			RewardLastClaimedEpoch:  lastClaimed,
			CumulativeUsdcPerShare:  new(uint256.Int),
		}
		if err := s.poolService.Add(p); err != nil {
			return err
		}
		if err := s.positionService.Add(operator); err != nil {
			return err
		}
		if err := s.overviewService.Set(o); err != nil {
			return err
		}
		return s.emit(events.PoolCreated, poolAddr, admin, currentEpoch(o), p)
	})
	if err != nil {
		return pubkey.Address{}, err
	}
	return poolAddr, nil
}

// UpdateOperatorPool schedules commission changes, which take effect at the pool's next
// flush, and toggles delegation and fee auto-staking.
func (s *Staker) UpdateOperatorPool(signer, poolAddr pubkey.Address, u *PoolUpdate) error {
	return s.run("update_operator_pool", []any{"signer", signer, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		if signer != p.Admin {
			return reverts.ErrInvalidAuthority
		}
		if p.IsClosed() {
			return reverts.ErrClosedPool
		}

		if u.NewRewardCommissionRateBps != nil {
			if err := validateRate(*u.NewRewardCommissionRateBps); err != nil {
				return err
			}
			p.NewRewardCommissionRateBps = *u.NewRewardCommissionRateBps
		}
		if u.NewUsdcCommissionRateBps != nil {
			if err := validateRate(*u.NewUsdcCommissionRateBps); err != nil {
				return err
			}
			p.NewUsdcCommissionRateBps = *u.NewUsdcCommissionRateBps
		}
		if u.AllowDelegation != nil {
			p.AllowDelegation = *u.AllowDelegation
		}
		if u.AutoStakeFees != nil {
			p.AutoStakeFees = *u.AutoStakeFees
		}

		if err := s.poolService.Update(p); err != nil {
			return err
		}
		return s.emit(events.PoolUpdated, poolAddr, signer, currentEpoch(o), p)
	})
}

// ChangeOperatorAdmin hands the pool to newAdmin. The pool address never changes.
func (s *Staker) ChangeOperatorAdmin(signer, poolAddr, newAdmin pubkey.Address) error {
	return s.run("change_operator_admin", []any{"signer", signer, "pool", poolAddr, "admin", newAdmin}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		if signer != p.Admin {
			return reverts.ErrInvalidAuthority
		}

		old := p.Admin
		p.Admin = newAdmin
		if err := s.poolService.Update(p); err != nil {
			return err
		}
		return s.emit(events.AdminChanged, poolAddr, signer, currentEpoch(o), &events.AdminChangedData{
			OldAdmin: old,
			NewAdmin: newAdmin,
		})
	})
}

// ChangeOperatorStakingRecord designates newOwner's record in the pool as the operator record.
func (s *Staker) ChangeOperatorStakingRecord(signer, poolAddr, newOwner pubkey.Address) error {
	return s.run("change_operator_staking_record", []any{"signer", signer, "pool", poolAddr, "owner", newOwner}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		p, record, err := s.loadPoolRecord(poolAddr, newOwner)
		if err != nil {
			return err
		}
		if signer != p.Admin {
			return reverts.ErrInvalidAuthority
		}
		if err := checkOperatorStake(o, p, record); err != nil {
			return err
		}

		old := p.OperatorStakingRecord
		p.OperatorStakingRecord = record.ID()
		if err := s.poolService.Update(p); err != nil {
			return err
		}
		return s.emit(events.OperatorRecordChanged, poolAddr, signer, currentEpoch(o), &events.OperatorRecordChangedData{
			OldRecord: old,
			NewRecord: record.ID(),
		})
	})
}

// CloseOperatorPool schedules the pool's closure after the epoch in progress. The pool keeps
// accruing rewards up to and including the closing epoch.
func (s *Staker) CloseOperatorPool(signer, poolAddr pubkey.Address) error {
	return s.run("close_operator_pool", []any{"signer", signer, "pool", poolAddr}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		if signer != p.Admin {
			return reverts.ErrInvalidAuthority
		}
		if p.IsHalted() {
			return reverts.ErrOperatorPoolHalted
		}
		if p.IsClosed() {
			return reverts.ErrClosedPool
		}

		closedAt := o.CompletedRewardEpoch + 1
		if o.IsEpochFinalizing {
			closedAt++
		}
		p.ClosedAtEpoch = accounts.Some(closedAt)
		if err := s.poolService.Update(p); err != nil {
			return err
		}
		return s.emit(events.PoolClosed, poolAddr, signer, currentEpoch(o), &events.PoolClosedData{ClosedAtEpoch: closedAt})
	})
}

// SetHaltStatus halts or resumes a pool. A halt starts the slashing delay.
func (s *Staker) SetHaltStatus(signer, poolAddr pubkey.Address, halted bool) error {
	return s.run("set_halt_status", []any{"signer", signer, "pool", poolAddr, "halted", halted}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if !o.IsHaltAuthority(signer) {
			return reverts.ErrInvalidHaltAuthority
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}

		data := &events.HaltData{IsHalted: halted}
		if halted {
			if p.IsHalted() {
				return reverts.ErrOperatorPoolHalted
			}
			data.HaltedAt = s.clock.Now()
			p.HaltedAtTimestamp = accounts.Some(data.HaltedAt)
		} else {
			if !p.IsHalted() {
				return reverts.ErrOperatorPoolNotHalted
			}
			p.HaltedAtTimestamp = accounts.None[uint64]()
		}
		if err := s.poolService.Update(p); err != nil {
			return err
		}
		return s.emit(events.HaltStatusSet, poolAddr, signer, currentEpoch(o), data)
	})
}

// WithdrawOperatorRewardCommission sends the pool's whole token commission vault to dest.
func (s *Staker) WithdrawOperatorRewardCommission(signer, poolAddr, dest pubkey.Address) (uint64, error) {
	return s.withdrawCommission("withdraw_operator_reward_commission", signer, poolAddr, dest, false)
}

// WithdrawOperatorUsdcCommission sends the pool's whole USDC commission vault to dest.
func (s *Staker) WithdrawOperatorUsdcCommission(signer, poolAddr, dest pubkey.Address) (uint64, error) {
	return s.withdrawCommission("withdraw_operator_usdc_commission", signer, poolAddr, dest, true)
}

func (s *Staker) withdrawCommission(op string, signer, poolAddr, dest pubkey.Address, usdc bool) (uint64, error) {
	var amount uint64
	err := s.run(op, []any{"signer", signer, "pool", poolAddr, "dest", dest}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if o.IsWithdrawalHalted {
			return reverts.ErrWithdrawalsHalted
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		if signer != p.Admin {
			return reverts.ErrInvalidAuthority
		}
		if p.IsHalted() {
			return reverts.ErrOperatorPoolHalted
		}

		mint, vault, typ := o.TokenMint, PoolVaults(poolAddr).RewardCommission, events.RewardCommissionWithdrawn
		if usdc {
			mint, vault, typ = o.UsdcMint, PoolVaults(poolAddr).UsdcCommission, events.UsdcCommissionWithdrawn
		}
		if amount, err = s.ledger.Balance(mint, vault); err != nil {
			return err
		}
		if err := s.transfer(mint, vault, dest, amount, reverts.ErrInsufficientVaultBalance); err != nil {
			return err
		}
		return s.emit(typ, poolAddr, signer, currentEpoch(o), &events.WithdrawData{Destination: dest, Amount: amount})
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// SweepClosedPoolUsdcDust moves the rounding remainder of an emptied, closed pool's
// delegator USDC vault to dest and closes the vault.
func (s *Staker) SweepClosedPoolUsdcDust(signer, poolAddr, dest pubkey.Address) (uint64, error) {
	var amount uint64
	err := s.run("sweep_closed_pool_usdc_dust", []any{"signer", signer, "pool", poolAddr, "dest", dest}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if signer != o.Admin {
			return reverts.ErrInvalidAuthority
		}
		p, err := s.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		closedAt, ok := p.ClosedAtEpoch.Get()
		if !ok {
			return reverts.ErrPoolNotClosed
		}
		if o.CompletedRewardEpoch <= closedAt {
			return errors.WithMessagef(reverts.ErrPoolClosedEpochInvalid, "closed at %d, completed %d", closedAt, o.CompletedRewardEpoch)
		}
		if !p.IsEmpty() {
			return reverts.ErrPoolIsNotEmpty
		}

		vault := PoolVaults(poolAddr).DelegatorUsdc
		if amount, err = s.ledger.Balance(o.UsdcMint, vault); err != nil {
			return err
		}
		if err := s.transfer(o.UsdcMint, vault, dest, amount, reverts.ErrInsufficientPoolUsdcVaultBalance); err != nil {
			return err
		}
		if err := s.ledger.CloseAccount(o.UsdcMint, vault); err != nil {
			return errors.Wrap(err, "close vault")
		}
		return s.emit(events.ClosedPoolUsdcDustSwept, poolAddr, signer, currentEpoch(o), &events.WithdrawData{Destination: dest, Amount: amount})
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}
