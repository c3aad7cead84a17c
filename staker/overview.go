// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/staker/overview"
	"github.com/inference-net/staking/staker/reverts"
)

// OverviewParams configure the protocol at creation.
type OverviewParams struct {
	TokenMint                     pubkey.Address
	UsdcMint                      pubkey.Address
	MinOperatorTokenStake         uint64
	OperatorUnstakeDelaySeconds   uint64
	DelegatorUnstakeDelaySeconds  uint64
	SlashingDelaySeconds          uint64
	AllowPoolCreation             bool
	RewardDistributionAuthorities []pubkey.Address
	HaltAuthorities               []pubkey.Address
	SlashingAuthorities           []pubkey.Address
	OperatorPoolRegistrationFee   uint64
	RegistrationFeePayoutWallet   pubkey.Address
}

// OverviewUpdate changes the non-nil settings.
type OverviewUpdate struct {
	IsStakingHalted              *bool
	IsWithdrawalHalted           *bool
	IsAccrueRewardHalted         *bool
	AllowPoolCreation            *bool
	MinOperatorTokenStake        *uint64
	OperatorUnstakeDelaySeconds  *uint64
	DelegatorUnstakeDelaySeconds *uint64
	SlashingDelaySeconds         *uint64
	OperatorPoolRegistrationFee  *uint64
	RegistrationFeePayoutWallet  *pubkey.Address
}

// AuthoritiesUpdate replaces the admin and the non-nil authority lists. An empty, non-nil
// list clears it.
type AuthoritiesUpdate struct {
	NewAdmin                      *pubkey.Address
	RewardDistributionAuthorities []pubkey.Address
	HaltAuthorities               []pubkey.Address
	SlashingAuthorities           []pubkey.Address
}

// CreatePoolOverview initializes the protocol singleton with admin as its administrator.
func (s *Staker) CreatePoolOverview(admin pubkey.Address, params *OverviewParams) error {
	return s.run("create_pool_overview", []any{"admin", admin}, func() error {
		if _, err := s.overviewService.Get(); err == nil {
			return reverts.ErrOverviewExists
		} else if !errors.Is(err, reverts.ErrOverviewNotFound) {
			return err
		}

		o := &overview.Overview{
			Admin:                         admin,
			TokenMint:                     params.TokenMint,
			UsdcMint:                      params.UsdcMint,
			MinOperatorTokenStake:         params.MinOperatorTokenStake,
			OperatorUnstakeDelaySeconds:   params.OperatorUnstakeDelaySeconds,
			DelegatorUnstakeDelaySeconds:  params.DelegatorUnstakeDelaySeconds,
			SlashingDelaySeconds:          params.SlashingDelaySeconds,
			AllowPoolCreation:             params.AllowPoolCreation,
			RewardDistributionAuthorities: slices.Clone(params.RewardDistributionAuthorities),
			HaltAuthorities:               slices.Clone(params.HaltAuthorities),
			SlashingAuthorities:           slices.Clone(params.SlashingAuthorities),
			OperatorPoolRegistrationFee:   params.OperatorPoolRegistrationFee,
			RegistrationFeePayoutWallet:   params.RegistrationFeePayoutWallet,
		}
		if err := o.Validate(); err != nil {
			return err
		}
		if err := s.overviewService.Set(o); err != nil {
			return err
		}
		return s.emit(events.OverviewCreated, pubkey.Address{}, admin, currentEpoch(o), o)
	})
}

// UpdatePoolOverview changes protocol settings. Only the admin may call it.
func (s *Staker) UpdatePoolOverview(signer pubkey.Address, u *OverviewUpdate) error {
	return s.run("update_pool_overview", []any{"signer", signer}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if signer != o.Admin {
			return reverts.ErrInvalidAuthority
		}

		setBool := func(dst *bool, v *bool) {
			if v != nil {
				*dst = *v
			}
		}
		setUint := func(dst *uint64, v *uint64) {
			if v != nil {
				*dst = *v
			}
		}
		setBool(&o.IsStakingHalted, u.IsStakingHalted)
		setBool(&o.IsWithdrawalHalted, u.IsWithdrawalHalted)
		setBool(&o.IsAccrueRewardHalted, u.IsAccrueRewardHalted)
		setBool(&o.AllowPoolCreation, u.AllowPoolCreation)
		setUint(&o.MinOperatorTokenStake, u.MinOperatorTokenStake)
		setUint(&o.OperatorUnstakeDelaySeconds, u.OperatorUnstakeDelaySeconds)
		setUint(&o.DelegatorUnstakeDelaySeconds, u.DelegatorUnstakeDelaySeconds)
		setUint(&o.SlashingDelaySeconds, u.SlashingDelaySeconds)
		setUint(&o.OperatorPoolRegistrationFee, u.OperatorPoolRegistrationFee)
		if u.RegistrationFeePayoutWallet != nil {
			o.RegistrationFeePayoutWallet = *u.RegistrationFeePayoutWallet
		}

		if err := o.Validate(); err != nil {
			return err
		}
		if err := s.overviewService.Set(o); err != nil {
			return err
		}
		return s.emit(events.OverviewUpdated, pubkey.Address{}, signer, currentEpoch(o), o)
	})
}

// UpdatePoolOverviewAuthorities replaces the admin or the authority lists.
func (s *Staker) UpdatePoolOverviewAuthorities(signer pubkey.Address, u *AuthoritiesUpdate) error {
	return s.run("update_pool_overview_authorities", []any{"signer", signer}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if signer != o.Admin {
			return reverts.ErrInvalidAuthority
		}

		if u.NewAdmin != nil {
			o.Admin = *u.NewAdmin
		}
		if u.RewardDistributionAuthorities != nil {
			o.RewardDistributionAuthorities = slices.Clone(u.RewardDistributionAuthorities)
		}
		if u.HaltAuthorities != nil {
			o.HaltAuthorities = slices.Clone(u.HaltAuthorities)
		}
		if u.SlashingAuthorities != nil {
			o.SlashingAuthorities = slices.Clone(u.SlashingAuthorities)
		}

		if err := o.Validate(); err != nil {
			return err
		}
		if err := s.overviewService.Set(o); err != nil {
			return err
		}
		return s.emit(events.AuthoritiesUpdated, pubkey.Address{}, signer, currentEpoch(o), o)
	})
}

// UpdateIsEpochFinalizing lets the admin force the finalizing flag, e.g. to abort a stuck
// finalization.
func (s *Staker) UpdateIsEpochFinalizing(signer pubkey.Address, finalizing bool) error {
	return s.run("update_is_epoch_finalizing", []any{"signer", signer, "finalizing", finalizing}, func() error {
		o, err := s.overviewService.Get()
		if err != nil {
			return err
		}
		if signer != o.Admin {
			return reverts.ErrInvalidAuthority
		}
		o.IsEpochFinalizing = finalizing
		if err := s.overviewService.Set(o); err != nil {
			return err
		}
		return s.emit(events.EpochFinalizingUpdated, pubkey.Address{}, signer, currentEpoch(o), &events.EpochData{
			Epoch:        currentEpoch(o),
			IsFinalizing: finalizing,
		})
	})
}
