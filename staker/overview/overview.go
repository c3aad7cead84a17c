// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package overview

import (
	"slices"

	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/reverts"
)

const (
	// MaxAuthorities bounds each authority list.
	MaxAuthorities = 5
	// MinSlashingDelaySeconds is the protocol minimum between halting and slashing.
	MinSlashingDelaySeconds uint64 = 86_400
)

// Overview is the protocol wide singleton.
type Overview struct {
	Admin                         pubkey.Address   `json:"admin"`
	TokenMint                     pubkey.Address   `json:"tokenMint"`
	UsdcMint                      pubkey.Address   `json:"usdcMint"`
	TotalPools                    uint64           `json:"totalPools"`
	CompletedRewardEpoch          uint64           `json:"completedRewardEpoch"`
	IsEpochFinalizing             bool             `json:"isEpochFinalizing"`
	UnclaimedRewards              uint64           `json:"unclaimedRewards"`
	UnclaimedUsdc                 uint64           `json:"unclaimedUsdc"`
	MinOperatorTokenStake         uint64           `json:"minOperatorTokenStake"`
	OperatorUnstakeDelaySeconds   uint64           `json:"operatorUnstakeDelaySeconds"`
	DelegatorUnstakeDelaySeconds  uint64           `json:"delegatorUnstakeDelaySeconds"`
	SlashingDelaySeconds          uint64           `json:"slashingDelaySeconds"`
	AllowPoolCreation             bool             `json:"allowPoolCreation"`
	IsStakingHalted               bool             `json:"isStakingHalted"`
	IsWithdrawalHalted            bool             `json:"isWithdrawalHalted"`
	IsAccrueRewardHalted          bool             `json:"isAccrueRewardHalted"`
	RewardDistributionAuthorities []pubkey.Address `json:"rewardDistributionAuthorities"`
	HaltAuthorities               []pubkey.Address `json:"haltAuthorities"`
	SlashingAuthorities           []pubkey.Address `json:"slashingAuthorities"`
	OperatorPoolRegistrationFee   uint64           `json:"operatorPoolRegistrationFee"`
	RegistrationFeePayoutWallet   pubkey.Address   `json:"registrationFeePayoutWallet"`
}

func (o *Overview) IsRewardDistributionAuthority(signer pubkey.Address) bool {
	return slices.Contains(o.RewardDistributionAuthorities, signer)
}

func (o *Overview) IsHaltAuthority(signer pubkey.Address) bool {
	return slices.Contains(o.HaltAuthorities, signer)
}

func (o *Overview) IsSlashingAuthority(signer pubkey.Address) bool {
	return slices.Contains(o.SlashingAuthorities, signer)
}

// UnstakeDelay returns the cooldown for an operator or a delegator position.
func (o *Overview) UnstakeDelay(isOperator bool) uint64 {
	if isOperator {
		return o.OperatorUnstakeDelaySeconds
	}
	return o.DelegatorUnstakeDelaySeconds
}

// Validate checks the configurable bounds.
func (o *Overview) Validate() error {
	if o.SlashingDelaySeconds < MinSlashingDelaySeconds {
		return reverts.ErrInvalidSlashingDelay
	}
	for _, list := range [][]pubkey.Address{
		o.RewardDistributionAuthorities,
		o.HaltAuthorities,
		o.SlashingAuthorities,
	} {
		if err := ValidateAuthorities(list); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAuthorities checks an authority list for size and duplicates.
func ValidateAuthorities(list []pubkey.Address) error {
	if len(list) > MaxAuthorities {
		return reverts.ErrTooManyAuthorities
	}
	seen := make(map[pubkey.Address]struct{}, len(list))
	for _, a := range list {
		if _, ok := seen[a]; ok {
			return reverts.ErrDuplicateAuthority
		}
		seen[a] = struct{}{}
	}
	return nil
}
