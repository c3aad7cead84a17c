// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// validation
var (
	ErrStakingHalted               = New(Validation, "staking is halted")
	ErrWithdrawalsHalted           = New(Validation, "withdrawals are halted")
	ErrAccrueRewardHalted          = New(Validation, "reward accrual is halted")
	ErrOperatorPoolHalted          = New(Validation, "operator pool is halted")
	ErrOperatorPoolNotHalted       = New(Validation, "operator pool is not halted")
	ErrClosedPool                  = New(Validation, "operator pool is closed")
	ErrPoolNotClosed               = New(Validation, "operator pool is not closed")
	ErrStakingNotAllowed           = New(Validation, "staking is not allowed")
	ErrUnstakingNotAllowed         = New(Validation, "unstaking is not allowed")
	ErrPoolCreationDisabled        = New(Validation, "pool creation is disabled")
	ErrInvalidCommissionRate       = New(Validation, "commission rate exceeds 10000 bps")
	ErrInvalidAmount               = New(Validation, "invalid amount")
	ErrInvalidSlashSharesAmount    = New(Validation, "invalid slash shares amount")
	ErrInsufficientShares          = New(Validation, "insufficient shares")
	ErrInsufficientBalance         = New(Validation, "insufficient balance")
	ErrMinOperatorTokenStakeNotMet = New(Validation, "min. operator token stake not met")
	ErrPendingDelay                = New(Validation, "unstake delay has not elapsed")
	ErrNoTokensToClaim             = New(Validation, "no tokens to claim")
	ErrNoUsdcEarningsToClaim       = New(Validation, "no usdc earnings to claim")
	ErrSlashingDelayNotMet         = New(Validation, "slashing delay not met")
	ErrInvalidSlashingDelay        = New(Validation, "slashing delay below minimum")
	ErrTooManyAuthorities          = New(Validation, "too many authorities")
	ErrDuplicateAuthority          = New(Validation, "duplicate authority")
	ErrTooManyMerkleRoots          = New(Validation, "too many merkle roots")
	ErrInvalidRewardAmount         = New(Validation, "invalid reward amount")
	ErrInvalidUsdcAmount           = New(Validation, "invalid usdc amount")
	ErrMerkleRootCountChange       = New(Validation, "merkle roots cannot change between empty and non-empty")
	ErrInvalidEpoch                = New(Validation, "invalid epoch")
)

// authorization
var (
	ErrInvalidAuthority                   = New(Authorization, "invalid authority")
	ErrInvalidRewardDistributionAuthority = New(Authorization, "invalid reward distribution authority")
	ErrInvalidHaltAuthority               = New(Authorization, "invalid halt authority")
	ErrInvalidSlashingAuthority           = New(Authorization, "invalid slashing authority")
)

// state consistency
var (
	ErrOverviewNotFound             = New(StateConsistency, "pool overview not found")
	ErrOverviewExists               = New(StateConsistency, "pool overview already exists")
	ErrPoolNotFound                 = New(StateConsistency, "operator pool not found")
	ErrPoolExists                   = New(StateConsistency, "operator pool already exists")
	ErrRecordNotFound               = New(StateConsistency, "staking record not found")
	ErrRecordExists                 = New(StateConsistency, "staking record already exists")
	ErrRewardRecordNotFound         = New(StateConsistency, "reward record not found")
	ErrEpochMismatch                = New(StateConsistency, "epoch does not follow the completed epoch")
	ErrEpochIsFinalizing            = New(StateConsistency, "epoch is finalizing")
	ErrEpochMustBeFinalizing        = New(StateConsistency, "epoch must be finalizing")
	ErrUnclaimedRewards             = New(StateConsistency, "rewards have to be claimed first")
	ErrUnclaimedUsdcEarnings        = New(StateConsistency, "usdc earnings have to be claimed first")
	ErrInvalidProof                 = New(StateConsistency, "invalid merkle proof")
	ErrInvalidMerkleRootIndex       = New(StateConsistency, "merkle root index out of range")
	ErrAccountNotEmpty              = New(StateConsistency, "account is not empty")
	ErrPoolIsNotEmpty               = New(StateConsistency, "operator pool is not empty")
	ErrPoolClosedEpochInvalid       = New(StateConsistency, "closed pool epoch invalid")
	ErrInvalidEmergencyBypassEpoch  = New(StateConsistency, "invalid emergency bypass epoch")
	ErrInvalidOperatorStakingRecord = New(StateConsistency, "staking record does not belong to the pool")
)

// arithmetic
var (
	ErrOverflow       = New(Arithmetic, "arithmetic overflow")
	ErrUnderflow      = New(Arithmetic, "arithmetic underflow")
	ErrDivisionByZero = New(Arithmetic, "division by zero")
)

// solvency
var (
	ErrInsufficientRewards              = New(Solvency, "insufficient reward vault balance")
	ErrInsufficientUsdc                 = New(Solvency, "insufficient usdc vault balance")
	ErrInsufficientPoolUsdcVaultBalance = New(Solvency, "insufficient pool usdc vault balance")
	ErrInsufficientVaultBalance         = New(Solvency, "insufficient vault balance")
)
