// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/inference-net/staking/pubkey"
)

type StakeData struct {
	Record        pubkey.Address `json:"record"`
	TokenAmount   uint64         `json:"tokenAmount"`
	SharesCreated uint64         `json:"sharesCreated"`
	TotalStaked   uint64         `json:"totalStakedAmount"`
	TotalShares   uint64         `json:"totalShares"`
}

type UnstakeData struct {
	Record      pubkey.Address `json:"record"`
	Shares      uint64         `json:"sharesUnstaked"`
	TokenAmount uint64         `json:"tokenAmount"`
	UnstakeAt   uint64         `json:"unstakeAt"`
	TotalStaked uint64         `json:"totalStakedAmount"`
	TotalShares uint64         `json:"totalShares"`
}

type CancelUnstakeData struct {
	Record        pubkey.Address `json:"record"`
	TokenAmount   uint64         `json:"tokenAmount"`
	SharesCreated uint64         `json:"sharesCreated"`
}

type ClaimUnstakeData struct {
	Record      pubkey.Address `json:"record"`
	TokenAmount uint64         `json:"tokenAmount"`
}

type ClaimUsdcData struct {
	Record      pubkey.Address `json:"record"`
	Destination pubkey.Address `json:"destination"`
	UsdcAmount  uint64         `json:"usdcAmount"`
}

type RewardRecordData struct {
	Epoch           uint64           `json:"epoch"`
	MerkleRoots     []pubkey.Bytes32 `json:"merkleRoots"`
	TotalRewards    uint64           `json:"totalRewards"`
	TotalUsdcPayout uint64           `json:"totalUsdcPayout"`
}

type EpochData struct {
	Epoch        uint64 `json:"epoch"`
	IsFinalizing bool   `json:"isFinalizing"`
}

type AccrueRewardData struct {
	Epoch                   uint64 `json:"epoch"`
	RewardAmount            uint64 `json:"rewardAmount"`
	UsdcAmount              uint64 `json:"usdcAmount"`
	RewardCommission        uint64 `json:"rewardCommission"`
	DelegatorRewards        uint64 `json:"delegatorRewards"`
	UsdcCommission          uint64 `json:"usdcCommission"`
	DelegatorUsdc           uint64 `json:"delegatorUsdc"`
	Flushed                 bool   `json:"flushed"`
	TotalRewardsTransferred uint64 `json:"totalRewardsTransferred"`
	TotalUsdcTransferred    uint64 `json:"totalUsdcTransferred"`
}

type BypassData struct {
	SkippedEpoch uint64 `json:"skippedEpoch"`
}

type HaltData struct {
	IsHalted bool   `json:"isHalted"`
	HaltedAt uint64 `json:"haltedAt"`
}

type SlashData struct {
	Record                      pubkey.Address `json:"operatorStakingRecord"`
	Destination                 pubkey.Address `json:"destination"`
	DestinationUsdc             pubkey.Address `json:"destinationUsdc"`
	SharesSlashed               uint64         `json:"sharesSlashed"`
	TokenAmountSlashed          uint64         `json:"tokenAmountSlashed"`
	UsdcConfiscated             uint64         `json:"usdcConfiscated"`
	RewardCommissionConfiscated uint64         `json:"rewardCommissionConfiscated"`
	UsdcCommissionConfiscated   uint64         `json:"usdcCommissionConfiscated"`
}

type PoolClosedData struct {
	ClosedAtEpoch uint64 `json:"closedAtEpoch"`
}

type AdminChangedData struct {
	OldAdmin pubkey.Address `json:"oldAdmin"`
	NewAdmin pubkey.Address `json:"newAdmin"`
}

type OperatorRecordChangedData struct {
	OldRecord pubkey.Address `json:"oldRecord"`
	NewRecord pubkey.Address `json:"newRecord"`
}

type WithdrawData struct {
	Destination pubkey.Address `json:"destination"`
	Amount      uint64         `json:"amount"`
}

type RecordData struct {
	Record pubkey.Address `json:"record"`
}
