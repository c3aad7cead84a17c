// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/inference-net/staking/pubkey"
)

var (
	// GlobalRewardVault holds the emitted tokens of every published epoch until pools accrue them.
	GlobalRewardVault = pubkey.Derive([]byte("GlobalTokenRewardVault"))
	// GlobalUsdcVault holds the USDC of every published epoch until pools accrue it.
	GlobalUsdcVault = pubkey.Derive([]byte("GlobalUsdcVault"))
)

// Vaults are the ledger owners controlled by one pool.
type Vaults struct {
	Staked           pubkey.Address `json:"staked"`
	RewardCommission pubkey.Address `json:"rewardCommission"`
	UsdcCommission   pubkey.Address `json:"usdcCommission"`
	DelegatorUsdc    pubkey.Address `json:"delegatorUsdc"`
}

// Balances are the ledger balances of a pool's vaults.
type Balances struct {
	Staked           uint64 `json:"staked"`
	RewardCommission uint64 `json:"rewardCommission"`
	UsdcCommission   uint64 `json:"usdcCommission"`
	DelegatorUsdc    uint64 `json:"delegatorUsdc"`
}

func PoolVaults(poolAddr pubkey.Address) *Vaults {
	return &Vaults{
		Staked:           pubkey.Derive([]byte("PoolStakedVault"), poolAddr.Bytes()),
		RewardCommission: pubkey.Derive([]byte("PoolRewardCommissionVault"), poolAddr.Bytes()),
		UsdcCommission:   pubkey.Derive([]byte("PoolUsdcCommissionVault"), poolAddr.Bytes()),
		DelegatorUsdc:    pubkey.Derive([]byte("PoolDelegatorUsdcVault"), poolAddr.Bytes()),
	}
}
