// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker"
	"github.com/inference-net/staking/staker/pool"
	"github.com/inference-net/staking/staker/position"
)

type JSONPool struct {
	Address pubkey.Address `json:"address"`
	*pool.Pool
	IsHalted bool             `json:"isHalted"`
	IsClosed bool             `json:"isClosed"`
	Balances *staker.Balances `json:"balances,omitempty"`
}

func convertPool(p *pool.Pool) *JSONPool {
	return &JSONPool{
		Address:  p.Address(),
		Pool:     p,
		IsHalted: p.IsHalted(),
		IsClosed: p.IsClosed(),
	}
}

type JSONPoolList struct {
	TotalPools uint64      `json:"totalPools"`
	Pools      []*JSONPool `json:"pools"`
}

// JSONRecord is a staking record with its current token value and claimable USDC.
type JSONRecord struct {
	ID pubkey.Address `json:"id"`
	*position.Position
	IsCooling     bool   `json:"isCooling"`
	TokenValue    uint64 `json:"tokenValue"`
	ClaimableUsdc uint64 `json:"claimableUsdc"`
}
