// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"github.com/inference-net/staking/clock"
	"github.com/inference-net/staking/ledger"
	"github.com/inference-net/staking/staker"
	"github.com/inference-net/staking/state"
)

// StakerReader returns a staker over the latest committed state. Handlers create one per
// request and never commit its changes.
type StakerReader func() *staker.Staker

func NewStakerReader(stater *state.Stater, emissions staker.Emissions) StakerReader {
	return func() *staker.Staker {
		st := stater.NewState()
		return staker.New(st, ledger.New(st), clock.System{}, emissions, nil)
	}
}
