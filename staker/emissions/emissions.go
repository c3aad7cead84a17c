// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emissions

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/staker/reverts"
)

// EpochsPerSuperEpoch is the number of epochs sharing one schedule entry.
const EpochsPerSuperEpoch uint64 = 300

// DefaultTotals is the token issuance per super epoch, in base units with 9 decimals.
var DefaultTotals = []uint64{
	500_000_000_000_000_000,
	400_000_000_000_000_000,
	300_000_000_000_000_000,
	200_000_000_000_000_000,
	100_000_000_000_000_000,
}

// Schedule maps an epoch to its expected token issuance. Each super epoch total is split
// evenly over its epochs and the remainder goes, one unit each, to the earliest epochs.
type Schedule struct {
	epochsPerSuperEpoch uint64
	totals              []uint64
}

func New(epochsPerSuperEpoch uint64, totals []uint64) (*Schedule, error) {
	if epochsPerSuperEpoch == 0 {
		return nil, errors.New("epochs per super epoch must be positive")
	}
	return &Schedule{
		epochsPerSuperEpoch: epochsPerSuperEpoch,
		totals:              append([]uint64(nil), totals...),
	}, nil
}

// Default returns the protocol schedule.
func Default() *Schedule {
	s, _ := New(EpochsPerSuperEpoch, DefaultTotals)
	return s
}

// ExpectedForEpoch returns the issuance of the given epoch. Epochs are 1-based. Epochs past
// the end of the schedule issue nothing.
func (s *Schedule) ExpectedForEpoch(epoch uint64) (uint64, error) {
	if epoch < 1 {
		return 0, reverts.ErrInvalidEpoch
	}
	superEpoch := (epoch - 1) / s.epochsPerSuperEpoch
	if superEpoch >= uint64(len(s.totals)) {
		return 0, nil
	}
	total := s.totals[superEpoch]
	base := total / s.epochsPerSuperEpoch
	dust := total % s.epochsPerSuperEpoch

	if (epoch-1)%s.epochsPerSuperEpoch < dust {
		return base + 1, nil
	}
	return base, nil
}

// SuperEpochTotal sums the issuance of every epoch in the given 0-based super epoch.
func (s *Schedule) SuperEpochTotal(superEpoch uint64) uint64 {
	if superEpoch >= uint64(len(s.totals)) {
		return 0
	}
	return s.totals[superEpoch]
}
