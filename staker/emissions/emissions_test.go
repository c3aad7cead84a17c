// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/staker/reverts"
)

func TestExpectedForEpoch(t *testing.T) {
	s := Default()

	_, err := s.ExpectedForEpoch(0)
	assert.ErrorIs(t, err, reverts.ErrInvalidEpoch)

	base := DefaultTotals[0] / EpochsPerSuperEpoch
	dust := DefaultTotals[0] % EpochsPerSuperEpoch

	first, err := s.ExpectedForEpoch(1)
	require.NoError(t, err)
	if dust > 0 {
		assert.Equal(t, base+1, first)
	} else {
		assert.Equal(t, base, first)
	}

	last, err := s.ExpectedForEpoch(EpochsPerSuperEpoch)
	require.NoError(t, err)
	assert.Equal(t, base, last)

	second, err := s.ExpectedForEpoch(EpochsPerSuperEpoch + 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultTotals[1]/EpochsPerSuperEpoch+boolToUint(DefaultTotals[1]%EpochsPerSuperEpoch > 0), second)

	past, err := s.ExpectedForEpoch(EpochsPerSuperEpoch*uint64(len(DefaultTotals)) + 1)
	require.NoError(t, err)
	assert.Zero(t, past)
}

func TestDustDistribution(t *testing.T) {
	s, err := New(4, []uint64{10, 3})
	require.NoError(t, err)

	expected := []uint64{3, 3, 2, 2, 1, 1, 1, 0, 0}
	for i, want := range expected {
		got, err := s.ExpectedForEpoch(uint64(i + 1))
		require.NoError(t, err)
		assert.Equal(t, want, got, "epoch %d", i+1)
	}
}

func TestSuperEpochSums(t *testing.T) {
	s := Default()
	for se := range uint64(len(DefaultTotals)) {
		var sum uint64
		for i := range EpochsPerSuperEpoch {
			v, err := s.ExpectedForEpoch(se*EpochsPerSuperEpoch + i + 1)
			require.NoError(t, err)
			sum += v
		}
		assert.Equal(t, s.SuperEpochTotal(se), sum)
	}
	assert.Zero(t, s.SuperEpochTotal(uint64(len(DefaultTotals))))

	_, err := New(0, nil)
	assert.Error(t, err)
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
