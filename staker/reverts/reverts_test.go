// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(Validation, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, Validation, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestKindOf(t *testing.T) {
	wrapped := errors.WithMessage(ErrSlashingDelayNotMet, "elapsed 3600s")
	assert.True(t, errors.Is(wrapped, ErrSlashingDelayNotMet))
	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, Validation, KindOf(wrapped))

	assert.Equal(t, Authorization, KindOf(ErrInvalidHaltAuthority))
	assert.Equal(t, StateConsistency, KindOf(ErrUnclaimedRewards))
	assert.Equal(t, Arithmetic, KindOf(ErrOverflow))
	assert.Equal(t, Solvency, KindOf(ErrInsufficientRewards))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))

	assert.Equal(t, "solvency", Solvency.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
