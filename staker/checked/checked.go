// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package checked provides overflow checked amount arithmetic. Failures are arithmetic reverts.
package checked

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/inference-net/staking/staker/reverts"
)

func Add(a, b uint64) (uint64, error) {
	sum, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, reverts.ErrOverflow
	}
	return sum, nil
}

func Sub(a, b uint64) (uint64, error) {
	diff, underflow := math.SafeSub(a, b)
	if underflow {
		return 0, reverts.ErrUnderflow
	}
	return diff, nil
}

// MulDiv returns floor(a*b/d) computed with a 256-bit intermediate.
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, reverts.ErrDivisionByZero
	}
	res, overflow := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(a),
		uint256.NewInt(b),
		uint256.NewInt(d),
	)
	if overflow || !res.IsUint64() {
		return 0, reverts.ErrOverflow
	}
	return res.Uint64(), nil
}
