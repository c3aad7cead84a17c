// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/merkle"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/reverts"
)

// MaxMerkleRoots bounds the distribution trees of one epoch.
const MaxMerkleRoots = 5

// RewardRecord is the published distribution of a completed epoch. It is never deleted.
type RewardRecord struct {
	Epoch            uint64           `json:"epoch"`
	MerkleRoots      []pubkey.Bytes32 `json:"merkleRoots"`
	TotalRewards     uint64           `json:"totalRewards"`
	TotalUsdcPayout  uint64           `json:"totalUsdcPayout"`
	EpochFinalizedAt uint64           `json:"epochFinalizedAt"`
}

// VerifyProof checks that leaf is part of the tree under MerkleRoots[rootIndex].
func (r *RewardRecord) VerifyProof(rootIndex int, leaf merkle.Leaf, proof *merkle.Proof) error {
	if rootIndex < 0 || rootIndex >= len(r.MerkleRoots) {
		return reverts.ErrInvalidMerkleRootIndex
	}
	if err := merkle.Verify(r.MerkleRoots[rootIndex], leaf, proof); err != nil {
		return errors.WithMessage(reverts.ErrInvalidProof, err.Error())
	}
	return nil
}

// ValidateRoots checks the root count bound.
func ValidateRoots(roots []pubkey.Bytes32) error {
	if len(roots) > MaxMerkleRoots {
		return reverts.ErrTooManyMerkleRoots
	}
	return nil
}
