// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/reverts"
)

var slotRewardRecords = pubkey.BytesToBytes32([]byte("reward-records"))

type Service struct {
	records *accounts.Mapping[accounts.Uint64Key, *RewardRecord]
}

func NewService(sctx *accounts.Context) *Service {
	return &Service{
		records: accounts.NewMapping[accounts.Uint64Key, *RewardRecord](sctx, slotRewardRecords),
	}
}

// Get returns the record of epoch, or ErrRewardRecordNotFound.
func (s *Service) Get(epoch uint64) (*RewardRecord, error) {
	r, err := s.records.Get(accounts.Uint64Key(epoch))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward record")
	}
	if r == nil {
		return nil, reverts.ErrRewardRecordNotFound
	}
	return r, nil
}

func (s *Service) Exists(epoch uint64) (bool, error) {
	return s.records.Exists(accounts.Uint64Key(epoch))
}

func (s *Service) Add(r *RewardRecord) error {
	if err := s.records.Insert(accounts.Uint64Key(r.Epoch), r); err != nil {
		return errors.Wrap(err, "failed to add reward record")
	}
	return nil
}

func (s *Service) Update(r *RewardRecord) error {
	if err := s.records.Update(accounts.Uint64Key(r.Epoch), r); err != nil {
		return errors.Wrap(err, "failed to update reward record")
	}
	return nil
}
