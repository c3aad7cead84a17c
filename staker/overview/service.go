// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package overview

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/reverts"
)

var slotOverview = pubkey.BytesToBytes32([]byte("pool-overview"))

type Service struct {
	overview *accounts.Raw[*Overview]
}

func NewService(sctx *accounts.Context) *Service {
	return &Service{
		overview: accounts.NewRaw[*Overview](sctx, slotOverview),
	}
}

// Get returns the overview, or ErrOverviewNotFound before it is created.
func (s *Service) Get() (*Overview, error) {
	o, err := s.overview.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool overview")
	}
	if o == nil {
		return nil, reverts.ErrOverviewNotFound
	}
	return o, nil
}

func (s *Service) Set(o *Overview) error {
	if err := s.overview.Upsert(o); err != nil {
		return errors.Wrap(err, "failed to set pool overview")
	}
	return nil
}
