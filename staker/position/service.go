// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/reverts"
)

var slotPositions = pubkey.BytesToBytes32([]byte("staking-records"))

type Service struct {
	positions *accounts.Mapping[pubkey.Address, *Position]
}

func NewService(sctx *accounts.Context) *Service {
	return &Service{
		positions: accounts.NewMapping[pubkey.Address, *Position](sctx, slotPositions),
	}
}

// Get returns the position of owner in pool, or ErrRecordNotFound.
func (s *Service) Get(pool, owner pubkey.Address) (*Position, error) {
	return s.GetByID(ID(pool, owner))
}

func (s *Service) GetByID(id pubkey.Address) (*Position, error) {
	p, err := s.positions.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staking record")
	}
	if p == nil {
		return nil, reverts.ErrRecordNotFound
	}
	return p, nil
}

func (s *Service) Add(p *Position) error {
	if err := s.positions.Insert(p.ID(), p); err != nil {
		if errors.Is(err, accounts.ErrExists) {
			return reverts.ErrRecordExists
		}
		return errors.Wrap(err, "failed to add staking record")
	}
	return nil
}

func (s *Service) Update(p *Position) error {
	if err := s.positions.Update(p.ID(), p); err != nil {
		return errors.Wrap(err, "failed to update staking record")
	}
	return nil
}

func (s *Service) Remove(p *Position) {
	s.positions.Delete(p.ID())
}
