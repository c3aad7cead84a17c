// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/reverts"
)

var (
	slotPools   = pubkey.BytesToBytes32([]byte("operator-pools"))
	slotPoolIDs = pubkey.BytesToBytes32([]byte("operator-pool-ids"))
)

type Service struct {
	pools *accounts.Mapping[pubkey.Address, *Pool]
	ids   *accounts.Mapping[accounts.Uint64Key, pubkey.Address]
}

func NewService(sctx *accounts.Context) *Service {
	return &Service{
		pools: accounts.NewMapping[pubkey.Address, *Pool](sctx, slotPools),
		ids:   accounts.NewMapping[accounts.Uint64Key, pubkey.Address](sctx, slotPoolIDs),
	}
}

// Get returns the pool at addr, or ErrPoolNotFound.
func (s *Service) Get(addr pubkey.Address) (*Pool, error) {
	p, err := s.pools.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get operator pool")
	}
	if p == nil {
		return nil, reverts.ErrPoolNotFound
	}
	return p, nil
}

func (s *Service) Add(p *Pool) error {
	if err := s.pools.Insert(p.Address(), p); err != nil {
		if errors.Is(err, accounts.ErrExists) {
			return reverts.ErrPoolExists
		}
		return errors.Wrap(err, "failed to add operator pool")
	}
	if err := s.ids.Insert(accounts.Uint64Key(p.PoolID), p.Address()); err != nil {
		return errors.Wrap(err, "failed to index operator pool")
	}
	return nil
}

// AddressByID returns the address of the pool numbered id, or ErrPoolNotFound.
func (s *Service) AddressByID(id uint64) (pubkey.Address, error) {
	addr, err := s.ids.Get(accounts.Uint64Key(id))
	if err != nil {
		return pubkey.Address{}, errors.Wrap(err, "failed to get operator pool id")
	}
	if addr.IsZero() {
		return pubkey.Address{}, reverts.ErrPoolNotFound
	}
	return addr, nil
}

func (s *Service) Update(p *Pool) error {
	if err := s.pools.Update(p.Address(), p); err != nil {
		return errors.Wrap(err, "failed to update operator pool")
	}
	return nil
}
