// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/staker/checked"
)

const defaultLimit = 50

type Pools struct {
	reader utils.StakerReader
	limit  uint64
}

// New creates the pools resource. limit caps the page size of the list.
func New(reader utils.StakerReader, limit uint64) *Pools {
	if limit == 0 {
		limit = defaultLimit
	}
	return &Pools{reader, limit}
}

func (p *Pools) handleListPools(w http.ResponseWriter, req *http.Request) error {
	offset, err := utils.Uint64Query(req, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := utils.Uint64Query(req, "limit", p.limit)
	if err != nil {
		return err
	}
	if limit > p.limit {
		return utils.BadRequest(errors.Errorf("limit exceeds maximum %d", p.limit))
	}

	s := p.reader()
	o, err := s.Overview()
	if err != nil {
		return utils.StakerError(err)
	}
	list := &JSONPoolList{TotalPools: o.TotalPools, Pools: []*JSONPool{}}
	// pool ids start at 1
	for id := offset + 1; id <= o.TotalPools && uint64(len(list.Pools)) < limit; id++ {
		addr, err := s.PoolAddressByID(id)
		if err != nil {
			return err
		}
		pl, err := s.Pool(addr)
		if err != nil {
			return err
		}
		list.Pools = append(list.Pools, convertPool(pl))
	}
	return utils.WriteJSON(w, list)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	s := p.reader()
	pl, err := s.Pool(addr)
	if err != nil {
		return utils.StakerError(err)
	}
	balances, err := s.PoolBalances(addr)
	if err != nil {
		return err
	}
	out := convertPool(pl)
	out.Balances = balances
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetRecord(w http.ResponseWriter, req *http.Request) error {
	poolAddr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	s := p.reader()
	pl, err := s.Pool(poolAddr)
	if err != nil {
		return utils.StakerError(err)
	}
	rec, err := s.Position(poolAddr, owner)
	if err != nil {
		return utils.StakerError(err)
	}

	value, err := pl.TokensForShares(rec.Shares)
	if err != nil {
		return err
	}
	unsettled, err := rec.Unsettled(pl.Index())
	if err != nil {
		return err
	}
	claimable, err := checked.Add(rec.AccruedUsdcEarnings, unsettled)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &JSONRecord{
		ID:            rec.ID(),
		Position:      rec,
		IsCooling:     rec.IsCooling(),
		TokenValue:    value,
		ClaimableUsdc: claimable,
	})
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("pools_list").
		HandlerFunc(utils.WrapHandlerFunc(p.handleListPools))
	sub.Path("/{pool}").
		Methods(http.MethodGet).
		Name("pools_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{pool}/records/{owner}").
		Methods(http.MethodGet).
		Name("pools_get_record").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetRecord))
}
