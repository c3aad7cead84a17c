// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package overview

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/staker"
	"github.com/inference-net/staking/staker/overview"
)

type Overview struct {
	reader    utils.StakerReader
	emissions staker.Emissions
}

func New(reader utils.StakerReader, emissions staker.Emissions) *Overview {
	return &Overview{reader, emissions}
}

// JSONOverview adds the open epoch and its expected issuance to the stored overview.
type JSONOverview struct {
	*overview.Overview
	CurrentEpoch     uint64 `json:"currentEpoch"`
	ExpectedEmission uint64 `json:"expectedEmission"`
}

func (o *Overview) handleGetOverview(w http.ResponseWriter, _ *http.Request) error {
	ov, err := o.reader().Overview()
	if err != nil {
		return utils.StakerError(err)
	}
	current := ov.CompletedRewardEpoch + 1
	expected, err := o.emissions.ExpectedForEpoch(current)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &JSONOverview{
		Overview:         ov,
		CurrentEpoch:     current,
		ExpectedEmission: expected,
	})
}

func (o *Overview) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("overview_get").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetOverview))
}
