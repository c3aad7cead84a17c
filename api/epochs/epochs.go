// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epochs

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/merkle"
	"github.com/inference-net/staking/pubkey"
)

type Epochs struct {
	reader utils.StakerReader
}

func New(reader utils.StakerReader) *Epochs {
	return &Epochs{reader}
}

// VerifyRequest is a pool's claim against one of an epoch's roots.
type VerifyRequest struct {
	RootIndex    int              `json:"merkleIndex"`
	Pool         pubkey.Address   `json:"pool"`
	RewardAmount uint64           `json:"rewardAmount"`
	UsdcAmount   uint64           `json:"usdcAmount"`
	Proof        []pubkey.Bytes32 `json:"proof"`
	ProofPath    []bool           `json:"proofPath"`
}

type VerifyResult struct {
	Valid bool   `json:"valid"`
	Root  string `json:"root,omitempty"`
	Error string `json:"error,omitempty"`
}

func (e *Epochs) handleGetRewardRecord(w http.ResponseWriter, req *http.Request) error {
	epochNum, err := utils.Uint64Var(req, "epoch")
	if err != nil {
		return err
	}
	rec, err := e.reader().RewardRecord(epochNum)
	if err != nil {
		return utils.StakerError(err)
	}
	return utils.WriteJSON(w, rec)
}

func (e *Epochs) handleVerifyProof(w http.ResponseWriter, req *http.Request) error {
	epochNum, err := utils.Uint64Var(req, "epoch")
	if err != nil {
		return err
	}
	var body VerifyRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	rec, err := e.reader().RewardRecord(epochNum)
	if err != nil {
		return utils.StakerError(err)
	}

	leaf := merkle.Leaf{Pool: body.Pool, Reward: body.RewardAmount, Usdc: body.UsdcAmount}
	proof := &merkle.Proof{Siblings: body.Proof, Path: body.ProofPath}
	if err := rec.VerifyProof(body.RootIndex, leaf, proof); err != nil {
		return utils.WriteJSON(w, &VerifyResult{Error: err.Error()})
	}
	return utils.WriteJSON(w, &VerifyResult{
		Valid: true,
		Root:  rec.MerkleRoots[body.RootIndex].String(),
	})
}

func (e *Epochs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{epoch}").
		Methods(http.MethodGet).
		Name("epochs_get_reward_record").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetRewardRecord))
	sub.Path("/{epoch}/verify").
		Methods(http.MethodPost).
		Name("epochs_verify_proof").
		HandlerFunc(utils.WrapHandlerFunc(e.handleVerifyProof))
}
