// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range selects epochs in [From, To]. To below From leaves the range open ended.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events. Nil or empty fields match everything.
type Filter struct {
	Pool    *pubkey.Address `json:"pool"`
	Subject *pubkey.Address `json:"subject"`
	Types   []events.Type   `json:"types"`
	Range   *Range          `json:"range"`
	Order   Order           `json:"order"`
	Options *Options        `json:"options"`
}

// Entry is a stored event with its position in the log.
type Entry struct {
	Seq uint64 `json:"seq"`
	ID  string `json:"id"`
	*events.Event
}
