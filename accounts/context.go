// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts lays typed, rlp encoded entities out over the flat slot storage of a state.
package accounts

import (
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/state"
)

// Context binds storage helpers to the address that owns the slots.
type Context struct {
	address pubkey.Address
	state   *state.State
}

func NewContext(address pubkey.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() pubkey.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
