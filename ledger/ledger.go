// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger keeps fungible token balances in state, keyed by (mint, owner).
package ledger

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/state"
)

var (
	// Address owns the ledger's storage slots.
	Address = pubkey.Derive([]byte("TokenLedger"))

	slotBalances = pubkey.BytesToBytes32([]byte("balances"))
	slotSupply   = pubkey.BytesToBytes32([]byte("supply"))
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountNotEmpty     = errors.New("token account is not empty")
	ErrSupplyOverflow      = errors.New("supply overflow")
)

type Ledger struct {
	balances *accounts.Mapping[pubkey.Address, uint64]
	supply   *accounts.Mapping[pubkey.Address, uint64]
}

func New(st *state.State) *Ledger {
	ctx := accounts.NewContext(Address, st)
	return &Ledger{
		balances: accounts.NewMapping[pubkey.Address, uint64](ctx, slotBalances),
		supply:   accounts.NewMapping[pubkey.Address, uint64](ctx, slotSupply),
	}
}

// AccountOf returns the token account id holding owner's balance of mint.
func AccountOf(mint, owner pubkey.Address) pubkey.Address {
	return pubkey.Derive(mint.Bytes(), owner.Bytes())
}

func (l *Ledger) Balance(mint, owner pubkey.Address) (uint64, error) {
	return l.balances.Get(AccountOf(mint, owner))
}

func (l *Ledger) Supply(mint pubkey.Address) (uint64, error) {
	return l.supply.Get(mint)
}

func (l *Ledger) Transfer(mint, from, to pubkey.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	fromAcc, toAcc := AccountOf(mint, from), AccountOf(mint, to)

	fromBal, err := l.balances.Get(fromAcc)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return errors.WithMessagef(ErrInsufficientBalance, "%v has %d, needs %d", from, fromBal, amount)
	}
	toBal, err := l.balances.Get(toAcc)
	if err != nil {
		return err
	}
	// bounded by supply, never overflows
	if err := l.balances.Upsert(fromAcc, fromBal-amount); err != nil {
		return err
	}
	return l.balances.Upsert(toAcc, toBal+amount)
}

func (l *Ledger) Mint(mint, to pubkey.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	supply, err := l.supply.Get(mint)
	if err != nil {
		return err
	}
	newSupply, overflow := math.SafeAdd(supply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	acc := AccountOf(mint, to)
	bal, err := l.balances.Get(acc)
	if err != nil {
		return err
	}
	if err := l.supply.Upsert(mint, newSupply); err != nil {
		return err
	}
	return l.balances.Upsert(acc, bal+amount)
}

// CloseAccount removes an empty token account.
func (l *Ledger) CloseAccount(mint, owner pubkey.Address) error {
	acc := AccountOf(mint, owner)
	bal, err := l.balances.Get(acc)
	if err != nil {
		return err
	}
	if bal != 0 {
		return ErrAccountNotEmpty
	}
	l.balances.Delete(acc)
	return nil
}
