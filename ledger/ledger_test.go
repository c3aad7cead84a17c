// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/lvldb"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/state"
)

func newLedger(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(state.NewStater(db, 0).NewState())
}

func TestLedger(t *testing.T) {
	l := newLedger(t)
	mint := pubkey.Derive([]byte("mint"))
	alice := pubkey.Derive([]byte("alice"))
	bob := pubkey.Derive([]byte("bob"))

	require.NoError(t, l.Mint(mint, alice, 100))
	require.NoError(t, l.Transfer(mint, alice, bob, 40))

	bal, err := l.Balance(mint, alice)
	assert.NoError(t, err)
	assert.Equal(t, uint64(60), bal)
	bal, _ = l.Balance(mint, bob)
	assert.Equal(t, uint64(40), bal)

	supply, err := l.Supply(mint)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), supply)

	assert.ErrorIs(t, l.Transfer(mint, bob, alice, 41), ErrInsufficientBalance)
	assert.NoError(t, l.Transfer(mint, bob, alice, 0))
	assert.NoError(t, l.Transfer(mint, bob, bob, 1000))

	// balances are per mint
	other := pubkey.Derive([]byte("other"))
	bal, _ = l.Balance(other, alice)
	assert.Zero(t, bal)
}

func TestMintOverflow(t *testing.T) {
	l := newLedger(t)
	mint := pubkey.Derive([]byte("mint"))
	alice := pubkey.Derive([]byte("alice"))

	require.NoError(t, l.Mint(mint, alice, math.MaxUint64))
	assert.ErrorIs(t, l.Mint(mint, alice, 1), ErrSupplyOverflow)
}

func TestCloseAccount(t *testing.T) {
	l := newLedger(t)
	mint := pubkey.Derive([]byte("mint"))
	alice := pubkey.Derive([]byte("alice"))
	bob := pubkey.Derive([]byte("bob"))

	require.NoError(t, l.Mint(mint, alice, 5))
	assert.ErrorIs(t, l.CloseAccount(mint, alice), ErrAccountNotEmpty)

	require.NoError(t, l.Transfer(mint, alice, bob, 5))
	assert.NoError(t, l.CloseAccount(mint, alice))
	bal, err := l.Balance(mint, alice)
	assert.NoError(t, err)
	assert.Zero(t, bal)
}
