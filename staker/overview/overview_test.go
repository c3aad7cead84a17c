// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package overview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/accounts"
	"github.com/inference-net/staking/lvldb"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/reverts"
	"github.com/inference-net/staking/state"
)

func addr(s string) pubkey.Address {
	return pubkey.Derive([]byte(s))
}

func TestValidate(t *testing.T) {
	o := &Overview{SlashingDelaySeconds: MinSlashingDelaySeconds}
	assert.NoError(t, o.Validate())

	o.SlashingDelaySeconds = 3600
	assert.ErrorIs(t, o.Validate(), reverts.ErrInvalidSlashingDelay)

	o.SlashingDelaySeconds = MinSlashingDelaySeconds
	o.HaltAuthorities = []pubkey.Address{addr("a"), addr("a")}
	assert.ErrorIs(t, o.Validate(), reverts.ErrDuplicateAuthority)

	o.HaltAuthorities = nil
	o.SlashingAuthorities = []pubkey.Address{addr("1"), addr("2"), addr("3"), addr("4"), addr("5"), addr("6")}
	assert.ErrorIs(t, o.Validate(), reverts.ErrTooManyAuthorities)
}

func TestAuthorities(t *testing.T) {
	o := &Overview{
		RewardDistributionAuthorities: []pubkey.Address{addr("rd")},
		HaltAuthorities:               []pubkey.Address{addr("halt")},
		SlashingAuthorities:           []pubkey.Address{addr("slash")},
		OperatorUnstakeDelaySeconds:   10,
		DelegatorUnstakeDelaySeconds:  20,
	}
	assert.True(t, o.IsRewardDistributionAuthority(addr("rd")))
	assert.False(t, o.IsRewardDistributionAuthority(addr("halt")))
	assert.True(t, o.IsHaltAuthority(addr("halt")))
	assert.True(t, o.IsSlashingAuthority(addr("slash")))
	assert.False(t, o.IsSlashingAuthority(addr("rd")))

	assert.Equal(t, uint64(10), o.UnstakeDelay(true))
	assert.Equal(t, uint64(20), o.UnstakeDelay(false))
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	svc := NewService(accounts.NewContext(addr("staker"), state.NewStater(db, 0).NewState()))

	_, err = svc.Get()
	assert.ErrorIs(t, err, reverts.ErrOverviewNotFound)

	o := &Overview{Admin: addr("admin"), CompletedRewardEpoch: 4, HaltAuthorities: []pubkey.Address{addr("h")}}
	require.NoError(t, svc.Set(o))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, o.Admin, got.Admin)
	assert.Equal(t, uint64(4), got.CompletedRewardEpoch)
	assert.Equal(t, o.HaltAuthorities, got.HaltAuthorities)
}
