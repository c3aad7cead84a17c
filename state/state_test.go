// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-net/staking/lvldb"
	"github.com/inference-net/staking/pubkey"
)

func newStater(t *testing.T) *Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db, 1)
}

func TestStateReadWrite(t *testing.T) {
	st := newStater(t).NewState()
	addr := pubkey.Derive([]byte("acc"))
	key := pubkey.Blake2b([]byte("slot"))

	v, err := st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Nil(t, v)

	st.SetRawStorage(addr, key, []byte{1, 2, 3})
	v, err = st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, v)
}

func TestStateRevert(t *testing.T) {
	st := newStater(t).NewState()
	addr := pubkey.Derive([]byte("acc"))
	key := pubkey.Blake2b([]byte("slot"))

	st.SetRawStorage(addr, key, []byte{1})
	chk := st.NewCheckpoint()
	st.SetRawStorage(addr, key, []byte{2})
	st.SetRawStorage(addr, pubkey.Blake2b([]byte("other")), []byte{3})

	v, _ := st.GetRawStorage(addr, key)
	assert.Equal(t, []byte{2}, v)

	st.RevertTo(chk)
	v, _ = st.GetRawStorage(addr, key)
	assert.Equal(t, []byte{1}, v)
	v, _ = st.GetRawStorage(addr, pubkey.Blake2b([]byte("other")))
	assert.Nil(t, v)
	assert.Equal(t, 1, st.Stage().Len())
}

func TestStageCommit(t *testing.T) {
	stater := newStater(t)
	addr := pubkey.Derive([]byte("acc"))
	k1 := pubkey.Blake2b([]byte("k1"))
	k2 := pubkey.Blake2b([]byte("k2"))

	st := stater.NewState()
	st.SetRawStorage(addr, k1, []byte("v1"))
	st.SetRawStorage(addr, k2, []byte("v2"))
	st.SetRawStorage(addr, k2, []byte("v2'"))
	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stater.Commit(stage))

	st = stater.NewState()
	v, err := st.GetRawStorage(addr, k2)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2'"), v)

	// delete through empty value
	st.SetRawStorage(addr, k1, nil)
	require.NoError(t, stater.Commit(st.Stage()))

	st = stater.NewState()
	v, err = st.GetRawStorage(addr, k1)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEncodeDecodeStorage(t *testing.T) {
	st := newStater(t).NewState()
	addr := pubkey.Derive([]byte("acc"))
	key := pubkey.Blake2b([]byte("slot"))

	assert.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return []byte("hello"), nil
	}))

	var got string
	assert.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		got = string(raw)
		return nil
	}))
	assert.Equal(t, "hello", got)
}
