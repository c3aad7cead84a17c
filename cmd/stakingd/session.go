// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"path/filepath"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/clock"
	"github.com/inference-net/staking/eventdb"
	"github.com/inference-net/staking/ledger"
	"github.com/inference-net/staking/lvldb"
	"github.com/inference-net/staking/staker"
	"github.com/inference-net/staking/staker/emissions"
	"github.com/inference-net/staking/staker/events"
	"github.com/inference-net/staking/state"
)

const (
	mainDBName  = "main.db"
	eventDBName = "events.db"
)

// session is one command's view of the databases. Mutations are staged on a single state
// and only written by commit.
type session struct {
	mainDB  *lvldb.LevelDB
	eventDB *eventdb.EventDB
	stater  *state.Stater
	state   *state.State
	ledger  *ledger.Ledger
	sink    *events.Memory
	staker  *staker.Staker
}

func openMainDB(ctx *cli.Context, dataDir string, readOnly bool) (*lvldb.LevelDB, int, error) {
	cacheMB := normalizeCacheSize(ctx.GlobalInt(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	dir := filepath.Join(dataDir, mainDBName)
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: 64,
		ReadOnly:               readOnly,
	})
	if err != nil {
		return nil, 0, errors.WithMessagef(err, "open state database [%v]", dir)
	}
	return db, cacheMB / 2, nil
}

func openEventDB(dataDir string) (*eventdb.EventDB, error) {
	dir := filepath.Join(dataDir, eventDBName)
	db, err := eventdb.New(dir)
	if err != nil {
		return nil, errors.WithMessagef(err, "open event database [%v]", dir)
	}
	return db, nil
}

// openSession opens both databases. A read-only session never writes the state database.
func openSession(ctx *cli.Context, readOnly bool) (*session, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, err
	}
	mainDB, stateCacheMB, err := openMainDB(ctx, dataDir, readOnly)
	if err != nil {
		return nil, err
	}
	eventDB, err := openEventDB(dataDir)
	if err != nil {
		mainDB.Close()
		return nil, err
	}

	stater := state.NewStater(mainDB, stateCacheMB)
	st := stater.NewState()
	s := &session{
		mainDB:  mainDB,
		eventDB: eventDB,
		stater:  stater,
		state:   st,
		ledger:  ledger.New(st),
		sink:    events.NewMemory(),
	}
	s.staker = staker.New(st, s.ledger, clock.System{}, emissions.Default(), s.sink)
	return s, nil
}

// commit writes the staged state, then the events it produced.
func (s *session) commit() error {
	if err := s.stater.Commit(s.state.Stage()); err != nil {
		return errors.WithMessage(err, "commit state")
	}
	if evs := s.sink.Events(); len(evs) > 0 {
		if err := s.eventDB.Append(evs); err != nil {
			return errors.WithMessage(err, "persist events")
		}
	}
	return nil
}

func (s *session) Close() {
	if err := s.eventDB.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	if err := s.mainDB.Close(); err != nil {
		logger.Warn("failed to close state database", "err", err)
	}
}

// withSession runs fn against a fresh session and commits on success.
func withSession(fn func(ctx *cli.Context, s *session) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		initLogger(ctx)
		s, err := openSession(ctx, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := fn(ctx, s); err != nil {
			return err
		}
		return s.commit()
	}
}

// withReadSession runs fn without committing.
func withReadSession(fn func(ctx *cli.Context, s *session) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		initLogger(ctx)
		s, err := openSession(ctx, true)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(ctx, s)
	}
}
