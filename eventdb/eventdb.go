// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists the staker audit log in sqlite.
package eventdb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/golang/snappy"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/log"
	"github.com/inference-net/staking/metrics"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
)

var (
	logger         = log.WithContext("pkg", "eventdb")
	metricAppended = metrics.LazyLoadCounterVec("eventdb_appended_count", []string{"type"})
	metricPageSize = metrics.LazyLoadHistogram("eventdb_query_page_size", metrics.BucketEvents)
)

// EventDB is an append only event log. It implements events.Sink.
type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

var _ events.Sink = (*EventDB)(nil)

// New creates or opens the event log at path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// an in-memory database lives on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("event db opened", "path", path, "sqlite", driverVer)
	return &EventDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
	}, nil
}

// NewMem creates an event log in memory.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Append stores the events in one transaction, in order.
func (db *EventDB) Append(evs []*events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	stmt, err := tx.Prepare("INSERT INTO event(id, type, pool, subject, epoch, timestamp, data) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for _, ev := range evs {
		if _, err := stmt.Exec(
			[]byte(uuid.NewRandom()),
			string(ev.Type),
			ev.Pool.Bytes(),
			ev.Subject.Bytes(),
			ev.Epoch,
			ev.Timestamp,
			snappy.Encode(nil, ev.Data),
		); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert %v", ev.Type)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	for _, ev := range evs {
		metricAppended().AddWithLabel(1, map[string]string{"type": string(ev.Type)})
	}
	return nil
}

// Filter returns the events matching filter, by sequence.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Entry, error) {
	if filter == nil {
		filter = &Filter{}
	}
	var args []any
	stmt := "SELECT " + eventColumns + " FROM event WHERE 1"

	if filter.Pool != nil {
		stmt += " AND pool = ?"
		args = append(args, filter.Pool.Bytes())
	}
	if filter.Subject != nil {
		stmt += " AND subject = ?"
		args = append(args, filter.Subject.Bytes())
	}
	if len(filter.Types) > 0 {
		stmt += " AND type IN (?" + strings.Repeat(", ?", len(filter.Types)-1) + ")"
		for _, typ := range filter.Types {
			args = append(args, string(typ))
		}
	}
	if filter.Range != nil {
		stmt += " AND epoch >= ?"
		args = append(args, filter.Range.From)
		if filter.Range.To >= filter.Range.From {
			stmt += " AND epoch <= ?"
			args = append(args, filter.Range.To)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

// After returns up to limit events with a sequence greater than seq.
func (db *EventDB) After(ctx context.Context, seq uint64, limit uint64) ([]*Entry, error) {
	return db.query(ctx, "SELECT "+eventColumns+" FROM event WHERE seq > ? ORDER BY seq ASC LIMIT ?", seq, limit)
}

// LastSeq returns the sequence of the newest event, zero when empty.
func (db *EventDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, errors.Wrap(err, "last seq")
	}
	return uint64(seq.Int64), nil
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Entry, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			seq       uint64
			id        []byte
			typ       string
			pool      []byte
			subject   []byte
			epoch     uint64
			timestamp uint64
			data      []byte
		)
		if err := rows.Scan(&seq, &id, &typ, &pool, &subject, &epoch, &timestamp, &data); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		payload, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, errors.Wrapf(err, "decode event %d", seq)
		}
		entries = append(entries, &Entry{
			Seq: seq,
			ID:  uuid.UUID(id).String(),
			Event: &events.Event{
				Type:      events.Type(typ),
				Pool:      pubkey.BytesToAddress(pool),
				Subject:   pubkey.BytesToAddress(subject),
				Epoch:     epoch,
				Timestamp: timestamp,
				Data:      payload,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate events")
	}
	metricPageSize().Observe(int64(len(entries)))
	return entries, nil
}
