// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"slices"

	"github.com/inference-net/staking/eventdb"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
)

// EventFilter narrows a subscription. Empty fields match everything.
type EventFilter struct {
	Pool  *pubkey.Address
	Types []events.Type
}

func (f *EventFilter) Match(e *events.Event) bool {
	if f.Pool != nil && *f.Pool != e.Pool {
		return false
	}
	return len(f.Types) == 0 || slices.Contains(f.Types, e.Type)
}

type eventReader struct {
	db     *eventdb.EventDB
	filter *EventFilter
	pos    uint64
	limit  uint64
}

func newEventReader(db *eventdb.EventDB, pos uint64, filter *EventFilter, limit uint64) *eventReader {
	return &eventReader{
		db:     db,
		filter: filter,
		pos:    pos,
		limit:  limit,
	}
}

// Read returns matching events after the current position and advances past every
// event scanned. The bool reports whether a full page was scanned.
func (r *eventReader) Read(ctx context.Context) ([]*eventdb.Entry, bool, error) {
	entries, err := r.db.After(ctx, r.pos, r.limit)
	if err != nil {
		return nil, false, err
	}
	var msgs []*eventdb.Entry
	for _, e := range entries {
		if r.filter.Match(e.Event) {
			msgs = append(msgs, e)
		}
		r.pos = e.Seq
	}
	return msgs, uint64(len(entries)) == r.limit, nil
}
