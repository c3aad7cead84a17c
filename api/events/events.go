// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/eventdb"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

// New creates the events resource. limit caps the page size.
func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{db, limit}
}

func (e *Events) filter(req *http.Request, filter *eventdb.Filter) ([]*eventdb.Entry, error) {
	if filter.Options == nil {
		filter.Options = &eventdb.Options{Limit: e.limit}
	}
	if filter.Options.Limit > e.limit {
		return nil, utils.Forbidden(errors.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Order != "" && filter.Order != eventdb.ASC && filter.Order != eventdb.DESC {
		return nil, utils.BadRequest(errors.Errorf("invalid order %q", filter.Order))
	}
	entries, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*eventdb.Entry{}
	}
	return entries, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter eventdb.Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	entries, err := e.filter(req, &filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, entries)
}

func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseQuery(req)
	if err != nil {
		return err
	}
	entries, err := e.filter(req, filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, entries)
}

func parseAddressQuery(req *http.Request, name string) (*pubkey.Address, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := pubkey.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &addr, nil
}

// parseQuery reads a filter from pool, subject, type, from, to, order, offset and limit.
func parseQuery(req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{Order: eventdb.Order(query.Get("order"))}

	var err error
	if filter.Pool, err = parseAddressQuery(req, "pool"); err != nil {
		return nil, err
	}
	if filter.Subject, err = parseAddressQuery(req, "subject"); err != nil {
		return nil, err
	}
	if s := query.Get("type"); s != "" {
		for _, typ := range strings.Split(s, ",") {
			filter.Types = append(filter.Types, events.Type(strings.TrimSpace(typ)))
		}
	}
	if query.Has("from") || query.Has("to") {
		filter.Range = &eventdb.Range{}
		if filter.Range.From, err = utils.Uint64Query(req, "from", 0); err != nil {
			return nil, err
		}
		if filter.Range.To, err = utils.Uint64Query(req, "to", 0); err != nil {
			return nil, err
		}
	}
	if query.Has("offset") || query.Has("limit") {
		filter.Options = &eventdb.Options{}
		if filter.Options.Offset, err = utils.Uint64Query(req, "offset", 0); err != nil {
			return nil, err
		}
		if filter.Options.Limit, err = utils.Uint64Query(req, "limit", 0); err != nil {
			return nil, err
		}
	}
	return filter, nil
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("events_query").
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
	sub.Path("").
		Methods(http.MethodPost).
		Name("events_filter").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
