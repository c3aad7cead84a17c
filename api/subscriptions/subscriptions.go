// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/eventdb"
	"github.com/inference-net/staking/log"
	"github.com/inference-net/staking/metrics"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker/events"
)

const (
	readPageSize = 256
	writeTimeout = 10 * time.Second
	pingPeriod   = 30 * time.Second
)

var (
	logger                = log.WithContext("pkg", "subscriptions")
	metricActiveWebsocket = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

type Subscriptions struct {
	db           *eventdb.EventDB
	pollInterval time.Duration
	upgrader     *websocket.Upgrader
	done         chan struct{}
	wg           sync.WaitGroup
}

// New creates the subscriptions resource. New events are picked up every pollInterval.
func New(db *eventdb.EventDB, allowedOrigins []string, pollInterval time.Duration) *Subscriptions {
	return &Subscriptions{
		db:           db,
		pollInterval: pollInterval,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, strings.ToLower(origin))
			},
		},
		done: make(chan struct{}),
	}
}

func parseEventFilter(req *http.Request) (*EventFilter, error) {
	query := req.URL.Query()
	filter := &EventFilter{}
	if s := query.Get("pool"); s != "" {
		addr, err := pubkey.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "pool"))
		}
		filter.Pool = &addr
	}
	if s := query.Get("type"); s != "" {
		for _, typ := range strings.Split(s, ",") {
			filter.Types = append(filter.Types, events.Type(strings.TrimSpace(typ)))
		}
	}
	return filter, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	pos, err := utils.Uint64Query(req, "pos", 0)
	if err != nil {
		return err
	}
	filter, err := parseEventFilter(req)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// the upgrader has already responded
	if err != nil {
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	labels := map[string]string{"subject": "events"}
	metricActiveWebsocket().AddWithLabel(1, labels)
	s.wg.Add(1)
	defer func() {
		metricActiveWebsocket().AddWithLabel(-1, labels)
		conn.Close()
		s.wg.Done()
	}()

	if err := s.pipe(req.Context(), conn, newEventReader(s.db, pos, filter, readPageSize)); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

// pipe streams events until the peer goes away or the server shuts down.
func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// drain control frames, and notice when the peer closes
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	poll := time.NewTicker(s.pollInterval)
	defer poll.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		msgs, more, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if more {
			continue
		}

		select {
		case <-s.done:
			return conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(writeTimeout))
		case <-ctx.Done():
			return ctx.Err()
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return err
			}
		case <-poll.C:
		}
	}
}

// Close ends every open subscription and waits for them.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("subscriptions_events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
