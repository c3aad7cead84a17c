// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/inference-net/staking/api/epochs"
	"github.com/inference-net/staking/api/events"
	"github.com/inference-net/staking/api/merkletree"
	"github.com/inference-net/staking/api/middleware"
	"github.com/inference-net/staking/api/overview"
	"github.com/inference-net/staking/api/pools"
	"github.com/inference-net/staking/api/subscriptions"
	"github.com/inference-net/staking/api/utils"
	"github.com/inference-net/staking/eventdb"
	"github.com/inference-net/staking/log"
	"github.com/inference-net/staking/metrics"
	"github.com/inference-net/staking/staker"
	"github.com/inference-net/staking/state"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EventsLimit          uint64
	PoolsLimit           uint64
	MerkleCacheSize      int
	PollInterval         time.Duration
	Emissions            staker.Emissions
}

// New returns the read-only API handler and a func closing open subscriptions.
func New(stater *state.Stater, eventDB *eventdb.EventDB, opts Options) (http.HandlerFunc, func(), error) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}
	if opts.MerkleCacheSize <= 0 {
		opts.MerkleCacheSize = 64
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}

	trees, err := merkletree.New(opts.MerkleCacheSize)
	if err != nil {
		return nil, nil, errors.Wrap(err, "merkle tree cache")
	}
	reader := utils.NewStakerReader(stater, opts.Emissions)

	router := mux.NewRouter()
	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	overview.New(reader, opts.Emissions).
		Mount(router, "/overview")
	pools.New(reader, opts.PoolsLimit).
		Mount(router, "/pools")
	epochs.New(reader).
		Mount(router, "/epochs")
	trees.Mount(router, "/merkle")
	events.New(eventDB, opts.EventsLimit).
		Mount(router, "/events")
	subs := subscriptions.New(eventDB, origins, opts.PollInterval)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Path("/metrics").
			Methods(http.MethodGet).
			Handler(metrics.HTTPHandler())
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLogger(logger, middleware.RequestLoggerOptions{
			Enabled:              opts.EnableReqLogger,
			SlowQueriesThreshold: opts.SlowQueriesThreshold,
			Log5xxErrors:         opts.Log5xxErrors,
		})(handler)
	}

	return handler.ServeHTTP, subs.Close, nil
}
