// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/api"
	"github.com/inference-net/staking/api/admin/health"
	"github.com/inference-net/staking/clock"
	"github.com/inference-net/staking/metrics"
	"github.com/inference-net/staking/staker/emissions"
)

const (
	clockTolerance   = 5 * time.Second
	clockCheckPeriod = 10 * time.Minute
	shutdownTimeout  = 5 * time.Second
	merkleCacheSize  = 64
)

var serveCommand = cli.Command{
	Name:  "serve",
	Usage: "serve the read-only HTTP API",
	Flags: []cli.Flag{
		apiAddrFlag,
		apiCorsFlag,
		apiEventsLimitFlag,
		apiPoolsLimitFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		enableAPILogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		ntpServerFlag,
		pollIntervalFlag,
	},
	Action: serveAction,
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	s, err := openSession(ctx, false)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing databases..."); s.Close() }()

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeSubs, err := api.New(s.stater, s.eventDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableMetrics:        enableMetrics,
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		PoolsLimit:           ctx.Uint64(apiPoolsLimitFlag.Name),
		MerkleCacheSize:      merkleCacheSize,
		PollInterval:         ctx.Duration(pollIntervalFlag.Name),
		Emissions:            emissions.Default(),
	})
	if err != nil {
		return err
	}
	defer closeSubs()

	if enableMetrics {
		url, stop, err := api.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		logger.Info("metrics server started", "url", url)
	}

	h := health.New(clockTolerance)
	h.AddProbe("state", func(context.Context) error {
		if _, err := s.mainDB.Stats(); err != nil {
			return err
		}
		_, err := s.staker.Overview()
		return err
	})
	h.AddProbe("events", func(ctx context.Context) error {
		_, err := s.eventDB.LastSeq(ctx)
		return err
	})
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, h)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		logger.Info("admin server started", "url", url)
	}

	listener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", ctx.String(apiAddrFlag.Name))
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(ctx.App.Writer, `Starting %v
    Data dir     [ %v ]
    API portal   [ %v ]
`, "stakingd "+fullVersion(), ctx.GlobalString(dataDirFlag.Name), "http://"+listener.Addr().String()+"/")

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if server := ctx.String(ntpServerFlag.Name); server != "" {
		g.Go(func() error {
			checkClock(gctx, server, h)
			return nil
		})
	}
	return g.Wait()
}

// checkClock feeds the NTP offset to the health service until ctx is done.
func checkClock(ctx context.Context, server string, h *health.Health) {
	ticker := time.NewTicker(clockCheckPeriod)
	defer ticker.Stop()
	for {
		if offset, err := clock.CheckOffset(server, clockTolerance); err == nil {
			h.ClockOffset(offset)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
