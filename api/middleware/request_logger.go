// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/inference-net/staking/log"
)

// maxLoggedBody truncates request bodies in log lines.
const maxLoggedBody = 4096

type RequestLoggerOptions struct {
	// Enabled toggles logging of every request at runtime.
	Enabled *atomic.Bool
	// SlowQueriesThreshold logs requests slower than this even when disabled. Zero turns it off.
	SlowQueriesThreshold time.Duration
	// Log5xxErrors logs server errors even when disabled.
	Log5xxErrors bool
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger returns a middleware logging requests as selected by opts.
func RequestLogger(logger log.Logger, opts RequestLoggerOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			enabled := opts.Enabled != nil && opts.Enabled.Load()
			if !enabled && opts.SlowQueriesThreshold == 0 && !opts.Log5xxErrors {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "unable to read body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			slow := opts.SlowQueriesThreshold > 0 && duration > opts.SlowQueriesThreshold
			failed := opts.Log5xxErrors && sw.status >= http.StatusInternalServerError
			if !enabled && !slow && !failed {
				return
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			ctx := []any{
				"DurationMs", duration.Milliseconds(),
				"Timestamp", time.Now().Unix(),
				"URI", r.URL.String(),
				"Method", r.Method,
				"Status", sw.status,
				"Body", string(body),
			}
			if failed {
				logger.Warn("API Request", ctx...)
			} else {
				logger.Info("API Request", ctx...)
			}
		})
	}
}
