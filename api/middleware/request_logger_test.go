// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inference-net/staking/log"
)

type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger  { return m }
func (m *mockLogger) Trace(_ string, _ ...any)  {}
func (m *mockLogger) Debug(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any)  {}
func (m *mockLogger) Crit(_ string, _ ...any)   {}
func (m *mockLogger) Enabled(_ slog.Level) bool { return true }
func (m *mockLogger) Info(_ string, ctx ...any) { m.loggedData = append(m.loggedData, ctx...) }
func (m *mockLogger) Warn(_ string, ctx ...any) { m.loggedData = append(m.loggedData, ctx...) }

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		if status != 0 {
			w.WriteHeader(status)
		}
		w.Write([]byte("body"))
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		enabled      bool
		slow         time.Duration
		log5xxErrors bool
		wantStatus   int
		shouldLog    bool
	}{
		{"enabled", respond(http.StatusOK, 0), true, 0, false, http.StatusOK, true},
		{"disabled", respond(http.StatusOK, 0), false, 0, false, http.StatusOK, false},
		{"slow query", respond(http.StatusOK, 15*time.Millisecond), false, 10 * time.Millisecond, false, http.StatusOK, true},
		{"fast query", respond(http.StatusOK, 0), false, 50 * time.Millisecond, false, http.StatusOK, false},
		{"5xx logged", respond(http.StatusInternalServerError, 0), false, 0, true, http.StatusInternalServerError, true},
		{"5xx not logged", respond(http.StatusServiceUnavailable, 0), false, 0, false, http.StatusServiceUnavailable, false},
		{"4xx not logged", respond(http.StatusBadRequest, 0), false, 0, true, http.StatusBadRequest, false},
		{"implicit 200", respond(0, 0), false, 0, true, http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLog := &mockLogger{}
			enabled := &atomic.Bool{}
			enabled.Store(tt.enabled)

			handler := RequestLogger(mockLog, RequestLoggerOptions{
				Enabled:              enabled,
				SlowQueriesThreshold: tt.slow,
				Log5xxErrors:         tt.log5xxErrors,
			})(tt.handler)

			req := httptest.NewRequest(http.MethodPost, "http://example.com/pools", strings.NewReader("test body"))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if !tt.shouldLog {
				assert.Empty(t, mockLog.loggedData)
				return
			}
			assert.Contains(t, mockLog.loggedData, "http://example.com/pools")
			assert.Contains(t, mockLog.loggedData, http.MethodPost)
			assert.Contains(t, mockLog.loggedData, "test body")
			assert.Contains(t, mockLog.loggedData, tt.wantStatus)
		})
	}
}

func TestRequestLoggerKeepsBody(t *testing.T) {
	enabled := &atomic.Bool{}
	enabled.Store(true)
	var seen string
	handler := RequestLogger(&mockLogger{}, RequestLoggerOptions{Enabled: enabled})(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			var b strings.Builder
			buf := make([]byte, 64)
			n, _ := r.Body.Read(buf)
			b.Write(buf[:n])
			seen = b.String()
		}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("payload")))
	assert.Equal(t, "payload", seen)
}
