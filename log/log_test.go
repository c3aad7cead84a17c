// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"testing"

	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
)

func TestWithContextFollowsDefault(t *testing.T) {
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetDefault(gethlog.JSONHandlerWithLevel(&buf, slog.LevelInfo))
	t.Cleanup(func() { SetDefault(gethlog.DiscardHandler()) })

	logger.Info("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"pkg":"test"`)

	buf.Reset()
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, logger.Enabled(slog.LevelDebug))
	assert.True(t, logger.Enabled(slog.LevelWarn))

	buf.Reset()
	logger.With("sub", "x").Warn("warned")
	assert.Contains(t, buf.String(), `"sub":"x"`)
	assert.Contains(t, buf.String(), `"pkg":"test"`)
}

func TestHandlersFollowLevelVar(t *testing.T) {
	level := &slog.LevelVar{}
	level.Set(LevelWarn)

	var jsonBuf, termBuf bytes.Buffer
	for _, tt := range []struct {
		name string
		buf  *bytes.Buffer
		h    slog.Handler
	}{
		{"json", &jsonBuf, NewJSONHandler(&jsonBuf, level)},
		{"terminal", &termBuf, NewTerminalHandler(&termBuf, level, false)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			level.Set(LevelWarn)
			logger := gethlog.NewLogger(tt.h).With("pkg", "test")

			logger.Info("quiet")
			assert.Empty(t, tt.buf.String())

			level.Set(LevelTrace)
			logger.Trace("loud")
			assert.Contains(t, tt.buf.String(), "loud")
			assert.Contains(t, tt.buf.String(), "pkg")
		})
	}
}
