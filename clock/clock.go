// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/inference-net/staking/log"
)

var logger = log.WithContext("pkg", "clock")

// Clock yields the current unix time in seconds.
type Clock interface {
	Now() uint64
}

// System reads the wall clock.
type System struct{}

func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Mock is a settable clock for tests and offline tooling.
type Mock struct {
	now atomic.Uint64
}

func NewMock(now uint64) *Mock {
	m := &Mock{}
	m.now.Store(now)
	return m
}

func (m *Mock) Now() uint64 {
	return m.now.Load()
}

func (m *Mock) Set(now uint64) {
	m.now.Store(now)
}

func (m *Mock) Advance(seconds uint64) uint64 {
	return m.now.Add(seconds)
}

// CheckOffset queries an NTP server and warns when the local clock drifts more than
// tolerance. Unix-second timestamps gate unstake and slashing delays.
func CheckOffset(server string, tolerance time.Duration) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", server, "err", err)
		return 0, err
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > tolerance {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
	return resp.ClockOffset, nil
}
