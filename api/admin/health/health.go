// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"
)

// Probe reports the readiness of one dependency.
type Probe func(ctx context.Context) error

type Check struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type Status struct {
	Healthy     bool          `json:"healthy"`
	Checks      []*Check      `json:"checks"`
	ClockOffset time.Duration `json:"clockOffsetNs"`
	ClockSynced bool          `json:"clockSynced"`
}

type namedProbe struct {
	name  string
	probe Probe
}

// Health aggregates readiness probes and the last measured clock offset. Delays are
// enforced against the local clock, so a drifting clock makes the node unhealthy.
type Health struct {
	lock           sync.RWMutex
	probes         []namedProbe
	clockTolerance time.Duration
	clockOffset    time.Duration
	clockChecked   bool
}

func New(clockTolerance time.Duration) *Health {
	return &Health{clockTolerance: clockTolerance}
}

// AddProbe registers a named readiness probe.
func (h *Health) AddProbe(name string, probe Probe) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.probes = append(h.probes, namedProbe{name, probe})
}

// ClockOffset records a clock offset measurement.
func (h *Health) ClockOffset(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.clockOffset = offset
	h.clockChecked = true
}

func (h *Health) Status(ctx context.Context) *Status {
	h.lock.RLock()
	probes := h.probes
	offset, checked := h.clockOffset, h.clockChecked
	h.lock.RUnlock()

	status := &Status{Healthy: true, ClockOffset: offset}
	for _, p := range probes {
		check := &Check{Name: p.name, OK: true}
		if err := p.probe(ctx); err != nil {
			check.OK = false
			check.Error = err.Error()
			status.Healthy = false
		}
		status.Checks = append(status.Checks, check)
	}

	abs := offset
	if abs < 0 {
		abs = -abs
	}
	// an unchecked clock is trusted
	status.ClockSynced = !checked || abs <= h.clockTolerance
	if !status.ClockSynced {
		status.Healthy = false
	}
	return status
}
