// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the audit log emitted by successful staker operations.
package events

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/inference-net/staking/pubkey"
)

type Type string

const (
	OverviewCreated           Type = "PoolOverviewCreated"
	OverviewUpdated           Type = "PoolOverviewUpdated"
	AuthoritiesUpdated        Type = "PoolOverviewAuthoritiesUpdated"
	EpochFinalizing           Type = "EpochFinalizing"
	EpochFinalizingUpdated    Type = "EpochFinalizingUpdated"
	RewardRecordCreated       Type = "RewardRecordCreated"
	RewardRecordModified      Type = "RewardRecordModified"
	PoolCreated               Type = "OperatorPoolCreated"
	PoolUpdated               Type = "OperatorPoolUpdated"
	PoolClosed                Type = "OperatorPoolClosed"
	AdminChanged              Type = "OperatorAdminChanged"
	OperatorRecordChanged     Type = "OperatorStakingRecordChanged"
	HaltStatusSet             Type = "HaltStatusSet"
	StakeSlashed              Type = "StakeSlashed"
	RecordCreated             Type = "StakingRecordCreated"
	RecordClosed              Type = "StakingRecordClosed"
	Staked                    Type = "Staked"
	Unstaked                  Type = "Unstaked"
	UnstakeCancelled          Type = "UnstakeCancelled"
	UnstakeClaimed            Type = "UnstakeClaimed"
	UsdcEarningsClaimed       Type = "UsdcEarningsClaimed"
	RewardAccrued             Type = "RewardAccrued"
	RewardEmergencyBypassed   Type = "RewardEmergencyBypassed"
	RewardCommissionWithdrawn Type = "RewardCommissionWithdrawn"
	UsdcCommissionWithdrawn   Type = "UsdcCommissionWithdrawn"
	ClosedPoolUsdcDustSwept   Type = "ClosedPoolUsdcDustSwept"
)

// Event is one entry of the audit log. Pool is zero for protocol wide events. Subject is
// the staking record owner or the acting authority.
type Event struct {
	Type      Type            `json:"type"`
	Pool      pubkey.Address  `json:"pool"`
	Subject   pubkey.Address  `json:"subject"`
	Epoch     uint64          `json:"epoch"`
	Timestamp uint64          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New builds an event, encoding data as its JSON payload.
func New(typ Type, pool, subject pubkey.Address, epoch, timestamp uint64, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %v payload", typ)
	}
	return &Event{
		Type:      typ,
		Pool:      pool,
		Subject:   subject,
		Epoch:     epoch,
		Timestamp: timestamp,
		Data:      raw,
	}, nil
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// Sink receives the events of each successful operation, in order.
type Sink interface {
	Append(events []*Event) error
}

// Memory is an in-process sink.
type Memory struct {
	mu     sync.Mutex
	events []*Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(events []*Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

// Events returns a copy of everything appended so far.
func (m *Memory) Events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.events...)
}

// OfType returns the appended events of the given type.
func (m *Memory) OfType(typ Type) []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Event
	for _, e := range m.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Discard drops events.
type Discard struct{}

func (Discard) Append([]*Event) error { return nil }
