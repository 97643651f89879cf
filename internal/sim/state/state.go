package state

import (
	"context"
	"sync"

	"github.com/signalsfoundry/wildfire-twin/internal/logging"
	"github.com/signalsfoundry/wildfire-twin/model"
)

// MissionState holds the last committed tick snapshot and the payout
// history for a run. The run loop is the only writer; the dashboard and
// exporter read copies with last-tick-wins visibility. Each commit is
// atomic from the observer's perspective.
type MissionState struct {
	mu sync.RWMutex

	latest    *model.TickSnapshot
	payouts   []model.PayoutEvent
	ticksSeen int

	log     logging.Logger
	metrics TickMetricsRecorder
}

// TickMetricsRecorder receives per-tick and per-payout metric updates.
// Satisfied by observability.MissionCollector.
type TickMetricsRecorder interface {
	RecordTick(durationSeconds float64, clusters int, confidence, budgetRemaining float64)
	RecordPayout(amountUSD float64)
}

// Option customises MissionState construction.
type Option func(*MissionState)

// WithMetricsRecorder attaches an optional metrics recorder driven
// directly from Commit.
func WithMetricsRecorder(m TickMetricsRecorder) Option {
	return func(s *MissionState) {
		s.metrics = m
	}
}

// NewMissionState prepares an empty state store.
func NewMissionState(log logging.Logger, opts ...Option) *MissionState {
	if log == nil {
		log = logging.Noop()
	}
	s := &MissionState{log: log}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Commit publishes a tick's snapshot and, when present, its payout
// event. Snapshots must arrive in tick order; the previous snapshot is
// replaced wholesale.
func (s *MissionState) Commit(ctx context.Context, snap model.TickSnapshot, payout *model.PayoutEvent, durationSeconds float64) {
	s.mu.Lock()
	s.latest = &snap
	s.ticksSeen++
	if payout != nil {
		s.payouts = append(s.payouts, *payout)
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordTick(durationSeconds, len(snap.Clusters), snap.Confidence, snap.Trigger.BudgetRemainingUSD)
		if payout != nil {
			s.metrics.RecordPayout(payout.AmountUSD)
		}
	}

	s.log.Debug(ctx, "snapshot committed",
		logging.Int("tick", snap.Tick),
		logging.Int("payouts_total", s.PayoutCount()),
	)
}

// Latest returns a copy of the last committed snapshot, or ok=false
// before the first tick commits.
func (s *MissionState) Latest() (model.TickSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return model.TickSnapshot{}, false
	}
	return *s.latest, true
}

// Payouts returns a copy of the payout history in settlement order.
func (s *MissionState) Payouts() []model.PayoutEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PayoutEvent, len(s.payouts))
	copy(out, s.payouts)
	return out
}

// PayoutCount returns the number of settled payouts so far.
func (s *MissionState) PayoutCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payouts)
}

// TickCount returns the number of committed ticks.
func (s *MissionState) TickCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticksSeen
}
