package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/wildfire-twin/model"
)

// TriggerEngine is the parametric trigger state machine. It owns the
// mission's only cross-tick mutable state and exposes exactly one entry
// point, Mutate, called once per tick by the pipeline.
//
// Lifecycle: IDLE -> ARMED -> FIRED -> SETTLED -> IDLE, with EXHAUSTED
// terminal once the budget reaches zero. Arming requires
// ArmPersistence consecutive scores at or above the confidence
// threshold; an armed trigger fires on its next evaluation, deducts the
// payout (capped at the remaining budget), and settles in the same
// tick, emitting exactly one payout event per incident. The budget is
// monotonically non-increasing and never negative.
type TriggerEngine struct {
	cfg   TriggerConfig
	state model.TriggerState
}

// NewTriggerEngine starts the trigger idle with the full mission
// budget. The config must already be validated.
func NewTriggerEngine(cfg TriggerConfig) *TriggerEngine {
	return &TriggerEngine{
		cfg: cfg,
		state: model.TriggerState{
			Phase:              model.PhaseIdle,
			BudgetRemainingUSD: cfg.MissionBudgetUSD,
		},
	}
}

// State returns a copy of the current trigger state.
func (e *TriggerEngine) State() model.TriggerState {
	return e.state
}

// Mutate advances the state machine by one tick. fire may be nil when
// the tick produced no geolocated cluster. The returned event is
// non-nil exactly when this tick settled a payout.
func (e *TriggerEngine) Mutate(tick int, now time.Time, score float64, fire *model.FireLocation) (model.TriggerState, *model.PayoutEvent) {
	switch e.state.Phase {
	case model.PhaseExhausted:
		// Terminal: every subsequent tick is a no-op.
		return e.state, nil

	case model.PhaseIdle:
		if e.state.BudgetRemainingUSD == 0 {
			e.state.Phase = model.PhaseExhausted
			return e.state, nil
		}
		if score >= e.cfg.ConfidenceThreshold {
			e.state.ConsecutiveHits++
			if e.state.ConsecutiveHits >= e.cfg.ArmPersistence {
				e.state.Phase = model.PhaseArmed
				e.state.IncidentID = uuid.NewString()
			}
		} else {
			e.state.ConsecutiveHits = 0
		}
		return e.state, nil

	case model.PhaseArmed:
		if e.state.BudgetRemainingUSD == 0 {
			e.state.Phase = model.PhaseExhausted
			return e.state, nil
		}
		return e.fireAndSettle(tick, now, score, fire)

	case model.PhaseSettled:
		if e.state.BudgetRemainingUSD == 0 {
			e.state.Phase = model.PhaseExhausted
			return e.state, nil
		}
		e.state.Phase = model.PhaseIdle
		e.state.ConsecutiveHits = 0
		e.state.IncidentID = ""
		e.state.IncidentPayoutUSD = 0
		return e.state, nil

	default:
		return e.state, nil
	}
}

// fireAndSettle runs the single-tick ARMED -> FIRED -> SETTLED dwell:
// commit the payout request, deduct it from the budget, and emit the
// incident's one payout event. A zero budget after settlement resolves
// the terminal phase immediately.
func (e *TriggerEngine) fireAndSettle(tick int, now time.Time, score float64, fire *model.FireLocation) (model.TriggerState, *model.PayoutEvent) {
	amount := e.cfg.PayoutAmountUSD
	if amount > e.state.BudgetRemainingUSD {
		amount = e.state.BudgetRemainingUSD
	}

	e.state.Phase = model.PhaseFired
	e.state.IncidentPayoutUSD = amount

	e.state.BudgetRemainingUSD -= amount
	e.state.Phase = model.PhaseSettled

	event := &model.PayoutEvent{
		IncidentID: e.state.IncidentID,
		Tick:       tick,
		Timestamp:  now,
		AmountUSD:  amount,
		Confidence: score,
	}
	if fire != nil {
		event.Latitude = fire.Latitude
		event.Longitude = fire.Longitude
	}

	if e.state.BudgetRemainingUSD == 0 {
		e.state.Phase = model.PhaseExhausted
	}
	return e.state, event
}
