package model

import "time"

// TriggerPhase is the parametric trigger's lifecycle phase.
type TriggerPhase int

const (
	PhaseIdle TriggerPhase = iota
	PhaseArmed
	PhaseFired
	PhaseSettled
	// PhaseExhausted is terminal: the mission budget reached zero and no
	// further payouts are possible.
	PhaseExhausted
)

// String returns the phase name used in logs, the dashboard, and the
// ledger.
func (p TriggerPhase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseArmed:
		return "ARMED"
	case PhaseFired:
		return "FIRED"
	case PhaseSettled:
		return "SETTLED"
	case PhaseExhausted:
		return "EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// TriggerState is the process-wide mission trigger state. It is owned
// exclusively by the TriggerEngine and only ever changed through its
// Mutate entry point; everyone else sees copies.
type TriggerState struct {
	Phase TriggerPhase `json:"phase"`

	// ConsecutiveHits counts ticks in a row with confidence at or above
	// the trigger threshold while idle. Reset on any miss.
	ConsecutiveHits int `json:"consecutive_hits"`

	// BudgetRemainingUSD is monotonically non-increasing and never
	// negative across the run.
	BudgetRemainingUSD float64 `json:"budget_remaining_usd"`

	// IncidentID identifies the current arm->fire->settle cycle. Empty
	// outside an incident.
	IncidentID string `json:"incident_id,omitempty"`

	// IncidentPayoutUSD is the payout committed for the current
	// incident, capped at the budget remaining when it fired.
	IncidentPayoutUSD float64 `json:"incident_payout_usd,omitempty"`
}

// PayoutEvent is emitted exactly once per incident, on the
// FIRED->SETTLED transition.
type PayoutEvent struct {
	IncidentID string    `json:"incident_id"`
	Tick       int       `json:"tick"`
	Timestamp  time.Time `json:"timestamp"`
	AmountUSD  float64   `json:"amount_usd"`
	Confidence float64   `json:"confidence"`

	// Estimated fire location at settlement time; zero when no cluster
	// geolocation was available.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
