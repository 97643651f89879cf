// Package ledger persists payout events and per-tick summaries to
// SQLite. The ledger is an observer of the run: core correctness never
// depends on it, and a write failure is reported but does not stop the
// mission.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/signalsfoundry/wildfire-twin/model"
)

type Ledger struct {
	*sql.DB
}

// Open creates or opens the ledger database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral ledger.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS payouts (
			incident_id TEXT PRIMARY KEY,
			tick INTEGER,
			amount_usd DOUBLE,
			confidence DOUBLE,
			latitude DOUBLE,
			longitude DOUBLE,
			settled_at TEXT
		);
		CREATE TABLE IF NOT EXISTS ticks (
			tick INTEGER PRIMARY KEY,
			confidence DOUBLE,
			clusters INTEGER,
			phase TEXT,
			budget_remaining_usd DOUBLE,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}

	return &Ledger{db}, nil
}

// RecordTick inserts one per-tick summary row.
func (l *Ledger) RecordTick(snap model.TickSnapshot) error {
	_, err := l.Exec(
		"INSERT INTO ticks (tick, confidence, clusters, phase, budget_remaining_usd) VALUES (?, ?, ?, ?, ?)",
		snap.Tick, snap.Confidence, len(snap.Clusters),
		snap.Trigger.Phase.String(), snap.Trigger.BudgetRemainingUSD,
	)
	return err
}

// RecordPayout inserts the payout row for a settled incident.
func (l *Ledger) RecordPayout(ev model.PayoutEvent) error {
	_, err := l.Exec(
		"INSERT INTO payouts (incident_id, tick, amount_usd, confidence, latitude, longitude, settled_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		ev.IncidentID, ev.Tick, ev.AmountUSD, ev.Confidence, ev.Latitude, ev.Longitude,
		ev.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Payouts returns all settled payouts in tick order.
func (l *Ledger) Payouts() ([]model.PayoutEvent, error) {
	rows, err := l.Query(
		"SELECT incident_id, tick, amount_usd, confidence, latitude, longitude, settled_at FROM payouts ORDER BY tick")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.PayoutEvent
	for rows.Next() {
		var ev model.PayoutEvent
		var settledAt string
		if err := rows.Scan(&ev.IncidentID, &ev.Tick, &ev.AmountUSD, &ev.Confidence,
			&ev.Latitude, &ev.Longitude, &settledAt); err != nil {
			return nil, err
		}
		ev.Timestamp, err = time.Parse(time.RFC3339Nano, settledAt)
		if err != nil {
			return nil, fmt.Errorf("parse settled_at %q: %w", settledAt, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
