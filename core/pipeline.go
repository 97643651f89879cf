package core

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/wildfire-twin/internal/logging"
	"github.com/signalsfoundry/wildfire-twin/model"
)

// Pipeline runs one full sensor-to-decision pass per tick: orbit
// position, frame synthesis, anomaly detection, confidence scoring, and
// the trigger mutation. Ticks are strictly sequential; the pipeline is
// not safe for concurrent RunTick calls and never needs to be.
type Pipeline struct {
	cfg MissionConfig

	orbit    PositionSource
	synth    *FrameSynthesizer
	detector *AnomalyDetector
	scorer   *ConfidenceScorer
	trigger  *TriggerEngine

	log    logging.Logger
	tracer trace.Tracer
}

// NewPipeline validates the mission config once and wires the stages.
// A nil orbit source builds the SGP4 source from the config's TLE. The
// random source seeds frame synthesis and must be provided for
// reproducible runs.
func NewPipeline(cfg MissionConfig, orbit PositionSource, src rand.Source, log logging.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Noop()
	}
	if orbit == nil {
		sgp4, err := NewSGP4PositionSource(cfg.Orbit)
		if err != nil {
			return nil, err
		}
		orbit = sgp4
	}

	return &Pipeline{
		cfg:      cfg,
		orbit:    orbit,
		synth:    NewFrameSynthesizer(cfg.Sensor, src),
		detector: NewAnomalyDetector(cfg.Detector),
		scorer:   NewConfidenceScorer(cfg.Scorer, cfg.Detector.TempThresholdC),
		log:      log,
		trigger:  NewTriggerEngine(cfg.Trigger),
		tracer:   otel.Tracer("wildfire-twin/core"),
	}, nil
}

// TriggerState returns a copy of the current trigger state.
func (p *Pipeline) TriggerState() model.TriggerState {
	return p.trigger.State()
}

// RunTick executes one pipeline pass and returns the committed tick
// snapshot plus the payout event if this tick settled one. Any error is
// fatal to the run.
func (p *Pipeline) RunTick(ctx context.Context, tick int, simTime time.Time) (model.TickSnapshot, *model.PayoutEvent, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.tick",
		trace.WithAttributes(attribute.Int("tick", tick)))
	defer span.End()

	ground, err := p.orbit.CurrentPosition(tick, simTime)
	if err != nil {
		span.RecordError(err)
		return model.TickSnapshot{}, nil, err
	}
	span.AddEvent("position resolved")

	grid := p.synth.Synthesize(tick, ground)
	span.AddEvent("frame synthesized")

	clusters := p.detector.Detect(&grid)
	span.AddEvent("anomalies detected")

	score := p.scorer.Score(clusters)
	vegetation, vegDelta := AssessVegetation(&grid, p.cfg.VegetationBaselineC)

	var fire *model.FireLocation
	var burn *model.BurnScar
	if len(clusters) > 0 {
		winner := PickWinningCluster(clusters)
		if winner.PixelCount == 0 {
			err := fmt.Errorf("%w: winning cluster has no pixels at tick %d", ErrDegenerateInput, tick)
			span.RecordError(err)
			return model.TickSnapshot{}, nil, err
		}
		loc := GeolocateFire(winner, ground, p.cfg.SensorGSDM)
		scar := EstimateBurnScar(winner, p.cfg.SensorGSDM)
		fire = &loc
		burn = &scar
	}

	state, payout := p.trigger.Mutate(tick, simTime, score, fire)

	span.SetAttributes(
		attribute.Int("clusters", len(clusters)),
		attribute.Float64("confidence", score),
		attribute.String("trigger_phase", state.Phase.String()),
	)

	p.log.Info(ctx, "tick complete",
		logging.Int("tick", tick),
		logging.Int("clusters", len(clusters)),
		logging.Float64("confidence", score),
		logging.String("phase", state.Phase.String()),
		logging.Float64("budget_remaining_usd", state.BudgetRemainingUSD),
	)
	if payout != nil {
		p.log.Info(ctx, "payout settled",
			logging.String("incident_id", payout.IncidentID),
			logging.Int("tick", payout.Tick),
			logging.Float64("amount_usd", payout.AmountUSD),
			logging.Float64("latitude", payout.Latitude),
			logging.Float64("longitude", payout.Longitude),
		)
	}

	snapshot := model.TickSnapshot{
		Tick:            tick,
		Timestamp:       simTime,
		Ground:          ground,
		Grid:            grid,
		Clusters:        clusters,
		Confidence:      score,
		Trigger:         state,
		VegetationRisk:  vegetation,
		VegetationDelta: vegDelta,
		BurnScar:        burn,
		Fire:            fire,
	}
	return snapshot, payout, nil
}
