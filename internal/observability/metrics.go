package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MissionCollector bundles the Prometheus metrics for a simulation run
// and exposes a ready-to-use /metrics handler.
type MissionCollector struct {
	gatherer prometheus.Gatherer

	TicksTotal    prometheus.Counter
	TickDurations prometheus.Histogram

	ClustersDetected prometheus.Gauge
	ConfidenceScore  prometheus.Gauge
	BudgetRemaining  prometheus.Gauge

	PayoutsTotal    prometheus.Counter
	PayoutAmountUSD prometheus.Counter
}

// NewMissionCollector registers the mission metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil. Re-registration of identical collectors is tolerated so
// multiple runs in one process (tests) don't collide.
func NewMissionCollector(reg prometheus.Registerer) (*MissionCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "twin_ticks_total",
		Help: "Total number of completed simulation ticks.",
	}), "twin_ticks_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "twin_tick_duration_seconds",
		Help:    "Pipeline latency of one tick in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "twin_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	clusters, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "twin_clusters_detected",
		Help: "Hot clusters surviving detection in the latest tick.",
	}), "twin_clusters_detected")
	if err != nil {
		return nil, err
	}
	confidence, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "twin_confidence_score",
		Help: "Confidence score of the latest tick, in [0,1].",
	}), "twin_confidence_score")
	if err != nil {
		return nil, err
	}
	budget, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "twin_budget_remaining_usd",
		Help: "Mission budget remaining in USD.",
	}), "twin_budget_remaining_usd")
	if err != nil {
		return nil, err
	}

	payouts, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "twin_payouts_total",
		Help: "Total number of settled payout events.",
	}), "twin_payouts_total")
	if err != nil {
		return nil, err
	}
	payoutAmount, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "twin_payout_amount_usd_total",
		Help: "Cumulative USD settled across all payout events.",
	}), "twin_payout_amount_usd_total")
	if err != nil {
		return nil, err
	}

	return &MissionCollector{
		gatherer:         gatherer,
		TicksTotal:       ticks,
		TickDurations:    durations,
		ClustersDetected: clusters,
		ConfidenceScore:  confidence,
		BudgetRemaining:  budget,
		PayoutsTotal:     payouts,
		PayoutAmountUSD:  payoutAmount,
	}, nil
}

// RecordTick updates the per-tick metrics after a pipeline pass.
func (c *MissionCollector) RecordTick(durationSeconds float64, clusters int, confidence, budgetRemaining float64) {
	if c == nil {
		return
	}
	c.TicksTotal.Inc()
	c.TickDurations.Observe(durationSeconds)
	c.ClustersDetected.Set(float64(clusters))
	c.ConfidenceScore.Set(confidence)
	c.BudgetRemaining.Set(budgetRemaining)
}

// RecordPayout counts a settled payout event.
func (c *MissionCollector) RecordPayout(amountUSD float64) {
	if c == nil {
		return
	}
	c.PayoutsTotal.Inc()
	c.PayoutAmountUSD.Add(amountUSD)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *MissionCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
