package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordTickUpdatesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewMissionCollector(reg)
	if err != nil {
		t.Fatalf("NewMissionCollector: %v", err)
	}

	collector.RecordTick(0.002, 2, 0.91, 1500)
	collector.RecordTick(0.003, 0, 0, 1500)

	if got := testutil.ToFloat64(collector.TicksTotal); got != 2 {
		t.Fatalf("twin_ticks_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.ClustersDetected); got != 0 {
		t.Fatalf("twin_clusters_detected = %v, want latest value 0", got)
	}
	if got := testutil.ToFloat64(collector.BudgetRemaining); got != 1500 {
		t.Fatalf("twin_budget_remaining_usd = %v, want 1500", got)
	}

	if count := histogramSampleCount(t, reg, "twin_tick_duration_seconds"); count != 2 {
		t.Fatalf("twin_tick_duration_seconds sample_count = %d, want 2", count)
	}
}

func TestRecordPayoutAccumulates(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewMissionCollector(reg)
	if err != nil {
		t.Fatalf("NewMissionCollector: %v", err)
	}

	collector.RecordPayout(1000)
	collector.RecordPayout(1500)

	if got := testutil.ToFloat64(collector.PayoutsTotal); got != 2 {
		t.Fatalf("twin_payouts_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.PayoutAmountUSD); got != 2500 {
		t.Fatalf("twin_payout_amount_usd_total = %v, want 2500", got)
	}
}

func TestNewMissionCollectorToleratesReRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMissionCollector(reg)
	if err != nil {
		t.Fatalf("first NewMissionCollector: %v", err)
	}
	second, err := NewMissionCollector(reg)
	if err != nil {
		t.Fatalf("second NewMissionCollector: %v", err)
	}

	// Both handles must drive the same registered series.
	first.RecordTick(0.001, 1, 0.5, 2500)
	second.RecordTick(0.001, 1, 0.5, 2500)
	if got := testutil.ToFloat64(first.TicksTotal); got != 2 {
		t.Fatalf("twin_ticks_total = %v, want 2 across both handles", got)
	}
}

func TestHandlerExposesMissionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewMissionCollector(reg)
	if err != nil {
		t.Fatalf("NewMissionCollector: %v", err)
	}
	collector.RecordTick(0.002, 3, 0.87, 2500)
	collector.RecordPayout(2500)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"twin_ticks_total",
		"twin_tick_duration_seconds",
		"twin_clusters_detected",
		"twin_confidence_score",
		"twin_budget_remaining_usd",
		"twin_payouts_total",
		"twin_payout_amount_usd_total",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var collector *MissionCollector
	collector.RecordTick(0.001, 1, 0.5, 100)
	collector.RecordPayout(100)
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	var families []*dto.MetricFamily
	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}
