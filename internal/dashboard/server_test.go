package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/wildfire-twin/internal/sim/state"
	"github.com/signalsfoundry/wildfire-twin/model"
)

func firingSnapshot() model.TickSnapshot {
	var grid model.ThermalGrid
	for r := 0; r < model.GridSize; r++ {
		for c := 0; c < model.GridSize; c++ {
			grid[r][c] = 27
		}
	}
	grid[30][30] = 58
	grid[30][31] = 59
	grid[31][30] = 60

	pixels := []model.Pixel{{Row: 30, Col: 30}, {Row: 30, Col: 31}, {Row: 31, Col: 30}}
	cluster := model.NewHotCluster(pixels, &grid)

	return model.TickSnapshot{
		Tick:      8,
		Timestamp: time.Date(2023, time.August, 4, 12, 0, 8, 0, time.UTC),
		Ground:    model.GroundTrack{Latitude: 37.5, Longitude: -120.25},
		Grid:      grid,
		Clusters:  []model.HotCluster{cluster},
		Confidence: 0.91,
		Trigger: model.TriggerState{
			Phase:              model.PhaseArmed,
			ConsecutiveHits:    3,
			BudgetRemainingUSD: 2500,
			IncidentID:         "incident-1",
		},
		VegetationRisk: model.VegetationRiskLow,
		Fire:           &model.FireLocation{Latitude: 37.4981, Longitude: -120.2474},
	}
}

func newTestServer(t *testing.T, st *state.MissionState) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewWebServer(st, nil, nil, "WILDFIRE_WATCH_1").ServeMux())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSnapshotBeforeFirstTickIs404(t *testing.T) {
	srv := newTestServer(t, state.NewMissionState(nil))

	resp := get(t, srv.URL+"/snapshot")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "no tick committed")
}

func TestSnapshotServesLatestTick(t *testing.T) {
	st := state.NewMissionState(nil)
	st.Commit(context.Background(), firingSnapshot(), nil, 0.001)
	srv := newTestServer(t, st)

	resp := get(t, srv.URL+"/snapshot")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap model.TickSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 8, snap.Tick)
	assert.Equal(t, 0.91, snap.Confidence)
	assert.Equal(t, model.PhaseArmed, snap.Trigger.Phase)
	require.NotNil(t, snap.Fire)
	assert.Equal(t, 37.4981, snap.Fire.Latitude)
}

func TestHomePageReportsMissionStatus(t *testing.T) {
	st := state.NewMissionState(nil)
	st.Commit(context.Background(), firingSnapshot(), nil, 0.001)
	srv := newTestServer(t, st)

	resp := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "WILDFIRE_WATCH_1")
	assert.Contains(t, body, "Fire Detected:</b> true")
	assert.Contains(t, body, "37.4981")
	assert.Contains(t, body, "-120.2474")
	assert.Contains(t, body, "91%")
	assert.Contains(t, body, "Payout Status:</b> Armed")
	assert.Contains(t, body, "$2500.00")
}

func TestHomePageBeforeFirstTick(t *testing.T) {
	srv := newTestServer(t, state.NewMissionState(nil))

	resp := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "Fire Detected:</b> false")
	assert.Contains(t, body, "Not Triggered")
}

func TestPayoutsEndpoint(t *testing.T) {
	st := state.NewMissionState(nil)
	st.Commit(context.Background(), firingSnapshot(), &model.PayoutEvent{
		IncidentID: "incident-1",
		Tick:       8,
		AmountUSD:  2500,
		Confidence: 0.91,
	}, 0.001)
	srv := newTestServer(t, st)

	resp := get(t, srv.URL+"/payouts")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []model.PayoutEvent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, "incident-1", events[0].IncidentID)
	assert.Equal(t, 2500.0, events[0].AmountUSD)
}

func TestThermalRendersChart(t *testing.T) {
	st := state.NewMissionState(nil)
	st.Commit(context.Background(), firingSnapshot(), nil, 0.001)
	srv := newTestServer(t, st)

	resp := get(t, srv.URL+"/thermal")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "echarts")
	assert.Contains(t, body, "Thermal IR Map")
}

func TestThermalBeforeFirstTickIs404(t *testing.T) {
	srv := newTestServer(t, state.NewMissionState(nil))
	resp := get(t, srv.URL+"/thermal")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownPathIs404(t *testing.T) {
	srv := newTestServer(t, state.NewMissionState(nil))
	resp := get(t, srv.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
