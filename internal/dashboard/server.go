// Package dashboard serves the read-only mission view: an HTML status
// page, JSON snapshot and payout endpoints, an ECharts rendering of the
// latest thermal frame, and Prometheus metrics. Handlers only ever read
// committed snapshots; nothing here can mutate core state.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/signalsfoundry/wildfire-twin/internal/logging"
	"github.com/signalsfoundry/wildfire-twin/internal/sim/state"
	"github.com/signalsfoundry/wildfire-twin/model"
)

// WebServer exposes the mission state over HTTP.
type WebServer struct {
	state   *state.MissionState
	metrics http.Handler
	log     logging.Logger
	mission string
}

// NewWebServer builds a server over the given state store. metrics may
// be nil, in which case /metrics is not registered.
func NewWebServer(st *state.MissionState, metrics http.Handler, log logging.Logger, missionName string) *WebServer {
	if log == nil {
		log = logging.Noop()
	}
	return &WebServer{state: st, metrics: metrics, log: log, mission: missionName}
}

// ServeMux returns the route table.
func (ws *WebServer) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleHome)
	mux.HandleFunc("/snapshot", ws.handleSnapshot)
	mux.HandleFunc("/payouts", ws.handlePayouts)
	mux.HandleFunc("/thermal", ws.handleThermal)
	if ws.metrics != nil {
		mux.Handle("/metrics", ws.metrics)
	}
	return mux
}

// handleHome renders the wildfire insurance status page.
func (ws *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	snap, ok := ws.state.Latest()
	fireDetected := ok && snap.FireDetected()

	lat, lon, confidence := "N/A", "N/A", "N/A"
	payoutStatus := "Not Triggered"
	budget := ""
	if ok {
		confidence = fmt.Sprintf("%.0f%%", snap.Confidence*100)
		budget = fmt.Sprintf("<p><b>Budget Remaining:</b> $%.2f</p>", snap.Trigger.BudgetRemainingUSD)
		if snap.Fire != nil {
			lat = fmt.Sprintf("%.4f", snap.Fire.Latitude)
			lon = fmt.Sprintf("%.4f", snap.Fire.Longitude)
		}
		switch snap.Trigger.Phase {
		case model.PhaseSettled, model.PhaseExhausted:
			if ws.state.PayoutCount() > 0 {
				payoutStatus = "Executed"
			}
		case model.PhaseArmed, model.PhaseFired:
			payoutStatus = "Armed"
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<h2>Wildfire Insurance Dashboard | %s</h2>
<p><b>Fire Detected:</b> %v</p>
<p><b>Latitude:</b> %s</p>
<p><b>Longitude:</b> %s</p>
<p><b>Confidence:</b> %s</p>
<p><b>Payout Status:</b> %s</p>
%s<p><a href="/thermal">Thermal map</a> | <a href="/snapshot">Snapshot JSON</a> | <a href="/payouts">Payouts</a></p>
`, ws.mission, fireDetected, lat, lon, confidence, payoutStatus, budget)
}

// handleSnapshot serves the latest committed tick snapshot as JSON.
func (ws *WebServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := ws.state.Latest()
	if !ok {
		ws.writeJSONError(w, http.StatusNotFound, "no tick committed yet")
		return
	}
	ws.writeJSON(w, snap)
}

// handlePayouts serves the settled payout history as JSON.
func (ws *WebServer) handlePayouts(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, ws.state.Payouts())
}

// handleThermal renders the latest grid as a colored scatter heatmap,
// one point per pixel, temperature on the visual map.
func (ws *WebServer) handleThermal(w http.ResponseWriter, r *http.Request) {
	snap, ok := ws.state.Latest()
	if !ok {
		ws.writeJSONError(w, http.StatusNotFound, "no tick committed yet")
		return
	}

	data := make([]opts.ScatterData, 0, model.GridSize*model.GridSize)
	for row := 0; row < model.GridSize; row++ {
		for col := 0; col < model.GridSize; col++ {
			// Flip rows so row 0 renders at the top, sensor readout order.
			data = append(data, opts.ScatterData{
				Value: []interface{}{col, model.GridSize - 1 - row, snap.Grid.At(row, col)},
			})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Thermal IR Map",
			Width:     "760px",
			Height:    "760px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Thermal IR Map | Tick %d", snap.Tick),
			Subtitle: fmt.Sprintf("confidence=%.2f clusters=%d phase=%s", snap.Confidence, len(snap.Clusters), snap.Trigger.Phase),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: model.GridSize - 1, Name: "Pixel X"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: model.GridSize - 1, Name: "Pixel Y"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        20,
			Max:        60,
			Dimension:  "2",
			InRange: &opts.VisualMapInRange{
				Color: []string{"#000004", "#1f0c48", "#550f6d", "#88226a", "#ba3655", "#e35933", "#f98c0a", "#f9c932", "#fcffa4"},
			},
		}),
	)
	scatter.AddSeries("temperature_c", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ws.log.Error(context.Background(), "encode response", logging.String("error", err.Error()))
	}
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
