package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signalsfoundry/wildfire-twin/core"
	"github.com/signalsfoundry/wildfire-twin/internal/dashboard"
	"github.com/signalsfoundry/wildfire-twin/internal/export"
	"github.com/signalsfoundry/wildfire-twin/internal/ledger"
	"github.com/signalsfoundry/wildfire-twin/internal/logging"
	"github.com/signalsfoundry/wildfire-twin/internal/observability"
	"github.com/signalsfoundry/wildfire-twin/internal/sim/state"
	"github.com/signalsfoundry/wildfire-twin/timectrl"
)

func main() {
	configPath := flag.String("config", "", "mission config YAML (defaults used when empty)")
	ticks := flag.Int("ticks", 10, "number of simulation ticks (0 = run until interrupted)")
	accelerated := flag.Bool("accelerated", false, "run ticks back-to-back instead of real time")
	listen := flag.String("listen", "127.0.0.1:5001", "dashboard listen address (empty = no dashboard)")
	outputDir := flag.String("output-dir", "outputs", "thermal map PNG directory (empty = no export)")
	ledgerPath := flag.String("ledger", "", "payout ledger SQLite path (empty = no ledger)")
	seed := flag.Uint64("seed", 1, "random seed for frame synthesis")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *configPath, *ticks, *accelerated, *listen, *outputDir, *ledgerPath, *seed); err != nil {
		log.Error(ctx, "mission failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logging.Logger, configPath string, ticks int, accelerated bool, listen, outputDir, ledgerPath string, seed uint64) error {
	cfg, err := core.LoadMissionConfig(configPath)
	if err != nil {
		return err
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewMissionCollector(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	st := state.NewMissionState(log, state.WithMetricsRecorder(collector))

	src := rand.NewPCG(seed, seed+1)
	pipeline, err := core.NewPipeline(cfg, nil, src, log)
	if err != nil {
		return err
	}

	var book *ledger.Ledger
	if ledgerPath != "" {
		book, err = ledger.Open(ledgerPath)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer book.Close()
	}

	var maps *export.ThermalMapWriter
	if outputDir != "" {
		maps, err = export.NewThermalMapWriter(outputDir)
		if err != nil {
			return err
		}
	}

	if listen != "" {
		ws := dashboard.NewWebServer(st, collector.Handler(), log, cfg.Orbit.Name)
		srv := &http.Server{Addr: listen, Handler: ws.ServeMux()}
		go func() {
			log.Info(ctx, "dashboard listening", logging.String("addr", listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "dashboard server stopped", logging.String("error", err.Error()))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	mode := timectrl.RealTime
	if accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(time.Now().UTC(), cfg.TickInterval.Std(), mode)

	log.Info(ctx, "starting mission",
		logging.String("satellite", cfg.Orbit.Name),
		logging.Float64("budget_usd", cfg.Trigger.MissionBudgetUSD),
		logging.Int("ticks", ticks),
	)

	err = tc.Run(ctx, ticks, func(ctx context.Context, tick int, simTime time.Time) error {
		start := time.Now()
		snap, payout, err := pipeline.RunTick(ctx, tick, simTime)
		if err != nil {
			return err
		}
		st.Commit(ctx, snap, payout, time.Since(start).Seconds())

		// Ledger and export failures are observer failures, not mission
		// failures.
		if book != nil {
			if err := book.RecordTick(snap); err != nil {
				log.Warn(ctx, "ledger tick write failed", logging.String("error", err.Error()))
			}
			if payout != nil {
				if err := book.RecordPayout(*payout); err != nil {
					log.Warn(ctx, "ledger payout write failed", logging.String("error", err.Error()))
				}
			}
		}
		if maps != nil {
			if _, err := maps.WriteThermalMap(&snap.Grid, tick); err != nil {
				log.Warn(ctx, "thermal map export failed", logging.String("error", err.Error()))
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	final := pipeline.TriggerState()
	log.Info(ctx, "mission complete",
		logging.Int("ticks", st.TickCount()),
		logging.Int("payouts", st.PayoutCount()),
		logging.String("phase", final.Phase.String()),
		logging.Float64("budget_remaining_usd", final.BudgetRemainingUSD),
	)
	return nil
}
