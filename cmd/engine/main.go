package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/tier-league/internal/app"
	"github.com/riskibarqy/tier-league/internal/config"
	"github.com/riskibarqy/tier-league/internal/domain/team"
	"github.com/riskibarqy/tier-league/internal/observability"
	"github.com/riskibarqy/tier-league/internal/platform/logging"
	"github.com/riskibarqy/tier-league/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	tiersFlag := flag.String("tiers", defaultTiersFlag(), "comma-separated tiers to process")
	seedFlag := flag.Int64("seed", 0, "simulation seed; 0 picks one from the clock")
	workersFlag := flag.Int("workers", 0, "tier-level worker cap; 0 uses ENGINE_MAX_WORKERS")
	transitionsFlag := flag.Bool("apply-transitions", true, "apply promotion/relegation for completed seasons")
	reportFlag := flag.String("report", "-", "run report destination, a file path or - for stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		return 1
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Warn("pprof shutdown failed", "error", err)
		}
	}()

	tiers, err := parseTiers(*tiersFlag)
	if err != nil {
		logger.Error("parse tiers flag", "error", err)
		return 2
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := *workersFlag
	if workers == 0 {
		workers = cfg.MaxWorkers
	}

	gw, err := app.NewGateway(ctx, cfg, logger)
	if err != nil {
		logger.Error("build gateway", "error", err)
		return 1
	}
	defer func() { _ = gw.Close() }()

	engine, err := app.NewEngine(cfg, gw, logger)
	if err != nil {
		logger.Error("build engine", "error", err)
		return 1
	}

	logger.Info("engine run starting",
		"tiers", tiers,
		"seed", seed,
		"workers", workers,
		"apply_transitions", *transitionsFlag,
	)

	report, err := engine.Run(ctx, usecase.RunInput{
		Tiers:            tiers,
		Seed:             seed,
		MaxWorkers:       workers,
		ApplyTransitions: *transitionsFlag,
		BootstrapYear:    cfg.BootstrapYear,
	})
	if err != nil {
		logger.Error("engine run failed", "error", err)
		return 1
	}

	if err := writeReport(*reportFlag, report); err != nil {
		logger.Error("write run report", "error", err)
		return 1
	}

	failed := 0
	for _, tier := range report.Tiers {
		if tier.Error != "" {
			failed++
			logger.Error("tier run failed", "tier", tier.Tier, "error", tier.Error)
		}
	}
	if failed > 0 {
		logger.Error("engine run finished with failures", "failed_tiers", failed)
		return 1
	}

	logger.Info("engine run finished", "duration_ms", report.DurationMs, "tiers", len(report.Tiers))
	return 0
}

func defaultTiersFlag() string {
	parts := make([]string, 0, team.BottomTier)
	for tier := team.TopTier; tier <= team.BottomTier; tier++ {
		parts = append(parts, strconv.Itoa(tier))
	}
	return strings.Join(parts, ",")
}

func parseTiers(raw string) ([]int, error) {
	fields := strings.Split(raw, ",")
	tiers := make([]int, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		tier, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid tier %q: %w", field, err)
		}
		tiers = append(tiers, tier)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("no tiers selected")
	}
	return tiers, nil
}

func writeReport(dest string, report usecase.RunReport) error {
	data, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if dest == "-" || dest == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}
