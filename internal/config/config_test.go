package config

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/tier-league/internal/platform/logging"
)

func clearEngineEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "APP_SERVICE_NAME", "APP_SERVICE_VERSION", "APP_LOG_LEVEL",
		"DB_URL", "ENGINE_MAX_WORKERS", "SEASON_BOOTSTRAP_YEAR",
		"TRANSITION_POLICY", "PROMOTION_SPOTS", "RELEGATION_SPOTS",
		"SCHEDULE_ROUND_INTERVAL", "SIM_HOME_ADVANTAGE", "SIM_DRAW_PROB",
		"RETRY_MAX_ATTEMPTS", "RETRY_BASE_BACKOFF", "RETRY_MAX_BACKOFF",
		"UPTRACE_ENABLED", "UPTRACE_DSN", "PPROF_ENABLED", "PPROF_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEngineEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("AppEnv = %s, want %s", cfg.AppEnv, EnvDev)
	}
	if cfg.ServiceName != "tier-league-engine" {
		t.Fatalf("ServiceName = %s", cfg.ServiceName)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.DBURL != "" {
		t.Fatalf("DBURL = %q, want empty", cfg.DBURL)
	}
	if cfg.MaxWorkers != 4 || cfg.BootstrapYear != 2026 {
		t.Fatalf("workers=%d bootstrap=%d", cfg.MaxWorkers, cfg.BootstrapYear)
	}
	if cfg.TransitionPolicy != "protect-user-teams" {
		t.Fatalf("TransitionPolicy = %s", cfg.TransitionPolicy)
	}
	if cfg.PromotionSpots != 4 || cfg.RelegationSpots != 4 {
		t.Fatalf("spots up=%d down=%d", cfg.PromotionSpots, cfg.RelegationSpots)
	}
	if cfg.RoundInterval != 168*time.Hour {
		t.Fatalf("RoundInterval = %v", cfg.RoundInterval)
	}
	if cfg.RetryMaxAttempts != 4 || cfg.RetryBaseBackoff != 200*time.Millisecond || cfg.RetryMaxBackoff != 5*time.Second {
		t.Fatalf("retry config: %d %v %v", cfg.RetryMaxAttempts, cfg.RetryBaseBackoff, cfg.RetryMaxBackoff)
	}
	if cfg.UptraceEnabled || cfg.PprofEnabled {
		t.Fatal("observability toggles default on")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEngineEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("ENGINE_MAX_WORKERS", "8")
	t.Setenv("TRANSITION_POLICY", "strict-table")
	t.Setenv("SCHEDULE_ROUND_INTERVAL", "24h")
	t.Setenv("SIM_DRAW_PROB", "0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.AppEnv != EnvProd || cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("env=%s level=%v", cfg.AppEnv, cfg.LogLevel)
	}
	if cfg.MaxWorkers != 8 || cfg.TransitionPolicy != "strict-table" {
		t.Fatalf("workers=%d policy=%s", cfg.MaxWorkers, cfg.TransitionPolicy)
	}
	if cfg.RoundInterval != 24*time.Hour || cfg.SimDrawProb != 0.2 {
		t.Fatalf("interval=%v draw=%v", cfg.RoundInterval, cfg.SimDrawProb)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
		frag  string
	}{
		{name: "bad app env", key: "APP_ENV", value: "qa", frag: "APP_ENV"},
		{name: "bad workers", key: "ENGINE_MAX_WORKERS", value: "zero", frag: "ENGINE_MAX_WORKERS"},
		{name: "workers below one", key: "ENGINE_MAX_WORKERS", value: "0", frag: "ENGINE_MAX_WORKERS"},
		{name: "draw prob out of range", key: "SIM_DRAW_PROB", value: "1.5", frag: "SIM_DRAW_PROB"},
		{name: "uptrace without dsn", key: "UPTRACE_ENABLED", value: "true", frag: "UPTRACE_DSN"},
		{name: "negative interval", key: "SCHEDULE_ROUND_INTERVAL", value: "-1h", frag: "SCHEDULE_ROUND_INTERVAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEngineEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.frag) {
				t.Fatalf("expected error mentioning %s, got %v", tc.frag, err)
			}
		})
	}
}
