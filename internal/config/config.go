package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/tier-league/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the engine. An empty DBURL
// selects the in-memory gateway with seed data.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	DBURL string

	MaxWorkers       int
	BootstrapYear    int
	TransitionPolicy string
	PromotionSpots   int
	RelegationSpots  int
	RoundInterval    time.Duration
	SimHomeAdvantage float64
	SimDrawProb      float64
	RetryMaxAttempts int
	RetryBaseBackoff time.Duration
	RetryMaxBackoff  time.Duration

	UptraceEnabled bool
	UptraceDSN     string
	PprofEnabled   bool
	PprofAddr      string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	maxWorkers, err := getEnvAsInt("ENGINE_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse ENGINE_MAX_WORKERS: %w", err)
	}
	if maxWorkers < 1 {
		return Config{}, fmt.Errorf("ENGINE_MAX_WORKERS must be >= 1")
	}

	bootstrapYear, err := getEnvAsInt("SEASON_BOOTSTRAP_YEAR", 2026)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_BOOTSTRAP_YEAR: %w", err)
	}
	if bootstrapYear <= 0 {
		return Config{}, fmt.Errorf("SEASON_BOOTSTRAP_YEAR must be > 0")
	}

	promotionSpots, err := getEnvAsInt("PROMOTION_SPOTS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PROMOTION_SPOTS: %w", err)
	}
	if promotionSpots < 0 {
		return Config{}, fmt.Errorf("PROMOTION_SPOTS must be >= 0")
	}

	relegationSpots, err := getEnvAsInt("RELEGATION_SPOTS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RELEGATION_SPOTS: %w", err)
	}
	if relegationSpots < 0 {
		return Config{}, fmt.Errorf("RELEGATION_SPOTS must be >= 0")
	}

	roundInterval, err := time.ParseDuration(getEnv("SCHEDULE_ROUND_INTERVAL", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULE_ROUND_INTERVAL: %w", err)
	}
	if roundInterval <= 0 {
		return Config{}, fmt.Errorf("SCHEDULE_ROUND_INTERVAL must be > 0")
	}

	simHomeAdvantage, err := getEnvAsFloat("SIM_HOME_ADVANTAGE", 6.0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SIM_HOME_ADVANTAGE: %w", err)
	}
	simDrawProb, err := getEnvAsFloat("SIM_DRAW_PROB", 0.26)
	if err != nil {
		return Config{}, fmt.Errorf("parse SIM_DRAW_PROB: %w", err)
	}
	if simDrawProb <= 0 || simDrawProb >= 1 {
		return Config{}, fmt.Errorf("SIM_DRAW_PROB must be in (0, 1)")
	}

	retryMaxAttempts, err := getEnvAsInt("RETRY_MAX_ATTEMPTS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RETRY_MAX_ATTEMPTS: %w", err)
	}
	if retryMaxAttempts < 1 {
		return Config{}, fmt.Errorf("RETRY_MAX_ATTEMPTS must be >= 1")
	}

	retryBaseBackoff, err := time.ParseDuration(getEnv("RETRY_BASE_BACKOFF", "200ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RETRY_BASE_BACKOFF: %w", err)
	}
	if retryBaseBackoff <= 0 {
		return Config{}, fmt.Errorf("RETRY_BASE_BACKOFF must be > 0")
	}

	retryMaxBackoff, err := time.ParseDuration(getEnv("RETRY_MAX_BACKOFF", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RETRY_MAX_BACKOFF: %w", err)
	}
	if retryMaxBackoff < retryBaseBackoff {
		return Config{}, fmt.Errorf("RETRY_MAX_BACKOFF must be >= RETRY_BASE_BACKOFF")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return Config{
		AppEnv:           appEnv,
		ServiceName:      getEnv("APP_SERVICE_NAME", "tier-league-engine"),
		ServiceVersion:   getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:         parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:            strings.TrimSpace(getEnv("DB_URL", "")),
		MaxWorkers:       maxWorkers,
		BootstrapYear:    bootstrapYear,
		TransitionPolicy: strings.TrimSpace(getEnv("TRANSITION_POLICY", "protect-user-teams")),
		PromotionSpots:   promotionSpots,
		RelegationSpots:  relegationSpots,
		RoundInterval:    roundInterval,
		SimHomeAdvantage: simHomeAdvantage,
		SimDrawProb:      simDrawProb,
		RetryMaxAttempts: retryMaxAttempts,
		RetryBaseBackoff: retryBaseBackoff,
		RetryMaxBackoff:  retryMaxBackoff,
		UptraceEnabled:   uptraceEnabled,
		UptraceDSN:       uptraceDSN,
		PprofEnabled:     pprofEnabled,
		PprofAddr:        pprofAddr,
	}, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseFloat(value, 64)
}
