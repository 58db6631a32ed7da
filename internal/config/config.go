package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jengzang/rollcall-backend-go/internal/decision"
)

//go:embed thresholds.yaml
var thresholdsYAML []byte

// Config holds application configuration
type Config struct {
	Port       string
	DBPath     string
	JWTSecret  string
	RateLimit  int           // requests per window per IP
	RateWindow time.Duration
	Thresholds decision.Thresholds
}

// Load reads configuration from the environment, with an optional .env
// file and embedded threshold defaults.
func Load() (*Config, error) {
	// Missing .env is fine; env vars win either way
	_ = godotenv.Load()

	var thresholds decision.Thresholds
	if err := yaml.Unmarshal(thresholdsYAML, &thresholds); err != nil {
		return nil, fmt.Errorf("failed to parse embedded thresholds: %w", err)
	}
	applyThresholdOverrides(&thresholds)

	cfg := &Config{
		Port:       envString("PORT", ":8080"),
		DBPath:     envString("DB_PATH", "./data/rollcall.db"),
		JWTSecret:  envString("JWT_SECRET", "change-me-in-production"),
		RateLimit:  envInt("RATE_LIMIT", 120),
		RateWindow: time.Minute,
		Thresholds: thresholds,
	}
	return cfg, nil
}

func applyThresholdOverrides(t *decision.Thresholds) {
	t.ManualReview = envFloat("THRESHOLD_MANUAL_REVIEW", t.ManualReview)
	t.LowConfidence = envFloat("THRESHOLD_LOW_CONFIDENCE", t.LowConfidence)
	t.SuggestConfirm = envFloat("THRESHOLD_SUGGEST_CONFIRM", t.SuggestConfirm)
	t.AutoAccept = envFloat("THRESHOLD_AUTO_ACCEPT", t.AutoAccept)
	t.LowLightAdjustment = envFloat("THRESHOLD_LOW_LIGHT_ADJUSTMENT", t.LowLightAdjustment)
	t.QualityFloor = envFloat("THRESHOLD_QUALITY_FLOOR", t.QualityFloor)
	t.MatchFloor = envFloat("THRESHOLD_MATCH_FLOOR", t.MatchFloor)
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return f
	}
	return defaultVal
}
