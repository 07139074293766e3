package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/draftwise/draft-api/internal/models"
)

type Config struct {
	// Server
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`

	// CORS
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Storage
	DataDir      string `yaml:"data_dir"`      // parsed match partitions (builder input)
	ArtifactsDir string `yaml:"artifacts_dir"` // run directories + registry state

	// Optional recommendation cache
	RedisURL string        `yaml:"redis_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Worker pool
	WorkerCount   int           `yaml:"worker_count"`
	QueueSize     int           `yaml:"queue_size"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`

	// Explanation backend
	GenAIAPIKey  string        `yaml:"genai_api_key"`
	GenAIModel   string        `yaml:"genai_model"`
	GenAITimeout time.Duration `yaml:"genai_timeout"`

	// Model parameters
	Smoothing SmoothingSettings `yaml:"smoothing"`
	Scoring   ScoringSettings   `yaml:"scoring"`
}

// SmoothingSettings mirrors models.SmoothingConfig for config files.
type SmoothingSettings struct {
	RoleAlpha  float64 `yaml:"role_alpha"`
	RoleBeta   float64 `yaml:"role_beta"`
	PairAlpha  float64 `yaml:"pair_alpha"`
	PairBeta   float64 `yaml:"pair_beta"`
	MinSamples int     `yaml:"min_samples"`
}

// ScoringSettings mirrors models.ScoringConfig for config files.
type ScoringSettings struct {
	RoleStrengthWeight float64 `yaml:"role_strength_weight"`
	SynergyWeight      float64 `yaml:"synergy_weight"`
	CounterWeight      float64 `yaml:"counter_weight"`
	LogitScale         float64 `yaml:"logit_scale"`
}

// Load loads configuration from environment variables, with an optional
// YAML overlay pointed at by CONFIG_FILE applied first. Environment
// variables win over the file.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)

	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.ArtifactsDir = getEnv("ARTIFACTS_DIR", cfg.ArtifactsDir)

	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", cfg.CacheTTL)

	cfg.WorkerCount = getEnvInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.QueueSize = getEnvInt("QUEUE_SIZE", cfg.QueueSize)
	cfg.BatchSize = getEnvInt("BATCH_SIZE", cfg.BatchSize)
	cfg.FlushInterval = getEnvDuration("FLUSH_INTERVAL", cfg.FlushInterval)

	cfg.GenAIAPIKey = getEnv("GEMINI_API_KEY", cfg.GenAIAPIKey)
	cfg.GenAIModel = getEnv("GEMINI_MODEL", cfg.GenAIModel)
	cfg.GenAITimeout = getEnvDuration("GEMINI_TIMEOUT", cfg.GenAITimeout)

	cfg.Smoothing.RoleAlpha = getEnvFloat("SMOOTHING_ROLE_ALPHA", cfg.Smoothing.RoleAlpha)
	cfg.Smoothing.RoleBeta = getEnvFloat("SMOOTHING_ROLE_BETA", cfg.Smoothing.RoleBeta)
	cfg.Smoothing.PairAlpha = getEnvFloat("SMOOTHING_PAIR_ALPHA", cfg.Smoothing.PairAlpha)
	cfg.Smoothing.PairBeta = getEnvFloat("SMOOTHING_PAIR_BETA", cfg.Smoothing.PairBeta)
	cfg.Smoothing.MinSamples = getEnvInt("SMOOTHING_MIN_SAMPLES", cfg.Smoothing.MinSamples)

	cfg.Scoring.RoleStrengthWeight = getEnvFloat("SCORING_ROLE_WEIGHT", cfg.Scoring.RoleStrengthWeight)
	cfg.Scoring.SynergyWeight = getEnvFloat("SCORING_SYNERGY_WEIGHT", cfg.Scoring.SynergyWeight)
	cfg.Scoring.CounterWeight = getEnvFloat("SCORING_COUNTER_WEIGHT", cfg.Scoring.CounterWeight)
	cfg.Scoring.LogitScale = getEnvFloat("SCORING_LOGIT_SCALE", cfg.Scoring.LogitScale)

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", strings.Join(cfg.AllowedOrigins, ","))
	cfg.AllowedOrigins = nil
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if err := cfg.SmoothingConfig().Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ScoringConfig().Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	smoothing := models.DefaultSmoothingConfig()
	scoring := models.DefaultScoringConfig()
	return &Config{
		Port:           8080,
		Env:            "development",
		AllowedOrigins: []string{"http://localhost:3000"},
		DataDir:        "data/parsed",
		ArtifactsDir:   "artifacts",
		CacheTTL:       5 * time.Minute,
		WorkerCount:    4,
		QueueSize:      10000,
		BatchSize:      500,
		FlushInterval:  time.Second,
		GenAIModel:     "gemini-2.0-flash",
		GenAITimeout:   10 * time.Second,
		Smoothing: SmoothingSettings{
			RoleAlpha:  smoothing.RoleAlpha,
			RoleBeta:   smoothing.RoleBeta,
			PairAlpha:  smoothing.PairAlpha,
			PairBeta:   smoothing.PairBeta,
			MinSamples: smoothing.MinSamples,
		},
		Scoring: ScoringSettings{
			RoleStrengthWeight: scoring.RoleStrengthWeight,
			SynergyWeight:      scoring.SynergyWeight,
			CounterWeight:      scoring.CounterWeight,
			LogitScale:         scoring.LogitScale,
		},
	}
}

// SmoothingConfig converts the settings into the domain value object.
func (c *Config) SmoothingConfig() models.SmoothingConfig {
	return models.SmoothingConfig{
		RoleAlpha:  c.Smoothing.RoleAlpha,
		RoleBeta:   c.Smoothing.RoleBeta,
		PairAlpha:  c.Smoothing.PairAlpha,
		PairBeta:   c.Smoothing.PairBeta,
		MinSamples: c.Smoothing.MinSamples,
	}
}

// ScoringConfig converts the settings into the domain value object.
func (c *Config) ScoringConfig() models.ScoringConfig {
	return models.ScoringConfig{
		RoleStrengthWeight: c.Scoring.RoleStrengthWeight,
		SynergyWeight:      c.Scoring.SynergyWeight,
		CounterWeight:      c.Scoring.CounterWeight,
		LogitScale:         c.Scoring.LogitScale,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
