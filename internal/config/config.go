package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultModelFeatures is the v1 regression feature list. The feature set is
// part of the model contract: changing it changes every prediction, so it is
// declared here (and overridable via MODEL_FEATURES) rather than inferred
// from the summary columns. The fit needs more providers than features plus
// one, so the default list stays well under the default NUM_PROVIDERS.
var DefaultModelFeatures = []string{
	"total_patients",
	"avg_cost",
	"contact_count",
	"marketing_cost",
	"total_claim_amount",
}

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	DataDir              string   `mapstructure:"DATA_DIR"`
	OutDir               string   `mapstructure:"OUT_DIR"`
	Seed                 int64    `mapstructure:"SEED"`
	NumPatients          int      `mapstructure:"NUM_PATIENTS"`
	NumProviders         int      `mapstructure:"NUM_PROVIDERS"`
	DatabaseURL          string   `mapstructure:"DATABASE_URL"`
	DBMaxConns           int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	ModelFeatures        []string `mapstructure:"MODEL_FEATURES"`
	ModelFeaturesVersion string   `mapstructure:"MODEL_FEATURES_VERSION"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("OUT_DIR", "out")
	v.SetDefault("SEED", 42)
	v.SetDefault("NUM_PATIENTS", 2000)
	v.SetDefault("NUM_PROVIDERS", 8)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MODEL_FEATURES", strings.Join(DefaultModelFeatures, ","))
	v.SetDefault("MODEL_FEATURES_VERSION", "v1")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("OUT_DIR")
	v.BindEnv("SEED")
	v.BindEnv("NUM_PATIENTS")
	v.BindEnv("NUM_PROVIDERS")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("MODEL_FEATURES")
	v.BindEnv("MODEL_FEATURES_VERSION")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Comma-separated keys are re-split here rather than trusting the
	// decoder's slice hook, which leaves whitespace on the elements.
	if origins := v.GetString("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitTrim(origins)
	}
	if features := v.GetString("MODEL_FEATURES"); features != "" {
		cfg.ModelFeatures = splitTrim(features)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration describes a runnable pipeline.
// DATABASE_URL is deliberately not required here: only the `load` command and
// the Postgres-backed `serve` mode need it, and they check for it themselves.
func (c *Config) Validate() error {
	if c.NumPatients <= 0 {
		return fmt.Errorf("NUM_PATIENTS must be positive, got %d", c.NumPatients)
	}
	if c.NumProviders <= 0 {
		return fmt.Errorf("NUM_PROVIDERS must be positive, got %d", c.NumProviders)
	}
	if len(c.ModelFeatures) == 0 {
		return fmt.Errorf("MODEL_FEATURES must name at least one feature column")
	}
	if c.ModelFeaturesVersion == "" {
		return fmt.Errorf("MODEL_FEATURES_VERSION is required")
	}
	return nil
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
