package config

import (
	"os"

	"golikert/domain/plan"
	"golikert/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths  PathConfig
	Run    RunConfig
	Server ServerConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	PlanFile  string
	DataFile  string
	OutputDir string
}

// RunConfig holds pipeline run settings
type RunConfig struct {
	Persona     plan.Persona
	CodeVersion string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Paths: PathConfig{
			PlanFile:  getEnvOrDefault("PLAN_PATH", "config/analysis_plan.yml"),
			DataFile:  getEnvOrDefault("DATA_PATH", "data/raw/survey_latest.csv"),
			OutputDir: getEnvOrDefault("OUTPUT_DIR", "outputs"),
		},
		Run: RunConfig{
			Persona:     plan.Persona(getEnvOrDefault("PERSONA", string(plan.PersonaCampaign))),
			CodeVersion: getEnvOrDefault("CODE_VERSION", "dev"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("SERVER_PORT", "8080"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Run.Persona {
	case plan.PersonaCampaign, plan.PersonaMinfin:
	default:
		return errors.New(errors.CodeConfigInvalid, "PERSONA must be campaign or minfin")
	}
	if c.Paths.PlanFile == "" {
		return errors.New(errors.CodeConfigInvalid, "PLAN_PATH must not be empty")
	}
	if c.Paths.DataFile == "" {
		return errors.New(errors.CodeConfigInvalid, "DATA_PATH must not be empty")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
