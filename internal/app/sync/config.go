package sync

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds pipeline settings.
type Config struct {
	// BatchSize bounds price-history insert statements.
	BatchSize int `yaml:"batch_size" env:"SYNC_BATCH_SIZE" env-default:"100"`
	// DryRun validates and deduplicates without writing to the database.
	DryRun bool `yaml:"dry_run" env:"SYNC_DRY_RUN"`
}

// LoadConfig reads pipeline configuration from a YAML file and environment
// variables. Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("sync config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("sync config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("sync config: read env: %w", err)
	}

	return &cfg, nil
}
