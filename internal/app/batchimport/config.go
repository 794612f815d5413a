package batchimport

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds batch-import tool settings. CLI flags override whatever the
// file or environment provide.
type Config struct {
	File   string `yaml:"file"   env:"BATCH_IMPORT_FILE"`
	Apply  bool   `yaml:"apply"  env:"BATCH_IMPORT_APPLY"`
	Report string `yaml:"report" env:"BATCH_IMPORT_REPORT"`
}

// LoadConfig reads batch-import configuration from a YAML file and environment
// variables. Priority: ENV > YAML > defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("batch-import config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("batch-import config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("batch-import config: read env: %w", err)
	}

	return &cfg, nil
}
