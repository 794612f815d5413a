package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database: min_conns %d exceeds max_conns %d", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Import.MaxRowsPerType <= 0 {
		return fmt.Errorf("import: max_rows_per_type must be > 0 (got %d)", c.Import.MaxRowsPerType)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log: unknown format %q (want json or text)", c.Log.Format)
	}

	return nil
}
