package journal

import "codeberg.org/mutker/miosbridge/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "/var/lib/miosbridge/journal.db"
)

type Config struct {
	Enabled      bool
	DBPath       string
	BatchSize    int
	BatchTimeout int // seconds
}

func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		DBPath:       defaultDBPath,
		BatchSize:    64,
		BatchTimeout: 30,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled {
		return nil
	}

	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize <= 0 || c.BatchTimeout <= 0 {
		return errFactory.WithData(ErrInvalidConfig, "batch size and timeout must be positive")
	}

	return nil
}
