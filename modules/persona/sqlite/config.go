package sqlite

import "fmt"

const (
	defaultDBFile      = "personas.db"
	defaultBusyTimeout = 5000
)

// Config holds the SQLite persona store configuration.
type Config struct {
	// Path is the database file. Defaults to {DataDir}/personas.db.
	Path string `yaml:"path"`

	// WAL toggles WAL journal mode. Defaults to on; set to false only
	// when the database lives on a filesystem that cannot support it.
	WAL *bool `yaml:"wal"`

	// BusyTimeout is how long, in milliseconds, a statement waits on a
	// locked database before failing. Defaults to 5000.
	BusyTimeout int `yaml:"busy_timeout"`
}

func (c *Config) defaults() {
	if c.BusyTimeout == 0 {
		c.BusyTimeout = defaultBusyTimeout
	}
}

func (c *Config) walEnabled() bool {
	return c.WAL == nil || *c.WAL
}

func (c *Config) validate() error {
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy_timeout must be non-negative, got %d", c.BusyTimeout)
	}
	return nil
}
