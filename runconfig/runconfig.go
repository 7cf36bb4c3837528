// Package runconfig loads the CLI-facing solve configuration — deadline,
// seed, output paths, log level — from a TOML file, following the teacher
// corpus's Default*()/With... construction idiom for the in-process
// defaults and github.com/BurntSushi/toml for the on-disk format (spec.md
// §6: "Implementers expose at minimum: instance path, output directory,
// deadline, RNG seed, log level").
package runconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the CLI's run configuration. Zero value is not directly usable;
// construct via Default and layer With... options, or Load a TOML file.
type Config struct {
	InstancePath string  `toml:"instance_path"`
	OutputDir    string  `toml:"output_dir"`
	DeadlineSecs float64 `toml:"deadline_secs"`
	Seed         int64   `toml:"seed"`
	SeedIsSet    bool    `toml:"-"`
	LogLevel     string  `toml:"log_level"`
}

// Default returns a Config with a 30s deadline, info logging, and no fixed
// seed (a fresh run picks a random one and logs it — spec.md §6: "random if
// absent with warning").
func Default() Config {
	return Config{
		OutputDir:    ".",
		DeadlineSecs: 30,
		LogLevel:     "info",
	}
}

// WithInstancePath returns a copy of c pointed at the given instance file.
func (c Config) WithInstancePath(path string) Config {
	c.InstancePath = path
	return c
}

// WithOutputDir returns a copy of c writing results under dir.
func (c Config) WithOutputDir(dir string) Config {
	c.OutputDir = dir
	return c
}

// WithDeadline returns a copy of c with the given wall-clock time budget.
func (c Config) WithDeadline(d time.Duration) Config {
	c.DeadlineSecs = d.Seconds()
	return c
}

// WithSeed returns a copy of c pinned to the given RNG seed.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = seed
	c.SeedIsSet = true
	return c
}

// WithLogLevel returns a copy of c at the given charmbracelet/log level name
// ("debug", "info", "warn", "error").
func (c Config) WithLogLevel(level string) Config {
	c.LogLevel = level
	return c
}

// Deadline returns the absolute deadline this configuration implies,
// measured from now.
func (c Config) Deadline() time.Time {
	return time.Now().Add(time.Duration(c.DeadlineSecs * float64(time.Second)))
}

// Load reads a TOML config file, applying its values on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("runconfig: decode %s: %w", path, err)
	}
	if meta.IsDefined("seed") {
		cfg.SeedIsSet = true
	}
	return cfg, nil
}

// Save writes c to path as TOML.
func Save(path string, c Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("runconfig: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("runconfig: encode %s: %w", path, err)
	}
	return nil
}
