package main

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bitdep/cegis"
	"github.com/pkg/errors"
)

// Config is the contents of a run configuration file.
//
//	[settings]
//	timeout = "30s"
//	seed = 7
//	generate-mode = "incremental"
//	verify-mode = "oneshot"
//	jobs = 2
//
//	[[problem]]
//	name = "max"
//	size-limit = 4
type Config struct {
	Settings SettingsConfig  `toml:"settings"`
	Problems []ProblemConfig `toml:"problem"`

	seedDefined bool
}

// SettingsConfig holds synthesizer settings shared by every problem.
type SettingsConfig struct {
	Timeout      string `toml:"timeout"`
	Seed         int    `toml:"seed"`
	GenerateMode string `toml:"generate-mode"`
	VerifyMode   string `toml:"verify-mode"`
	Jobs         int    `toml:"jobs"`
}

// ProblemConfig selects a catalog problem and optionally overrides its size limit.
type ProblemConfig struct {
	Name      string `toml:"name"`
	SizeLimit int    `toml:"size-limit"`
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return nil, errors.Errorf("%s: unknown key %s", path, keys[0])
	}
	cfg.seedDefined = meta.IsDefined("settings", "seed")

	for i, p := range cfg.Problems {
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.Errorf("%s: [[problem]] %d: missing name", path, i)
		} else if _, ok := Problems[p.Name]; !ok {
			return nil, errors.Errorf("%s: [[problem]] %d: unknown problem %q", path, i, p.Name)
		} else if p.SizeLimit < 0 {
			return nil, errors.Errorf("%s: [[problem]] %d: negative size-limit", path, i)
		}
	}
	if cfg.Settings.Jobs < 0 {
		return nil, errors.Errorf("%s: [settings].jobs must not be negative", path)
	}
	if _, err := cfg.SynthesizerSettings(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &cfg, nil
}

// SynthesizerSettings converts the [settings] section.
func (c *Config) SynthesizerSettings() (cegis.Settings, error) {
	settings := cegis.DefaultSettings()
	if c.Settings.Timeout != "" {
		d, err := time.ParseDuration(c.Settings.Timeout)
		if err != nil {
			return settings, errors.Wrap(err, "[settings].timeout")
		} else if d < 0 {
			return settings, errors.New("[settings].timeout must not be negative")
		}
		settings.Timeout = d
	}
	if c.seedDefined {
		seed := c.Settings.Seed
		settings.RandomSeed = &seed
	}

	var err error
	if c.Settings.GenerateMode != "" {
		if settings.GenerateMode, err = parseMode(c.Settings.GenerateMode); err != nil {
			return settings, errors.Wrap(err, "[settings].generate-mode")
		}
	}
	if c.Settings.VerifyMode != "" {
		if settings.VerifyMode, err = parseMode(c.Settings.VerifyMode); err != nil {
			return settings, errors.Wrap(err, "[settings].verify-mode")
		}
	}
	return settings, nil
}

// parseMode parses a solver mode name.
func parseMode(s string) (cegis.SolverMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "incremental":
		return cegis.Incremental, nil
	case "oneshot", "one-shot":
		return cegis.OneShot, nil
	default:
		return 0, errors.Errorf("invalid solver mode %q (incremental|oneshot)", s)
	}
}
