package cegis

import (
	"time"
)

// Settings controls a synthesis run.
type Settings struct {
	// Timeout bounds the whole call. Zero means no limit.
	Timeout time.Duration

	// RandomSeed is passed to every solver when set.
	RandomSeed *int

	GenerateMode SolverMode
	VerifyMode   SolverMode
}

// DefaultSettings returns settings with no timeout, an incremental generator
// and one-shot verifiers.
func DefaultSettings() Settings {
	return Settings{
		GenerateMode: Incremental,
		VerifyMode:   OneShot,
	}
}

// generateConfig returns the solver config for the generate solver.
func (s Settings) generateConfig() SolverConfig {
	return SolverConfig{Mode: s.GenerateMode, RandomSeed: s.RandomSeed}
}

// verifyConfig returns the solver config for a verify solver. Verifiers that
// are checked more than once are always incremental.
func (s Settings) verifyConfig(incremental bool) SolverConfig {
	mode := s.VerifyMode
	if incremental {
		mode = Incremental
	}
	return SolverConfig{Mode: mode, RandomSeed: s.RandomSeed}
}
