package main

import (
	"fmt"

	"github.com/aismann/phyx/internal/scene"
)

// runConfig mirrors the teacher's Config: every flag parseFlags used
// to populate by hand, now populated by cobra's flag bindings in
// root.go.
type runConfig struct {
	GravityX float64
	GravityY float64
	TimeStep float64
	Duration float64
	MaxFPS   int

	Workers    int
	Kv         int
	Kp         int
	SimdMode   string
	SleepEnabled bool

	Verbose       bool
	Quiet         bool
	StatsInterval float64
	ProfileCPU    string
	ProfileMem    string

	SceneFile   string
	BodiesCount int
	SceneType   string
}

// validate mirrors the teacher's validateConfig: a pure precondition
// check run once before any engine state is built.
func (c *runConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.MaxFPS < 1 || c.MaxFPS > 1000 {
		return fmt.Errorf("fps must be between 1 and 1000")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	if c.BodiesCount < 1 {
		return fmt.Errorf("bodies count must be at least 1")
	}
	if c.Kv < 1 {
		return fmt.Errorf("velocity iterations must be at least 1")
	}
	if c.Kp < 0 {
		return fmt.Errorf("displacement iterations cannot be negative")
	}

	switch c.SimdMode {
	case "scalar", "sse2", "avx2":
	default:
		return fmt.Errorf("invalid simd mode: %s", c.SimdMode)
	}

	if c.SceneFile == "" && !scene.ValidName(c.SceneType) {
		return fmt.Errorf("invalid scene type: %s", c.SceneType)
	}

	return nil
}
