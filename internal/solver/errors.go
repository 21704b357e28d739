package solver

import "fmt"

// ConfigError reports a configuration mismatch detected before any
// iteration begins — the only error the core's taxonomy surfaces
// (see the degenerate-mass and NaN/Inf cases, which are handled
// silently rather than as errors).
type ConfigError struct {
	Mode   Mode
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("solver: invalid config for mode %s: %s", e.Mode, e.Reason)
}
