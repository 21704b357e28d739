// Package scene loads and generates simulation starting states for
// internal/collide.World: a YAML scene-file format adapted from the
// teacher's JSON SceneConfig, plus the named procedural generators
// the original source's resetWorld switches over by scene number.
package scene

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aismann/phyx/internal/collide"
	"github.com/aismann/phyx/internal/solver"
)

// Config is a YAML scene description: gravity, optional run duration,
// and an explicit body list. It is the adapted equivalent of the
// teacher's SceneConfig/BodyConfig pair, narrowed to box-only shapes
// (circle support was dropped along with the teacher's CircleShape).
type Config struct {
	Gravity  Vec2        `yaml:"gravity"`
	Duration float64     `yaml:"duration"`
	Bodies   []BodyConfig `yaml:"bodies"`
}

type Vec2 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

func (v Vec2) toSolver() solver.Vec2 { return solver.Vec2{X: v.X, Y: v.Y} }

type BodyConfig struct {
	Mass       float32 `yaml:"mass"`
	Position   Vec2    `yaml:"position"`
	Velocity   Vec2    `yaml:"velocity"`
	HalfWidth  float32 `yaml:"half_width"`
	HalfHeight float32 `yaml:"half_height"`
}

// LoadFromFile parses a YAML scene file.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", filename, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", filename, err)
	}

	return &config, nil
}

// Apply populates world with the bodies config describes. It does not
// touch the world's gravity; SolverGravity returns the config's value.
func Apply(world *collide.World, config *Config) error {
	for i, bc := range config.Bodies {
		if bc.HalfWidth <= 0 || bc.HalfHeight <= 0 {
			return fmt.Errorf("scene: body %d: half_width and half_height must be positive", i)
		}
		body := collide.NewBody(collide.NextID(), bc.Mass, bc.Position.toSolver(), bc.HalfWidth, bc.HalfHeight)
		body.Velocity = bc.Velocity.toSolver()
		world.AddBody(body)
	}
	return nil
}

// SolverGravity converts the config's gravity field to a solver vector.
func (c *Config) SolverGravity() solver.Vec2 { return c.Gravity.toSolver() }

// Names lists the procedural scene types Generate accepts.
var Names = []string{
	"falling", "wall", "pyramid", "reverse-pyramid",
	"stacks", "platform-stacks", "dual-stacks", "islands", "default",
}

// ValidName reports whether name is one Generate recognises.
func ValidName(name string) bool {
	for _, n := range Names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
