package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aismann/phyx/internal/collide"
	"github.com/aismann/phyx/internal/solver"
)

func newWorld() *collide.World {
	return collide.NewWorld(solver.Vec2{X: 0, Y: -10}, solver.Config{Mode: solver.ModeScalar, Kv: 15, Kp: 15}, 8, nil)
}

func TestLoadFromFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	contents := `
gravity:
  x: 0
  y: -9.81
duration: 5
bodies:
  - mass: 0
    position: {x: 0, y: 0}
    half_width: 50
    half_height: 1
  - mass: 1
    position: {x: 0, y: 5}
    velocity: {x: 2, y: 0}
    half_width: 1
    half_height: 1
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, float32(-9.81), cfg.Gravity.Y)
	assert.Equal(t, 5.0, cfg.Duration)
	require.Len(t, cfg.Bodies, 2)
	assert.Equal(t, float32(2), cfg.Bodies[1].Velocity.X)
}

func TestApplyPopulatesWorld(t *testing.T) {
	cfg := &Config{
		Gravity: Vec2{X: 0, Y: -9.81},
		Bodies: []BodyConfig{
			{Mass: 0, Position: Vec2{X: 0, Y: 0}, HalfWidth: 50, HalfHeight: 1},
			{Mass: 1, Position: Vec2{X: 0, Y: 5}, HalfWidth: 1, HalfHeight: 1},
		},
	}

	world := newWorld()
	require.NoError(t, Apply(world, cfg))
	assert.Len(t, world.Bodies, 2)
	assert.True(t, world.Bodies[0].Static)
	assert.False(t, world.Bodies[1].Static)
}

func TestApplyRejectsDegenerateShape(t *testing.T) {
	cfg := &Config{Bodies: []BodyConfig{{Mass: 1, HalfWidth: 0, HalfHeight: 1}}}
	world := newWorld()
	assert.Error(t, Apply(world, cfg))
}

func TestGenerateEveryNamedScene(t *testing.T) {
	for _, name := range Names {
		world := newWorld()
		label, err := Generate(world, name, 20)
		require.NoError(t, err, name)
		assert.NotEmpty(t, label)
		assert.Greater(t, len(world.Bodies), 1, name)
	}
}

func TestGenerateRejectsUnknownScene(t *testing.T) {
	world := newWorld()
	_, err := Generate(world, "not-a-scene", 10)
	assert.Error(t, err)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Pyramid"))
	assert.False(t, ValidName("nonsense"))
}
