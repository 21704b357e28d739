package collide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aismann/phyx/internal/solver"
)

func TestDetectBoxBoxOverlapping(t *testing.T) {
	ground := NewBody(1, 0, solver.Vec2{X: 0, Y: 0}, 10, 1)
	box := NewBody(2, 1, solver.Vec2{X: 0, Y: 1.5}, 1, 1)

	point, ok := DetectBoxBox(ground, box)
	require.True(t, ok)
	assert.Equal(t, float32(-1), point.Normal.Y)
	assert.Equal(t, float32(0), point.Normal.X)
}

func TestDetectBoxBoxSeparated(t *testing.T) {
	a := NewBody(1, 0, solver.Vec2{X: 0, Y: 0}, 1, 1)
	b := NewBody(2, 1, solver.Vec2{X: 10, Y: 10}, 1, 1)

	_, ok := DetectBoxBox(a, b)
	assert.False(t, ok)
}

func TestSpatialGridPairsSkipsStaticStatic(t *testing.T) {
	grid := NewSpatialGrid(4)
	a := NewBody(1, 0, solver.Vec2{X: 0, Y: 0}, 1, 1)
	b := NewBody(2, 0, solver.Vec2{X: 0.5, Y: 0}, 1, 1)
	grid.Insert(a)
	grid.Insert(b)

	pairs := grid.Pairs()
	assert.Empty(t, pairs)
}

func TestSpatialGridPairsFindsOverlap(t *testing.T) {
	grid := NewSpatialGrid(4)
	ground := NewBody(1, 0, solver.Vec2{X: 0, Y: 0}, 10, 1)
	box := NewBody(2, 1, solver.Vec2{X: 0, Y: 1.5}, 1, 1)
	grid.Insert(ground)
	grid.Insert(box)

	pairs := grid.Pairs()
	require.Len(t, pairs, 1)
}

func TestWorldStepSettlesBoxOnGround(t *testing.T) {
	world := NewWorld(solver.Vec2{X: 0, Y: -10}, solver.Config{Mode: solver.ModeScalar, Kv: 15, Kp: 15}, 4, nil)

	ground := NewBody(1, 0, solver.Vec2{X: 0, Y: 0}, 50, 1)
	box := NewBody(2, 1, solver.Vec2{X: 0, Y: 2.1}, 1, 1)
	world.AddBody(ground)
	world.AddBody(box)

	dt := float32(1.0 / 60.0)
	for i := 0; i < 120; i++ {
		world.Step(dt)
	}

	assert.InDelta(t, 0, box.Velocity.Y, 1.0)
	assert.Greater(t, box.Position.Y, float32(0))
}

func TestWorldStepLeavesStaticBodyUnchanged(t *testing.T) {
	world := NewWorld(solver.Vec2{X: 0, Y: -10}, solver.Config{Mode: solver.ModeScalar, Kv: 15, Kp: 15}, 4, nil)

	ground := NewBody(1, 0, solver.Vec2{X: 0, Y: 0}, 50, 1)
	box := NewBody(2, 1, solver.Vec2{X: 0, Y: 2.1}, 1, 1)
	world.AddBody(ground)
	world.AddBody(box)

	for i := 0; i < 30; i++ {
		world.Step(1.0 / 60.0)
	}

	assert.Equal(t, float32(0), ground.Position.X)
	assert.Equal(t, float32(0), ground.Position.Y)
	assert.Equal(t, float32(0), ground.Velocity.X)
	assert.Equal(t, float32(0), ground.Velocity.Y)
}

func TestBodySleepsWhenAtRest(t *testing.T) {
	b := NewBody(1, 1, solver.Vec2{X: 0, Y: 0}, 1, 1)
	for i := 0; i < 40; i++ {
		b.UpdateSleepState(1.0 / 60.0)
	}
	assert.False(t, b.IsAwake())
}

func TestBodyWakesOnForce(t *testing.T) {
	b := NewBody(1, 1, solver.Vec2{X: 0, Y: 0}, 1, 1)
	b.PutToSleep()
	require.False(t, b.IsAwake())

	b.ApplyForce(solver.Vec2{X: 1, Y: 0})
	assert.True(t, b.IsAwake())
}
