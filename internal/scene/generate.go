package scene

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/aismann/phyx/internal/collide"
	"github.com/aismann/phyx/internal/solver"
)

// Generate builds bodyCount-scaled procedural content into world,
// selecting among the named scenes the original source's resetWorld
// switches over by scene number, plus a "default" scatter scene
// carried over from the teacher's generateDefaultScene. Every scene
// adds a static ground box first, matching both sources' convention
// of a fixed ground body at index 0.
func Generate(world *collide.World, name string, bodyCount int) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("scene: unknown scene type %q", name)
	}

	ground := collide.NewBody(collide.NextID(), 0, solver.Vec2{X: 0, Y: -5}, 500, 5)
	world.AddBody(ground)

	switch strings.ToLower(name) {
	case "falling":
		generateFalling(world, bodyCount)
		return "Falling", nil
	case "wall":
		generateWall(world, bodyCount)
		return "Wall", nil
	case "pyramid":
		generatePyramid(world, bodyCount)
		return "Pyramid", nil
	case "reverse-pyramid":
		generateReversePyramid(world, bodyCount)
		return "Reverse Pyramid", nil
	case "stacks":
		generateStacks(world, bodyCount)
		return "Stacks", nil
	case "platform-stacks":
		generatePlatformStacks(world, bodyCount)
		return "Stacks", nil
	case "dual-stacks":
		generateDualStacks(world, bodyCount)
		return "Dual Stacks", nil
	case "islands":
		generateIslands(world, bodyCount)
		return "Islands", nil
	default:
		generateDefault(world, bodyCount)
		return "Default", nil
	}
}

func addBox(world *collide.World, mass float32, pos solver.Vec2, halfWidth, halfHeight float32) *collide.Body {
	b := collide.NewBody(collide.NextID(), mass, pos, halfWidth, halfHeight)
	world.AddBody(b)
	return b
}

// generateFalling scatters bodyCount 4x4 boxes above the ground,
// grounded on resetWorld's case 0 ("Falling").
func generateFalling(world *collide.World, bodyCount int) {
	for i := 0; i < bodyCount; i++ {
		pos := solver.Vec2{X: randRange(-500, 500), Y: randRange(50, 1000)}
		addBox(world, 16, pos, 2, 2)
	}
}

// generateWall lays out a grid of horizontal slabs, grounded on
// resetWorld's case 1 ("Wall").
func generateWall(world *collide.World, bodyCount int) {
	columns := 1 + bodyCount/100
	for left := -columns; left <= columns; left++ {
		for row := 0; row < 100; row++ {
			pos := solver.Vec2{X: float32(left) * 20, Y: 10 + float32(row)*10}
			addBox(world, 50, pos, 10, 5)
		}
	}
}

// generatePyramid builds a widening stack of boxes from the top down,
// grounded on resetWorld's case 2 ("Pyramid").
func generatePyramid(world *collide.World, bodyCount int) {
	steps := 10 + bodyCount/20
	for step := 0; step < steps; step++ {
		pos := solver.Vec2{X: 0, Y: float32(steps-step)*10 + 5}
		halfWidth := 5 + float32(step)*2.5
		addBox(world, halfWidth*5, pos, halfWidth, 2.5)
	}
}

// generateReversePyramid is the same shape built bottom-up, grounded
// on resetWorld's case 3 ("Reverse Pyramid") — structurally identical
// except the narrowest slab sits near the ground and the widest far
// above.
func generateReversePyramid(world *collide.World, bodyCount int) {
	steps := 10 + bodyCount/20
	for step := 0; step < steps; step++ {
		pos := solver.Vec2{X: 0, Y: 15 + float32(step)*10}
		halfWidth := 5 + float32(step)*2.5
		addBox(world, halfWidth*5, pos, halfWidth, 2.5)
	}
}

// generateStacks lays independent columns of shrinking boxes,
// grounded on resetWorld's case 4 ("Stacks").
func generateStacks(world *collide.World, bodyCount int) {
	columns := 1 + bodyCount/150
	for left := -columns; left <= columns; left++ {
		for row := 0; row < 150; row++ {
			pos := solver.Vec2{X: float32(left) * 15, Y: 15 + float32(row)*10}
			halfWidth := 2.5 - float32(row)*0.015
			if halfWidth < 0.5 {
				halfWidth = 0.5
			}
			addBox(world, halfWidth*5, pos, halfWidth, 2.5)
		}
	}
}

// generatePlatformStacks is resetWorld's case 5, a second "Stacks"
// scene distinct from generateStacks: two static platforms and a
// single-sided random scatter above them (x in [0, 500], unlike
// generateStacks' symmetric infinite columns).
func generatePlatformStacks(world *collide.World, bodyCount int) {
	addBox(world, 0, solver.Vec2{X: 0, Y: 400}, 600, 10)
	addBox(world, 0, solver.Vec2{X: 800, Y: 200}, 400, 10)

	for i := 0; i < bodyCount; i++ {
		pos := solver.Vec2{X: randRange(0, 500), Y: randRange(500, 2500)}
		addBox(world, 16, pos, 2, 2)
	}
}

// generateDualStacks adds two elevated platforms plus a third, angled
// splitter platform and rains boxes onto both sides of it, grounded on
// resetWorld's case 6 ("Dual Stacks").
func generateDualStacks(world *collide.World, bodyCount int) {
	addBox(world, 0, solver.Vec2{X: 0, Y: 400}, 600, 10)
	addBox(world, 0, solver.Vec2{X: 800, Y: 200}, 400, 10)

	splitter := addBox(world, 0, solver.Vec2{X: 500, Y: 500}, 600, 10)
	splitter.Angle = -0.5

	half := bodyCount / 2
	for i := 0; i < half; i++ {
		pos1 := solver.Vec2{X: randRange(200, 500), Y: randRange(500, 2500)}
		pos2 := solver.Vec2{X: randRange(-500, -200), Y: randRange(500, 2500)}
		addBox(world, 16, pos1, 2, 2)
		addBox(world, 16, pos2, 2, 2)
	}
}

// generateIslands erects evenly spaced static dividers and rains boxes
// into each lane, grounded on resetWorld's case 7 — named "Islands" in
// the original source, kept under that name here rather than the
// more-descriptive-sounding "Splitters" an earlier pass used.
func generateIslands(world *collide.World, bodyCount int) {
	groups := 5
	perGroup := bodyCount / (2*groups + 1)
	if perGroup < 1 {
		perGroup = 1
	}

	for group := -groups; group <= groups; group++ {
		addBox(world, 0, solver.Vec2{X: float32(group) * 300, Y: 500}, 10, 500)

		for i := 0; i < perGroup; i++ {
			pos := solver.Vec2{X: float32(group)*300 + randRange(50, 250), Y: randRange(50, 1500)}
			addBox(world, 16, pos, 2, 2)
		}
	}
}

// generateDefault is the teacher's generateDefaultScene, adapted to
// box-only shapes: a uniform scatter of variously sized boxes.
func generateDefault(world *collide.World, bodyCount int) {
	for i := 0; i < bodyCount; i++ {
		pos := solver.Vec2{X: randRange(-75, 75), Y: randRange(50, 100)}
		size := randRange(0.5, 2)
		addBox(world, size*size*4, pos, size, size)
	}
}

func randRange(lo, hi float32) float32 {
	return lo + rand.Float32()*(hi-lo)
}
