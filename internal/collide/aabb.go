// Package collide provides the broad- and narrow-phase collision
// pipeline that feeds contact geometry into internal/solver: a uniform
// spatial grid for candidate pairs, an axis-aligned box/box test, and
// free-body integration. None of this is part of the core contact
// solver itself — it is the world around it.
package collide

import "github.com/aismann/phyx/internal/solver"

// AABB is an axis-aligned bounding box, grounded on the teacher's AABB
// type but carried in float32 to match the solver's arithmetic.
type AABB struct {
	Min, Max solver.Vec2
}

func (a AABB) Overlaps(other AABB) bool {
	return a.Min.X <= other.Max.X && a.Max.X >= other.Min.X &&
		a.Min.Y <= other.Max.Y && a.Max.Y >= other.Min.Y
}

func (a AABB) Expand(margin float32) AABB {
	return AABB{
		Min: solver.Vec2{X: a.Min.X - margin, Y: a.Min.Y - margin},
		Max: solver.Vec2{X: a.Max.X + margin, Y: a.Max.Y + margin},
	}
}
