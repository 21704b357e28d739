package collide

import "github.com/aismann/phyx/internal/solver"

// DetectBoxBox finds the minimum-translation-axis separation between
// two axis-aligned boxes, the way the teacher's detectBoxBox does, and
// reports contact points on each box's near face along that axis
// rather than a single shared midpoint — the solver's Refresh step
// needs point1 and point2 to differ along the normal for its depth
// term to carry real information.
func DetectBoxBox(a, b *Body) (solver.ContactPoint, bool) {
	aabbA := a.AABB()
	aabbB := b.AABB()

	overlapX := min32(aabbA.Max.X, aabbB.Max.X) - max32(aabbA.Min.X, aabbB.Min.X)
	overlapY := min32(aabbA.Max.Y, aabbB.Max.Y) - max32(aabbA.Min.Y, aabbB.Min.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return solver.ContactPoint{}, false
	}

	var normal, point1, point2 solver.Vec2

	if overlapX < overlapY {
		midY := (max32(aabbA.Min.Y, aabbB.Min.Y) + min32(aabbA.Max.Y, aabbB.Max.Y)) * 0.5
		if aabbA.Min.X < aabbB.Min.X {
			normal = solver.Vec2{X: -1, Y: 0}
			point1 = solver.Vec2{X: aabbA.Max.X, Y: midY}
			point2 = solver.Vec2{X: aabbB.Min.X, Y: midY}
		} else {
			normal = solver.Vec2{X: 1, Y: 0}
			point1 = solver.Vec2{X: aabbA.Min.X, Y: midY}
			point2 = solver.Vec2{X: aabbB.Max.X, Y: midY}
		}
	} else {
		midX := (max32(aabbA.Min.X, aabbB.Min.X) + min32(aabbA.Max.X, aabbB.Max.X)) * 0.5
		if aabbA.Min.Y < aabbB.Min.Y {
			normal = solver.Vec2{X: 0, Y: -1}
			point1 = solver.Vec2{X: midX, Y: aabbA.Max.Y}
			point2 = solver.Vec2{X: midX, Y: aabbB.Min.Y}
		} else {
			normal = solver.Vec2{X: 0, Y: 1}
			point1 = solver.Vec2{X: midX, Y: aabbA.Min.Y}
			point2 = solver.Vec2{X: midX, Y: aabbB.Max.Y}
		}
	}

	return solver.ContactPoint{
		Delta1:         point1.Sub(a.Position),
		Delta2:         point2.Sub(b.Position),
		Normal:         normal,
		IsNewlyCreated: true,
	}, true
}

func min32(x, y float32) float32 {
	if x < y {
		return x
	}
	return y
}

func max32(x, y float32) float32 {
	if x > y {
		return x
	}
	return y
}
