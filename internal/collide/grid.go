package collide

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/aismann/phyx/internal/solver"
)

type GridCell struct {
	X, Y int
}

// SpatialGrid is a uniform-bucket broad phase, adapted from the
// teacher's SpatialGrid: a body is inserted into every cell its AABB
// touches, and Pairs reads back deduplicated candidate pairs across
// all cells. Insert is safe for concurrent callers.
type SpatialGrid struct {
	mutex    sync.Mutex
	grid     map[GridCell][]*Body
	cellSize float32
}

func NewSpatialGrid(cellSize float32) *SpatialGrid {
	return &SpatialGrid{
		grid:     make(map[GridCell][]*Body),
		cellSize: cellSize,
	}
}

func (sg *SpatialGrid) Clear() {
	sg.mutex.Lock()
	for key := range sg.grid {
		sg.grid[key] = sg.grid[key][:0]
	}
	sg.mutex.Unlock()
}

func (sg *SpatialGrid) Insert(body *Body) {
	if !body.Static && !body.IsAwake() {
		return
	}

	aabb := body.AABB()
	minCell := sg.cellAt(aabb.Min)
	maxCell := sg.cellAt(aabb.Max)

	sg.mutex.Lock()
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cell := GridCell{X: x, Y: y}
			sg.grid[cell] = append(sg.grid[cell], body)
		}
	}
	sg.mutex.Unlock()
}

// Pairs returns every candidate colliding pair, deduplicated across
// cells, skipping static-static pairs and pairs where both bodies are
// asleep.
func (sg *SpatialGrid) Pairs() [][2]*Body {
	sg.mutex.Lock()
	defer sg.mutex.Unlock()

	var pairs [][2]*Body
	seen := make(map[[2]uint64]bool)

	for _, bodies := range sg.grid {
		for i := 0; i < len(bodies); i++ {
			for j := i + 1; j < len(bodies); j++ {
				a, b := bodies[i], bodies[j]
				if a.Static && b.Static {
					continue
				}
				if !a.IsAwake() && !b.IsAwake() {
					continue
				}

				var key [2]uint64
				if a.ID < b.ID {
					key = [2]uint64{a.ID, b.ID}
				} else {
					key = [2]uint64{b.ID, a.ID}
				}

				if !seen[key] {
					seen[key] = true
					pairs = append(pairs, [2]*Body{a, b})
				}
			}
		}
	}

	return pairs
}

func (sg *SpatialGrid) cellAt(pos solver.Vec2) GridCell {
	return GridCell{
		X: int(math32.Floor(pos.X / sg.cellSize)),
		Y: int(math32.Floor(pos.Y / sg.cellSize)),
	}
}
