package collide

import (
	"sync/atomic"

	"github.com/aismann/phyx/internal/solver"
)

// World owns a set of bodies and runs them through one fixed-step
// simulation loop per Step call: broad phase, narrow phase, the core
// contact solver, and position/sleep bookkeeping. It is the adapted
// equivalent of the teacher's PhysicsWorld, generalised from its
// pairwise sequential-impulse resolver to a batch PGS solve.
type World struct {
	Bodies []*Body

	grid    *SpatialGrid
	pool    *solver.WorkerPool
	core    *solver.Solver
	gravity solver.Vec2
	cfg     solver.Config

	coreBodies []solver.Body
	idIndex    map[uint64]int

	points []solver.ContactPoint
	joints []solver.ContactJoint

	stepCount       int64
	collisionCount  int64
	sleepingBodies  int64
}

// NewWorld constructs a World. pool may be nil for single-threaded
// integration; cellSize sizes the broad-phase grid's buckets.
func NewWorld(gravity solver.Vec2, cfg solver.Config, cellSize float32, pool *solver.WorkerPool) *World {
	return &World{
		grid:    NewSpatialGrid(cellSize),
		pool:    pool,
		core:    solver.NewSolver(pool),
		gravity: gravity,
		cfg:     cfg,
		idIndex: make(map[uint64]int),
	}
}

func (w *World) AddBody(b *Body) {
	w.Bodies = append(w.Bodies, b)
}

// Step advances the world by dt: integrate velocities, detect contacts
// against pre-position-update poses, run the core solver and apply its
// displacement position correction, integrate positions, then update
// sleep state.
func (w *World) Step(dt float32) {
	atomic.AddInt64(&w.stepCount, 1)

	w.grid.Clear()
	for _, b := range w.Bodies {
		w.grid.Insert(b)
	}

	w.integrateVelocities(dt)
	w.rebuildContacts()

	if len(w.joints) > 0 {
		w.syncCoreBodiesIn()
		_, _ = w.core.Solve(w.coreBodies, w.points, w.joints, w.cfg)
		w.syncCoreBodiesOut(dt)
	}

	w.integratePositions(dt)
	w.updateSleepStates(dt)
}

func (w *World) integrateVelocities(dt float32) {
	if w.pool != nil && len(w.Bodies) >= 8 {
		w.pool.ParallelChunks(len(w.Bodies), 8, func(begin, end int) {
			for _, b := range w.Bodies[begin:end] {
				b.IntegrateVelocity(dt, w.gravity)
			}
		})
		return
	}
	for _, b := range w.Bodies {
		b.IntegrateVelocity(dt, w.gravity)
	}
}

func (w *World) integratePositions(dt float32) {
	if w.pool != nil && len(w.Bodies) >= 8 {
		w.pool.ParallelChunks(len(w.Bodies), 8, func(begin, end int) {
			for _, b := range w.Bodies[begin:end] {
				b.IntegratePosition(dt)
			}
		})
		return
	}
	for _, b := range w.Bodies {
		b.IntegratePosition(dt)
	}
}

// rebuildContacts runs the broad phase and box-box narrow phase,
// rebuilding the per-step joint/point lists in place (grown, never
// shrunk, mirroring the core solver's own buffer policy).
func (w *World) rebuildContacts() {
	pairs := w.grid.Pairs()
	atomic.StoreInt64(&w.collisionCount, int64(len(pairs)))

	w.idIndex = make(map[uint64]int, len(w.Bodies))
	for i, b := range w.Bodies {
		w.idIndex[b.ID] = i
	}

	w.points = w.points[:0]
	w.joints = w.joints[:0]

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		point, ok := DetectBoxBox(a, b)
		if !ok {
			continue
		}
		w.points = append(w.points, point)
		w.joints = append(w.joints, solver.ContactJoint{
			Body1Index:        uint32(w.idIndex[a.ID]),
			Body2Index:        uint32(w.idIndex[b.ID]),
			ContactPointIndex: uint32(len(w.points) - 1),
		})
	}
}

func (w *World) syncCoreBodiesIn() {
	n := len(w.Bodies)
	if cap(w.coreBodies) < n {
		w.coreBodies = make([]solver.Body, n)
	}
	w.coreBodies = w.coreBodies[:n]

	for i, b := range w.Bodies {
		w.coreBodies[i] = solver.Body{
			InvMass:         b.InvMass,
			InvInertia:      b.InvInertia,
			Pos:             b.Position,
			XVector:         solver.Vec2{X: 1, Y: 0},
			YVector:         solver.Vec2{X: 0, Y: 1},
			Velocity:        b.Velocity,
			AngularVelocity: b.AngularVelocity,
		}
	}
}

func (w *World) syncCoreBodiesOut(dt float32) {
	for i, b := range w.Bodies {
		cb := &w.coreBodies[i]
		b.Velocity = cb.Velocity
		b.AngularVelocity = cb.AngularVelocity
		b.ApplyDisplacement(dt, cb.DisplacingVelocity, cb.DisplacingAngularVelocity)
	}
}

func (w *World) updateSleepStates(dt float32) {
	for _, b := range w.Bodies {
		b.UpdateSleepState(dt)
	}
}

func (w *World) StepCount() int64      { return atomic.LoadInt64(&w.stepCount) }
func (w *World) CollisionCount() int64 { return atomic.LoadInt64(&w.collisionCount) }

func (w *World) SleepingBodiesCount() int64 {
	var n int64
	for _, b := range w.Bodies {
		if !b.IsAwake() {
			n++
		}
	}
	return n
}
