package collide

import (
	"sync"
	"sync/atomic"

	"github.com/aismann/phyx/internal/solver"
)

// Sleep tolerances and timers, carried over from the teacher's
// RigidBody sleep-state machine.
const (
	SleepLinearTolerance  float32 = 0.01
	SleepAngularTolerance float32 = 0.017453292
	SleepTime             float32 = 0.5
)

const (
	BodyStateAwake int32 = iota
	BodyStateSleeping
)

// Body is a box-shaped rigid body: the scene-facing record that owns
// pose, mass, and the sleep-state machine, feeding a solver.Body
// mirror into the core solver every step. The solver has no opinion
// about shape, sleeping, or integration — those live here.
type Body struct {
	mu sync.Mutex

	Position        solver.Vec2
	Velocity        solver.Vec2
	Force           solver.Vec2
	Angle           float32
	AngularVelocity float32
	Torque          float32

	Mass       float32
	InvMass    float32
	Inertia    float32
	InvInertia float32
	Damping    float32

	HalfWidth  float32
	HalfHeight float32

	Static bool
	ID     uint64

	state     int32
	sleepTime float32
}

// NewBody constructs a box body. mass == 0 produces a static body
// (infinite mass, zero inverse mass/inertia).
func NewBody(id uint64, mass float32, position solver.Vec2, halfWidth, halfHeight float32) *Body {
	var invMass, inertia, invInertia float32
	if mass > 0 {
		invMass = 1 / mass
		inertia = mass * (4*halfWidth*halfWidth + 4*halfHeight*halfHeight) / 12
		if inertia > 0 {
			invInertia = 1 / inertia
		}
	}
	return &Body{
		ID:         id,
		Position:   position,
		Mass:       mass,
		InvMass:    invMass,
		Inertia:    inertia,
		InvInertia: invInertia,
		Damping:    0.999,
		HalfWidth:  halfWidth,
		HalfHeight: halfHeight,
		Static:     mass == 0,
		state:      BodyStateAwake,
	}
}

func (b *Body) ApplyForce(force solver.Vec2) {
	if b.Static {
		return
	}
	b.mu.Lock()
	b.Force = b.Force.Add(force)
	b.mu.Unlock()
	b.WakeUp()
}

func (b *Body) IsAwake() bool { return atomic.LoadInt32(&b.state) == BodyStateAwake }

func (b *Body) WakeUp() {
	if !b.Static {
		atomic.StoreInt32(&b.state, BodyStateAwake)
		b.sleepTime = 0
	}
}

func (b *Body) PutToSleep() {
	if !b.Static {
		atomic.StoreInt32(&b.state, BodyStateSleeping)
		b.Velocity = solver.Vec2{}
		b.AngularVelocity = 0
		b.Force = solver.Vec2{}
		b.Torque = 0
	}
}

// UpdateSleepState advances the sleep timer and puts the body to sleep
// once it has stayed below the motion tolerances for SleepTime
// seconds, mirroring the teacher's RigidBody.UpdateSleepState.
func (b *Body) UpdateSleepState(dt float32) {
	if b.Static || atomic.LoadInt32(&b.state) == BodyStateSleeping {
		return
	}

	minMotion := SleepLinearTolerance * SleepLinearTolerance
	velSq := b.Velocity.Dot(b.Velocity)
	angVelSq := b.AngularVelocity * b.AngularVelocity

	if velSq < minMotion && angVelSq < SleepAngularTolerance*SleepAngularTolerance {
		b.sleepTime += dt
		if b.sleepTime >= SleepTime {
			b.PutToSleep()
		}
	} else {
		b.sleepTime = 0
	}
}

// IntegrateVelocity applies one explicit-Euler step of gravity and
// accumulated force/torque to velocity only. The teacher's
// RigidBody.Integrate folds this and position integration into one
// call; the constraint solver needs them split so contacts can be
// solved against post-force, pre-position-update velocities.
func (b *Body) IntegrateVelocity(dt float32, gravity solver.Vec2) {
	if b.Static || atomic.LoadInt32(&b.state) == BodyStateSleeping {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.Force = b.Force.Add(gravity.Scale(b.Mass))

	acceleration := b.Force.Scale(b.InvMass)
	b.Velocity = b.Velocity.Add(acceleration.Scale(dt)).Scale(b.Damping)

	angularAcceleration := b.Torque * b.InvInertia
	b.AngularVelocity = (b.AngularVelocity + angularAcceleration*dt) * b.Damping

	b.Force = solver.Vec2{}
	b.Torque = 0
}

// IntegratePosition advances pose by the current velocity, the second
// half of the teacher's RigidBody.Integrate.
func (b *Body) IntegratePosition(dt float32) {
	if b.Static || atomic.LoadInt32(&b.state) == BodyStateSleeping {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Angle = wrapAngle(b.Angle + b.AngularVelocity*dt)
}

// ApplyDisplacement integrates the solver's fictitious displacing
// velocity into position for one step, then lets it go: displacement
// is never warm-started, so nothing here persists across frames.
func (b *Body) ApplyDisplacement(dt float32, displacingVelocity solver.Vec2, displacingAngularVelocity float32) {
	if b.Static {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Position = b.Position.Add(displacingVelocity.Scale(dt))
	b.Angle = wrapAngle(b.Angle + displacingAngularVelocity*dt)
}

func (b *Body) AABB() AABB {
	return AABB{
		Min: solver.Vec2{X: b.Position.X - b.HalfWidth, Y: b.Position.Y - b.HalfHeight},
		Max: solver.Vec2{X: b.Position.X + b.HalfWidth, Y: b.Position.Y + b.HalfHeight},
	}
}

func wrapAngle(angle float32) float32 {
	const pi = 3.14159265
	for angle > pi {
		angle -= 2 * pi
	}
	for angle < -pi {
		angle += 2 * pi
	}
	return angle
}
