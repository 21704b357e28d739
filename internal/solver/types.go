// Package solver implements the iterative contact solver: projected
// Gauss-Seidel impulse resolution over an independent-set-coloured,
// SIMD-width-batched SoA representation of a frame's contact joints.
package solver

// kProductiveImpulse and kFrictionCoefficient are fixed model
// constants, not tunables.
const (
	kProductiveImpulse   float32 = 1e-4
	kFrictionCoefficient float32 = 0.3
)

// Vec2 is a 2D float32 vector.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2    { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2    { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Neg() Vec2          { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross2D is the scalar (z-component) cross product of two 2D vectors.
func Cross2D(ax, ay, bx, by float32) float32 { return ax*by - ay*bx }

// Body is the solver's view of a rigid body: inverse mass/inertia,
// pose, and the two velocity pairs the solver mutates (the real
// velocity and the fictitious displacing velocity used for position
// correction). A body with InvMass == 0 and InvInertia == 0 is
// static; the solver never writes a nonzero velocity into one because
// every impulse it would receive is itself scaled by InvMass/InvInertia.
type Body struct {
	InvMass    float32
	InvInertia float32

	Pos     Vec2
	XVector Vec2
	YVector Vec2

	Velocity        Vec2
	AngularVelocity float32

	DisplacingVelocity        Vec2
	DisplacingAngularVelocity float32
}

// ContactPoint holds the geometric capture of a contact at the moment
// it was detected: per-body offsets to the contact and the contact
// normal (pointing from body2 into body1). IsNewlyCreated is
// informational only; Refresh reads no other field of it.
type ContactPoint struct {
	Delta1, Delta2 Vec2
	Normal         Vec2
	IsNewlyCreated bool
}

// NormalLimiter enforces the unilateral non-penetration constraint
// velocityAlongNormal >= DstVelocity, plus the parallel displacement
// -pass target used for Baumgarte-style position correction.
type NormalLimiter struct {
	NormalProjector1, NormalProjector2     Vec2
	AngularProjector1, AngularProjector2   float32
	CompMass1Linear, CompMass2Linear       Vec2
	CompMass1Angular, CompMass2Angular     float32
	CompInvMass                            float32
	AccumulatedImpulse                     float32
	DstVelocity                            float32
	DstDisplacingVelocity                  float32
	AccumulatedDisplacingImpulse           float32
}

// FrictionLimiter enforces the bilateral Coulomb-friction constraint,
// clamped each iteration to |impulse| <= mu * normal.AccumulatedImpulse.
// It has no displacement-pass analogue: position correction never
// applies friction.
type FrictionLimiter struct {
	NormalProjector1, NormalProjector2   Vec2
	AngularProjector1, AngularProjector2 float32
	CompMass1Linear, CompMass2Linear     Vec2
	CompMass1Angular, CompMass2Angular   float32
	CompInvMass                          float32
	AccumulatedImpulse                   float32
}

// ContactJoint is the AoS, cross-frame source of truth for one
// contact: two body indices, a ContactPoint index, and the two
// limiters. Body indices are opaque keys into the caller's Body
// slice — never resolved to pointers, so the SoA pack step can gather
// bodies by index alone.
type ContactJoint struct {
	Body1Index        uint32
	Body2Index        uint32
	ContactPointIndex uint32

	NormalLimiter   NormalLimiter
	FrictionLimiter FrictionLimiter
}

// SolveBody is the per-body scratch record mutated during iteration:
// velocity, angular velocity, and LastIteration, the index of the
// most recent iteration in which this body received a productive
// impulse. Separate SolveBody arrays exist for the velocity pass and
// the displacement pass. When a joint batch is processed through the
// "SIMD" packed path, LastIteration rides along the other three
// float32 fields as a bit-cast int32 lane; arithmetic must never be
// performed on it directly — see simd.BitcastI32ToF32/BitcastF32ToI32.
type SolveBody struct {
	VelocityX, VelocityY float32
	AngularVelocity      float32
	LastIteration        int32
}

// SolveBodyParams is the read-only per-body pose/mass record consulted
// during Refresh; one 32-byte record per body.
type SolveBodyParams struct {
	InvMass, InvInertia float32
	PosX, PosY          float32
	XVecX, XVecY        float32
	YVecX, YVecY        float32
}

// Mode selects the SIMD batch width the solver groups contacts into.
type Mode int

const (
	ModeScalar Mode = iota
	ModeSSE2
	ModeAVX2
)

// Width returns the lane count N implied by m, or 0 for an
// unrecognised mode.
func (m Mode) Width() int {
	switch m {
	case ModeScalar:
		return 1
	case ModeSSE2:
		return 4
	case ModeAVX2:
		return 8
	default:
		return 0
	}
}

func (m Mode) String() string {
	switch m {
	case ModeScalar:
		return "Scalar"
	case ModeSSE2:
		return "SSE2"
	case ModeAVX2:
		return "AVX2"
	default:
		return "Unknown"
	}
}

// Config is the solver's entry-point configuration.
type Config struct {
	Mode Mode
	// Kv is the maximum number of velocity iterations (typical 15).
	Kv int
	// Kp is the maximum number of displacement iterations (typical 15).
	Kp int
}

// Validate reports a ConfigError when Config cannot be used to solve,
// mirroring the teacher's validateConfig pattern: a pure function
// called before any work begins.
func (c Config) Validate() error {
	if c.Mode.Width() == 0 {
		return &ConfigError{Mode: c.Mode, Reason: "unrecognised SIMD mode"}
	}
	if c.Kv < 0 {
		return &ConfigError{Mode: c.Mode, Reason: "Kv must be >= 0"}
	}
	if c.Kp < 0 {
		return &ConfigError{Mode: c.Mode, Reason: "Kp must be >= 0"}
	}
	return nil
}
