package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticBody(pos Vec2) Body {
	return Body{Pos: pos}
}

func dynamicBody(invMass, invInertia float32, pos, vel Vec2) Body {
	return Body{InvMass: invMass, InvInertia: invInertia, Pos: pos, Velocity: vel}
}

func groundContact(body1, body2 uint32, delta1, delta2, normal Vec2) ([]ContactPoint, ContactJoint) {
	points := []ContactPoint{{Delta1: delta1, Delta2: delta2, Normal: normal}}
	joint := ContactJoint{Body1Index: body1, Body2Index: body2, ContactPointIndex: 0}
	return points, joint
}

func TestSolveSingleBoxOnGround(t *testing.T) {
	bodies := []Body{
		staticBody(Vec2{0, 0}),
		dynamicBody(1, 1, Vec2{0, 4}, Vec2{0, -10}),
	}
	points, joint := groundContact(0, 1, Vec2{0, -4}, Vec2{0, 0}, Vec2{0, 1})
	joints := []ContactJoint{joint}

	s := NewSolver(nil)
	_, err := s.Solve(bodies, points, joints, Config{Mode: ModeScalar, Kv: 15, Kp: 15})
	require.NoError(t, err)

	assert.InDelta(t, 0, bodies[1].Velocity.Y, 1e-2)
	assert.Greater(t, bodies[1].DisplacingVelocity.Y, float32(0))
	assert.Greater(t, joints[0].NormalLimiter.AccumulatedImpulse, float32(0))
}

func TestSolveFrictionlessSlide(t *testing.T) {
	bodies := []Body{
		staticBody(Vec2{0, 0}),
		dynamicBody(1, 1, Vec2{0, 4}, Vec2{5, -10}),
	}
	points, joint := groundContact(0, 1, Vec2{0, -4}, Vec2{0, 0}, Vec2{0, 1})
	joints := []ContactJoint{joint}

	s := NewSolver(nil)
	_, err := s.Solve(bodies, points, joints, Config{Mode: ModeScalar, Kv: 15, Kp: 15})
	require.NoError(t, err)

	assert.Less(t, absF32(bodies[1].Velocity.X-5), float32(0.05))
}

func TestSolveStackedBoxes(t *testing.T) {
	bodies := []Body{
		staticBody(Vec2{0, 0}),
		dynamicBody(1, 1, Vec2{0, 1}, Vec2{0, -1}),
		dynamicBody(1, 1, Vec2{0, 2}, Vec2{0, -1}),
	}
	points := []ContactPoint{
		{Delta1: Vec2{0, -0.5}, Delta2: Vec2{0, -0.5}, Normal: Vec2{0, 1}},
		{Delta1: Vec2{0, -0.5}, Delta2: Vec2{0, -0.5}, Normal: Vec2{0, 1}},
	}
	joints := []ContactJoint{
		{Body1Index: 0, Body2Index: 1, ContactPointIndex: 0},
		{Body1Index: 1, Body2Index: 2, ContactPointIndex: 1},
	}

	s := NewSolver(nil)
	_, err := s.Solve(bodies, points, joints, Config{Mode: ModeScalar, Kv: 15, Kp: 15})
	require.NoError(t, err)

	lower := joints[0].NormalLimiter.AccumulatedImpulse
	upper := joints[1].NormalLimiter.AccumulatedImpulse
	require.Greater(t, upper, float32(0))
	ratio := lower / upper
	assert.InDelta(t, 2.0, ratio, 0.1)
}

func TestGroupingSaturation(t *testing.T) {
	jointCount := 100
	joints := make([]ContactJoint, jointCount)
	for i := 0; i < jointCount; i++ {
		joints[i] = ContactJoint{Body1Index: uint32(i * 2), Body2Index: uint32(i*2 + 1)}
	}

	s := NewSolver(nil)
	groupOffset := s.groupJoints(joints, 200, 4)
	assert.Equal(t, jointCount, groupOffset)
}

func TestGroupingUnderflow(t *testing.T) {
	jointCount := 100
	joints := make([]ContactJoint, jointCount)
	for i := 0; i < jointCount; i++ {
		joints[i] = ContactJoint{Body1Index: 0, Body2Index: uint32(i + 1)}
	}

	s := NewSolver(nil)
	groupOffset := s.groupJoints(joints, jointCount+1, 4)
	assert.Equal(t, 0, groupOffset)
}

func TestGroupingBodyDisjointWithinGroup(t *testing.T) {
	jointCount := 97
	joints := make([]ContactJoint, jointCount)
	for i := 0; i < jointCount; i++ {
		joints[i] = ContactJoint{Body1Index: uint32(i), Body2Index: uint32(i + jointCount)}
	}

	s := NewSolver(nil)
	groupOffset := s.groupJoints(joints, jointCount*2, 4)
	require.Equal(t, 0, groupOffset%4)
	require.LessOrEqual(t, groupOffset, jointCount)

	for g := 0; g < groupOffset; g += 4 {
		seen := map[uint32]bool{}
		for lane := 0; lane < 4; lane++ {
			j := &joints[s.permutation[g+lane]]
			assert.False(t, seen[j.Body1Index])
			assert.False(t, seen[j.Body2Index])
			seen[j.Body1Index] = true
			seen[j.Body2Index] = true
		}
	}
}

func TestSolveStaticStaticContact(t *testing.T) {
	bodies := []Body{staticBody(Vec2{0, 0}), staticBody(Vec2{0, 1})}
	points := []ContactPoint{{Delta1: Vec2{0, 0}, Delta2: Vec2{0, -1}, Normal: Vec2{0, 1}}}
	joints := []ContactJoint{{Body1Index: 0, Body2Index: 1, ContactPointIndex: 0}}

	s := NewSolver(nil)
	stat, err := s.Solve(bodies, points, joints, Config{Mode: ModeScalar, Kv: 15, Kp: 15})
	require.NoError(t, err)

	assert.Equal(t, float32(0), joints[0].NormalLimiter.AccumulatedImpulse)
	assert.False(t, math.IsNaN(float64(stat)))
}

func TestSolveInvariantsAcrossRandomConfigurations(t *testing.T) {
	bodies := []Body{
		staticBody(Vec2{0, 0}),
		dynamicBody(1, 1, Vec2{0, 4}, Vec2{0, -10}),
	}
	points, joint := groundContact(0, 1, Vec2{0, -4}, Vec2{0, 0}, Vec2{0, 1})
	joints := []ContactJoint{joint}

	s := NewSolver(nil)
	for kv := 0; kv <= 15; kv++ {
		bodies[1].Velocity = Vec2{0, -10}
		joints[0].NormalLimiter.AccumulatedImpulse = 0
		joints[0].FrictionLimiter.AccumulatedImpulse = 0

		_, err := s.Solve(bodies, points, joints, Config{Mode: ModeScalar, Kv: kv, Kp: kv})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, joints[0].NormalLimiter.AccumulatedImpulse, float32(0))
		assert.LessOrEqual(t, absF32(joints[0].FrictionLimiter.AccumulatedImpulse),
			kFrictionCoefficient*joints[0].NormalLimiter.AccumulatedImpulse+1e-5)
	}
}

func TestSolveWarmStartIdempotence(t *testing.T) {
	bodies := []Body{
		staticBody(Vec2{0, 0}),
		dynamicBody(1, 1, Vec2{0, 4}, Vec2{0, -10}),
	}
	points, joint := groundContact(0, 1, Vec2{0, -4}, Vec2{0, 0}, Vec2{0, 1})
	joints := []ContactJoint{joint}

	s := NewSolver(nil)
	cfg := Config{Mode: ModeScalar, Kv: 15, Kp: 15}

	_, err := s.Solve(bodies, points, joints, cfg)
	require.NoError(t, err)
	firstVelocity := bodies[1].Velocity

	_, err = s.Solve(bodies, points, joints, cfg)
	require.NoError(t, err)

	delta := Vec2{bodies[1].Velocity.X - firstVelocity.X, bodies[1].Velocity.Y - firstVelocity.Y}
	assert.Less(t, float32(math.Hypot(float64(delta.X), float64(delta.Y))), float32(1e-3))
}

func TestSolveAoSAgreesWithPackedScalar(t *testing.T) {
	bodiesPacked := []Body{
		staticBody(Vec2{0, 0}),
		dynamicBody(1, 1, Vec2{0, 4}, Vec2{3, -10}),
	}
	bodiesAoS := append([]Body{}, bodiesPacked...)

	points, joint := groundContact(0, 1, Vec2{0, -4}, Vec2{0, 0}, Vec2{0, 1})
	jointsPacked := []ContactJoint{joint}
	jointsAoS := []ContactJoint{joint}

	s := NewSolver(nil)
	_, err := s.Solve(bodiesPacked, points, jointsPacked, Config{Mode: ModeScalar, Kv: 15, Kp: 15})
	require.NoError(t, err)

	SolveAoS(bodiesAoS, points, jointsAoS, 15, 15)

	assert.InDelta(t, bodiesAoS[1].Velocity.X, bodiesPacked[1].Velocity.X, 1e-3)
	assert.InDelta(t, bodiesAoS[1].Velocity.Y, bodiesPacked[1].Velocity.Y, 1e-3)
	assert.InDelta(t, jointsAoS[0].NormalLimiter.AccumulatedImpulse, jointsPacked[0].NormalLimiter.AccumulatedImpulse, 1e-3)
}

// buildIndependentGroundContacts builds n mutually body-disjoint
// ground contacts (each dynamic box over its own static ground, no
// body shared across pairs) so groupJoints packs every full width of
// them into body-disjoint blocks, leaving only n mod width contacts
// for the scalar tail.
func buildIndependentGroundContacts(n int) ([]Body, []ContactPoint, []ContactJoint) {
	bodies := make([]Body, 0, 2*n)
	points := make([]ContactPoint, 0, n)
	joints := make([]ContactJoint, 0, n)

	for i := 0; i < n; i++ {
		groundIdx := uint32(len(bodies))
		bodies = append(bodies, staticBody(Vec2{float32(i) * 10, 0}))

		boxIdx := uint32(len(bodies))
		velX := float32(i%5) - 2
		bodies = append(bodies, dynamicBody(1, 1, Vec2{float32(i) * 10, 4}, Vec2{velX, -10}))

		points = append(points, ContactPoint{
			Delta1: Vec2{0, -4},
			Delta2: Vec2{0, 0},
			Normal: Vec2{0, 1},
		})
		joints = append(joints, ContactJoint{
			Body1Index:        groundIdx,
			Body2Index:        boxIdx,
			ContactPointIndex: uint32(len(points) - 1),
		})
	}

	return bodies, points, joints
}

func TestSolveAoSAgreesWithPackedSIMDWidths(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
		n    int
	}{
		{"scalar", ModeScalar, 3},
		{"sse2-exact", ModeSSE2, 4},
		{"sse2-with-tail", ModeSSE2, 6},
		{"avx2-exact", ModeAVX2, 8},
		{"avx2-with-tail", ModeAVX2, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bodiesPacked, points, jointsPacked := buildIndependentGroundContacts(tc.n)
			bodiesAoS := append([]Body{}, bodiesPacked...)
			jointsAoS := append([]ContactJoint{}, jointsPacked...)

			s := NewSolver(nil)
			_, err := s.Solve(bodiesPacked, points, jointsPacked, Config{Mode: tc.mode, Kv: 15, Kp: 15})
			require.NoError(t, err)

			SolveAoS(bodiesAoS, points, jointsAoS, 15, 15)

			for i := range bodiesPacked {
				if bodiesPacked[i].InvMass == 0 {
					continue
				}
				assert.InDelta(t, bodiesAoS[i].Velocity.X, bodiesPacked[i].Velocity.X, 1e-3)
				assert.InDelta(t, bodiesAoS[i].Velocity.Y, bodiesPacked[i].Velocity.Y, 1e-3)
				assert.InDelta(t, bodiesAoS[i].AngularVelocity, bodiesPacked[i].AngularVelocity, 1e-3)
			}
			for i := range jointsPacked {
				assert.InDelta(t, jointsAoS[i].NormalLimiter.AccumulatedImpulse,
					jointsPacked[i].NormalLimiter.AccumulatedImpulse, 1e-3)
				assert.InDelta(t, jointsAoS[i].FrictionLimiter.AccumulatedImpulse,
					jointsPacked[i].FrictionLimiter.AccumulatedImpulse, 1e-3)
			}
		})
	}
}

func TestConfigValidateRejectsUnknownMode(t *testing.T) {
	cfg := Config{Mode: Mode(99), Kv: 1, Kp: 1}
	err := cfg.Validate()
	require.Error(t, err)
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
}

func TestConfigValidateRejectsNegativeIterations(t *testing.T) {
	cfg := Config{Mode: ModeScalar, Kv: -1, Kp: 1}
	require.Error(t, cfg.Validate())
}
