package solver

// SolveAoS is a pure array-of-structures reference implementation of
// the same algorithm Solve runs through the SoA/packed path: no
// grouping, no gather/scatter, one joint at a time. It exists as the
// oracle the SIMD-equivalence property test checks Solve's packed
// modes against (spec.md §8), mirroring the original source's
// separate SolveJointsAoS entry point.
func SolveAoS(bodies []Body, points []ContactPoint, joints []ContactJoint, kv, kp int) float32 {
	n := len(bodies)
	lastIter := make([]int32, n)
	lastDisplacementIter := make([]int32, n)
	for i := range lastIter {
		lastIter[i] = -1
		lastDisplacementIter[i] = -1
	}

	for i := range joints {
		refreshJointAoS(&joints[i], bodies, points)
	}
	for i := range joints {
		preStepJointAoS(&joints[i], bodies)
	}

	for iteration := 0; iteration < kv; iteration++ {
		productive := false
		for i := range joints {
			if solveJointImpulseAoS(&joints[i], bodies, lastIter, iteration) {
				productive = true
			}
		}
		if !productive {
			break
		}
	}

	for iteration := 0; iteration < kp; iteration++ {
		productive := false
		for i := range joints {
			if solveJointDisplacementAoS(&joints[i], bodies, lastDisplacementIter, iteration) {
				productive = true
			}
		}
		if !productive {
			break
		}
	}

	if len(joints) == 0 {
		return 0
	}

	var iterationSum int64
	for i := range joints {
		j := &joints[i]
		iterationSum += int64(max32(lastIter[j.Body1Index], lastIter[j.Body2Index])) + 2
		iterationSum += int64(max32(lastDisplacementIter[j.Body1Index], lastDisplacementIter[j.Body2Index])) + 2
	}
	return float32(iterationSum) / float32(len(joints))
}

func refreshJointAoS(j *ContactJoint, bodies []Body, points []ContactPoint) {
	b1 := &bodies[j.Body1Index]
	b2 := &bodies[j.Body2Index]
	pt := &points[j.ContactPointIndex]

	point1X := pt.Delta1.X + b1.Pos.X
	point1Y := pt.Delta1.Y + b1.Pos.Y
	point2X := pt.Delta2.X + b2.Pos.X
	point2Y := pt.Delta2.Y + b2.Pos.Y

	w1x, w1y := pt.Delta1.X, pt.Delta1.Y
	w2x := point1X - b2.Pos.X
	w2y := point1Y - b2.Pos.Y

	nx, ny := pt.Normal.X, pt.Normal.Y

	nl := &j.NormalLimiter
	nl.NormalProjector1.X, nl.NormalProjector1.Y,
		nl.NormalProjector2.X, nl.NormalProjector2.Y,
		nl.AngularProjector1, nl.AngularProjector2,
		nl.CompMass1Linear.X, nl.CompMass1Linear.Y,
		nl.CompMass2Linear.X, nl.CompMass2Linear.Y,
		nl.CompMass1Angular, nl.CompMass2Angular,
		nl.CompInvMass = buildLimiterScalar(
		nx, ny, -nx, -ny, w1x, w1y, w2x, w2y,
		b1.InvMass, b1.InvInertia, b2.InvMass, b2.InvInertia,
	)

	pointVel1X := (b1.Pos.Y-point1Y)*b1.AngularVelocity + b1.Velocity.X
	pointVel1Y := (point1X-b1.Pos.X)*b1.AngularVelocity + b1.Velocity.Y
	pointVel2X := (b2.Pos.Y-point2Y)*b2.AngularVelocity + b2.Velocity.X
	pointVel2Y := (point2X-b2.Pos.X)*b2.AngularVelocity + b2.Velocity.Y

	relVelX := pointVel1X - pointVel2X
	relVelY := pointVel1Y - pointVel2Y

	dv := -bounceCoefficient * (relVelX*nx + relVelY*ny)
	depth := (point2X-point1X)*nx + (point2Y-point1Y)*ny

	dstVel := dv - velocitySlop
	if dstVel < 0 {
		dstVel = 0
	}
	if depth < deltaDepth {
		dstVel -= maxPenetrationVelocity
	}
	nl.DstVelocity = dstVel

	penetration := depth - 2*deltaDepth
	if penetration < 0 {
		penetration = 0
	}
	nl.DstDisplacingVelocity = errorReduction * penetration
	nl.AccumulatedDisplacingImpulse = 0

	tx, ty := -ny, nx

	fl := &j.FrictionLimiter
	fl.NormalProjector1.X, fl.NormalProjector1.Y,
		fl.NormalProjector2.X, fl.NormalProjector2.Y,
		fl.AngularProjector1, fl.AngularProjector2,
		fl.CompMass1Linear.X, fl.CompMass1Linear.Y,
		fl.CompMass2Linear.X, fl.CompMass2Linear.Y,
		fl.CompMass1Angular, fl.CompMass2Angular,
		fl.CompInvMass = buildLimiterScalar(
		tx, ty, -tx, -ty, w1x, w1y, w2x, w2y,
		b1.InvMass, b1.InvInertia, b2.InvMass, b2.InvInertia,
	)
}

func preStepJointAoS(j *ContactJoint, bodies []Body) {
	b1 := &bodies[j.Body1Index]
	b2 := &bodies[j.Body2Index]

	nl := &j.NormalLimiter
	b1.Velocity.X += nl.CompMass1Linear.X * nl.AccumulatedImpulse
	b1.Velocity.Y += nl.CompMass1Linear.Y * nl.AccumulatedImpulse
	b1.AngularVelocity += nl.CompMass1Angular * nl.AccumulatedImpulse
	b2.Velocity.X += nl.CompMass2Linear.X * nl.AccumulatedImpulse
	b2.Velocity.Y += nl.CompMass2Linear.Y * nl.AccumulatedImpulse
	b2.AngularVelocity += nl.CompMass2Angular * nl.AccumulatedImpulse

	fl := &j.FrictionLimiter
	b1.Velocity.X += fl.CompMass1Linear.X * fl.AccumulatedImpulse
	b1.Velocity.Y += fl.CompMass1Linear.Y * fl.AccumulatedImpulse
	b1.AngularVelocity += fl.CompMass1Angular * fl.AccumulatedImpulse
	b2.Velocity.X += fl.CompMass2Linear.X * fl.AccumulatedImpulse
	b2.Velocity.Y += fl.CompMass2Linear.Y * fl.AccumulatedImpulse
	b2.AngularVelocity += fl.CompMass2Angular * fl.AccumulatedImpulse
}

func solveJointImpulseAoS(j *ContactJoint, bodies []Body, lastIter []int32, iteration int) bool {
	b1 := &bodies[j.Body1Index]
	b2 := &bodies[j.Body2Index]

	if lastIter[j.Body1Index] < int32(iteration-1) && lastIter[j.Body2Index] < int32(iteration-1) {
		return false
	}

	nl := &j.NormalLimiter
	normaldV := nl.DstVelocity
	normaldV -= nl.NormalProjector1.X*b1.Velocity.X + nl.NormalProjector1.Y*b1.Velocity.Y + nl.AngularProjector1*b1.AngularVelocity
	normaldV -= nl.NormalProjector2.X*b2.Velocity.X + nl.NormalProjector2.Y*b2.Velocity.Y + nl.AngularProjector2*b2.AngularVelocity

	normalDelta := normaldV * nl.CompInvMass
	if normalDelta+nl.AccumulatedImpulse < 0 {
		normalDelta = -nl.AccumulatedImpulse
	}

	b1.Velocity.X += nl.CompMass1Linear.X * normalDelta
	b1.Velocity.Y += nl.CompMass1Linear.Y * normalDelta
	b1.AngularVelocity += nl.CompMass1Angular * normalDelta
	b2.Velocity.X += nl.CompMass2Linear.X * normalDelta
	b2.Velocity.Y += nl.CompMass2Linear.Y * normalDelta
	b2.AngularVelocity += nl.CompMass2Angular * normalDelta

	nl.AccumulatedImpulse += normalDelta

	fl := &j.FrictionLimiter
	var frictiondV float32
	frictiondV -= fl.NormalProjector1.X*b1.Velocity.X + fl.NormalProjector1.Y*b1.Velocity.Y + fl.AngularProjector1*b1.AngularVelocity
	frictiondV -= fl.NormalProjector2.X*b2.Velocity.X + fl.NormalProjector2.Y*b2.Velocity.Y + fl.AngularProjector2*b2.AngularVelocity

	frictionDelta := frictiondV * fl.CompInvMass

	reactionForce := nl.AccumulatedImpulse
	frictionForce := fl.AccumulatedImpulse + frictionDelta
	limit := reactionForce * kFrictionCoefficient

	if frictionForce > limit || frictionForce < -limit {
		dir := float32(1)
		if frictionForce < 0 {
			dir = -1
		}
		frictionForce = dir * limit
		frictionDelta = frictionForce - fl.AccumulatedImpulse
	}

	fl.AccumulatedImpulse += frictionDelta

	b1.Velocity.X += fl.CompMass1Linear.X * frictionDelta
	b1.Velocity.Y += fl.CompMass1Linear.Y * frictionDelta
	b1.AngularVelocity += fl.CompMass1Angular * frictionDelta
	b2.Velocity.X += fl.CompMass2Linear.X * frictionDelta
	b2.Velocity.Y += fl.CompMass2Linear.Y * frictionDelta
	b2.AngularVelocity += fl.CompMass2Angular * frictionDelta

	cumulative := absF32(normalDelta)
	if fd := absF32(frictionDelta); fd > cumulative {
		cumulative = fd
	}

	if cumulative > kProductiveImpulse {
		lastIter[j.Body1Index] = int32(iteration)
		lastIter[j.Body2Index] = int32(iteration)
		return true
	}
	return false
}

func solveJointDisplacementAoS(j *ContactJoint, bodies []Body, lastIter []int32, iteration int) bool {
	b1 := &bodies[j.Body1Index]
	b2 := &bodies[j.Body2Index]

	if lastIter[j.Body1Index] < int32(iteration-1) && lastIter[j.Body2Index] < int32(iteration-1) {
		return false
	}

	nl := &j.NormalLimiter
	dV := nl.DstDisplacingVelocity
	dV -= nl.NormalProjector1.X*b1.DisplacingVelocity.X + nl.NormalProjector1.Y*b1.DisplacingVelocity.Y + nl.AngularProjector1*b1.DisplacingAngularVelocity
	dV -= nl.NormalProjector2.X*b2.DisplacingVelocity.X + nl.NormalProjector2.Y*b2.DisplacingVelocity.Y + nl.AngularProjector2*b2.DisplacingAngularVelocity

	delta := dV * nl.CompInvMass
	if delta+nl.AccumulatedDisplacingImpulse < 0 {
		delta = -nl.AccumulatedDisplacingImpulse
	}

	b1.DisplacingVelocity.X += nl.CompMass1Linear.X * delta
	b1.DisplacingVelocity.Y += nl.CompMass1Linear.Y * delta
	b1.DisplacingAngularVelocity += nl.CompMass1Angular * delta
	b2.DisplacingVelocity.X += nl.CompMass2Linear.X * delta
	b2.DisplacingVelocity.Y += nl.CompMass2Linear.Y * delta
	b2.DisplacingAngularVelocity += nl.CompMass2Angular * delta

	nl.AccumulatedDisplacingImpulse += delta

	if absF32(delta) > kProductiveImpulse {
		lastIter[j.Body1Index] = int32(iteration)
		lastIter[j.Body2Index] = int32(iteration)
		return true
	}
	return false
}
