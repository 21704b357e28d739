package solver

// refreshConstants are the fixed geometric constants used by Refresh;
// named exactly as spec.md describes them rather than inlined, since
// deltaDepth appears in two formulas.
const (
	bounceCoefficient      float32 = 0 // restitution is not modelled; fixed at 0
	velocitySlop           float32 = 1
	maxPenetrationVelocity float32 = 0.1
	deltaDepth             float32 = 1
	errorReduction         float32 = 0.1
)

// buildLimiterScalar computes the shared projector/composite-mass
// shape used by both NormalLimiter and FrictionLimiter: a_i = n_i x w_i,
// compMass_i = invMass_i * n_i (linear) and invInertia_i * a_i
// (angular), and compInvMass = 1/K when K = sum of both bodies'
// compMass dotted with their own projector, or 0 when K == 0 (the
// degenerate two-static-bodies case).
func buildLimiterScalar(
	n1x, n1y, n2x, n2y, w1x, w1y, w2x, w2y float32,
	invMass1, invInertia1, invMass2, invInertia2 float32,
) (proj1x, proj1y, proj2x, proj2y, ang1, ang2, comp1lx, comp1ly, comp2lx, comp2ly, comp1a, comp2a, compInvMass float32) {
	proj1x, proj1y = n1x, n1y
	proj2x, proj2y = n2x, n2y
	ang1 = Cross2D(n1x, n1y, w1x, w1y)
	ang2 = Cross2D(n2x, n2y, w2x, w2y)

	comp1lx, comp1ly = proj1x*invMass1, proj1y*invMass1
	comp1a = ang1 * invInertia1
	comp2lx, comp2ly = proj2x*invMass2, proj2y*invMass2
	comp2a = ang2 * invInertia2

	compMass1 := proj1x*comp1lx + proj1y*comp1ly + ang1*comp1a
	compMass2 := proj2x*comp2lx + proj2y*comp2ly + ang2*comp2a
	compMass := compMass1 + compMass2

	if compMass > 0 || compMass < 0 {
		compInvMass = 1 / compMass
	}
	return
}

// refreshBlock recomputes the geometric state of packed joints
// [begin, end) from current body poses, the way Refresh does for a
// single contact in spec.md §4.3. It reads solveBodiesParams (pose,
// mass) and solveBodiesImpulse (velocity, for the now-inert bounce
// term) and writes every packed field except the accumulated
// (friction/normal) impulses, which are left untouched so warm
// -starting carries over.
func refreshBlock(p *packedJoints, begin, end int, bodies []SolveBodyParams, velocities []SolveBody, points []ContactPoint) {
	for i := begin; i < end; i++ {
		b1 := &bodies[p.body1Index[i]]
		b2 := &bodies[p.body2Index[i]]
		v1 := &velocities[p.body1Index[i]]
		v2 := &velocities[p.body2Index[i]]
		pt := &points[p.contactPointIndex[i]]

		point1X := pt.Delta1.X + b1.PosX
		point1Y := pt.Delta1.Y + b1.PosY
		point2X := pt.Delta2.X + b2.PosX
		point2Y := pt.Delta2.Y + b2.PosY

		w1x, w1y := pt.Delta1.X, pt.Delta1.Y
		w2x := point1X - b2.PosX
		w2y := point1Y - b2.PosY

		nx, ny := pt.Normal.X, pt.Normal.Y

		proj1x, proj1y, proj2x, proj2y, ang1, ang2, comp1lx, comp1ly, comp2lx, comp2ly, comp1a, comp2a, compInv := buildLimiterScalar(
			nx, ny, -nx, -ny, w1x, w1y, w2x, w2y,
			b1.InvMass, b1.InvInertia, b2.InvMass, b2.InvInertia,
		)

		p.nProj1X[i], p.nProj1Y[i] = proj1x, proj1y
		p.nProj2X[i], p.nProj2Y[i] = proj2x, proj2y
		p.nAng1[i], p.nAng2[i] = ang1, ang2
		p.nComp1LX[i], p.nComp1LY[i] = comp1lx, comp1ly
		p.nComp2LX[i], p.nComp2LY[i] = comp2lx, comp2ly
		p.nComp1A[i], p.nComp2A[i] = comp1a, comp2a
		p.nCompInv[i] = compInv

		pointVel1X := (b1.PosY-point1Y)*v1.AngularVelocity + v1.VelocityX
		pointVel1Y := (point1X-b1.PosX)*v1.AngularVelocity + v1.VelocityY
		pointVel2X := (b2.PosY-point2Y)*v2.AngularVelocity + v2.VelocityX
		pointVel2Y := (point2X-b2.PosX)*v2.AngularVelocity + v2.VelocityY

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
		p.nDstVel[i] = dstVel

		penetration := depth - 2*deltaDepth
		if penetration < 0 {
			penetration = 0
		}
		p.nDstDisplacingVel[i] = errorReduction * penetration
		p.nAccumDisplacing[i] = 0

		tx, ty := -ny, nx

		fproj1x, fproj1y, fproj2x, fproj2y, fang1, fang2, fcomp1lx, fcomp1ly, fcomp2lx, fcomp2ly, fcomp1a, fcomp2a, fcompInv := buildLimiterScalar(
			tx, ty, -tx, -ty, w1x, w1y, w2x, w2y,
			b1.InvMass, b1.InvInertia, b2.InvMass, b2.InvInertia,
		)

		p.fProj1X[i], p.fProj1Y[i] = fproj1x, fproj1y
		p.fProj2X[i], p.fProj2Y[i] = fproj2x, fproj2y
		p.fAng1[i], p.fAng2[i] = fang1, fang2
		p.fComp1LX[i], p.fComp1LY[i] = fcomp1lx, fcomp1ly
		p.fComp2LX[i], p.fComp2LY[i] = fcomp2lx, fcomp2ly
		p.fComp1A[i], p.fComp2A[i] = fcomp1a, fcomp2a
		p.fCompInv[i] = fcompInv
	}
}
