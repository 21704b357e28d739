package solver

// preStepBlock applies the carried-over accumulated impulses (normal
// and friction) directly to body velocities, warm-starting the
// iteration loop from the previous frame's converged state.
// Displacement impulses are not applied here: they always start at 0.
func preStepBlock(p *packedJoints, begin, end int, velocities []SolveBody) {
	for i := begin; i < end; i++ {
		v1 := &velocities[p.body1Index[i]]
		v2 := &velocities[p.body2Index[i]]

		nImpulse := p.nAccum[i]
		v1.VelocityX += p.nComp1LX[i] * nImpulse
		v1.VelocityY += p.nComp1LY[i] * nImpulse
		v1.AngularVelocity += p.nComp1A[i] * nImpulse
		v2.VelocityX += p.nComp2LX[i] * nImpulse
		v2.VelocityY += p.nComp2LY[i] * nImpulse
		v2.AngularVelocity += p.nComp2A[i] * nImpulse

		fImpulse := p.fAccum[i]
		v1.VelocityX += p.fComp1LX[i] * fImpulse
		v1.VelocityY += p.fComp1LY[i] * fImpulse
		v1.AngularVelocity += p.fComp1A[i] * fImpulse
		v2.VelocityX += p.fComp2LX[i] * fImpulse
		v2.VelocityY += p.fComp2LY[i] * fImpulse
		v2.AngularVelocity += p.fComp2A[i] * fImpulse
	}
}
