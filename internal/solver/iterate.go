package solver

// solveVelocityBlock runs one PGS velocity iteration over packed
// joints [begin, end). width is the SIMD lane width the block was
// grouped at; when every body in the block is quiescent (no lane's
// bodies were productive in the previous iteration) the whole block
// is skipped, mirroring the "all lanes inactive" fast path of the
// SIMD variant. width-aligned blocks within the grouped prefix run
// through the vectorized internal/simd kernel in solveVelocityBlockWide;
// the scalar tail (width == 1) runs the plain per-contact loop below.
// Returns whether any contact in the block was productive this
// iteration.
func solveVelocityBlock(p *packedJoints, begin, end, width, iteration int, velocities []SolveBody) bool {
	productive := false

	for blockStart := begin; blockStart < end; blockStart += width {
		blockEnd := blockStart + width
		if blockEnd > end {
			blockEnd = end
		}

		if !blockActive(p, blockStart, blockEnd, iteration, velocities) {
			continue
		}

		if width > 1 {
			if solveVelocityBlockWide(p, blockStart, blockEnd, iteration, velocities) {
				productive = true
			}
			continue
		}

		for i := blockStart; i < blockEnd; i++ {
			v1 := &velocities[p.body1Index[i]]
			v2 := &velocities[p.body2Index[i]]

			if v1.LastIteration < int32(iteration-1) && v2.LastIteration < int32(iteration-1) {
				continue
			}

			normaldV := p.nDstVel[i]
			normaldV -= p.nProj1X[i]*v1.VelocityX + p.nProj1Y[i]*v1.VelocityY + p.nAng1[i]*v1.AngularVelocity
			normaldV -= p.nProj2X[i]*v2.VelocityX + p.nProj2Y[i]*v2.VelocityY + p.nAng2[i]*v2.AngularVelocity

			normalDelta := normaldV * p.nCompInv[i]
			if normalDelta+p.nAccum[i] < 0 {
				normalDelta = -p.nAccum[i]
			}

			v1.VelocityX += p.nComp1LX[i] * normalDelta
			v1.VelocityY += p.nComp1LY[i] * normalDelta
			v1.AngularVelocity += p.nComp1A[i] * normalDelta
			v2.VelocityX += p.nComp2LX[i] * normalDelta
			v2.VelocityY += p.nComp2LY[i] * normalDelta
			v2.AngularVelocity += p.nComp2A[i] * normalDelta

			p.nAccum[i] += normalDelta

			var frictiondV float32
			frictiondV -= p.fProj1X[i]*v1.VelocityX + p.fProj1Y[i]*v1.VelocityY + p.fAng1[i]*v1.AngularVelocity
			frictiondV -= p.fProj2X[i]*v2.VelocityX + p.fProj2Y[i]*v2.VelocityY + p.fAng2[i]*v2.AngularVelocity

			frictionDelta := frictiondV * p.fCompInv[i]

			reactionForce := p.nAccum[i]
			frictionAccum := p.fAccum[i]
			frictionForce := frictionAccum + frictionDelta

			limit := reactionForce * kFrictionCoefficient
			if frictionForce > limit || frictionForce < -limit {
				dir := float32(1)
				if frictionForce < 0 {
					dir = -1
				}
				frictionForce = dir * limit
				frictionDelta = frictionForce - frictionAccum
			}

			p.fAccum[i] += frictionDelta

			v1.VelocityX += p.fComp1LX[i] * frictionDelta
			v1.VelocityY += p.fComp1LY[i] * frictionDelta
			v1.AngularVelocity += p.fComp1A[i] * frictionDelta
			v2.VelocityX += p.fComp2LX[i] * frictionDelta
			v2.VelocityY += p.fComp2LY[i] * frictionDelta
			v2.AngularVelocity += p.fComp2A[i] * frictionDelta

			cumulative := absF32(normalDelta)
			if fd := absF32(frictionDelta); fd > cumulative {
				cumulative = fd
			}

			if cumulative > kProductiveImpulse {
				v1.LastIteration = int32(iteration)
				v2.LastIteration = int32(iteration)
				productive = true
			}
		}
	}

	return productive
}

// solveDisplacementBlock is the displacement-pass analogue of
// solveVelocityBlock: no friction, a distinct velocity array, and a
// productivity test on |delta| alone.
func solveDisplacementBlock(p *packedJoints, begin, end, width, iteration int, displacement []SolveBody) bool {
	productive := false

	for blockStart := begin; blockStart < end; blockStart += width {
		blockEnd := blockStart + width
		if blockEnd > end {
			blockEnd = end
		}

		if !blockActive(p, blockStart, blockEnd, iteration, displacement) {
			continue
		}

		if width > 1 {
			if solveDisplacementBlockWide(p, blockStart, blockEnd, iteration, displacement) {
				productive = true
			}
			continue
		}

		for i := blockStart; i < blockEnd; i++ {
			v1 := &displacement[p.body1Index[i]]
			v2 := &displacement[p.body2Index[i]]

			if v1.LastIteration < int32(iteration-1) && v2.LastIteration < int32(iteration-1) {
				continue
			}

			dV := p.nDstDisplacingVel[i]
			dV -= p.nProj1X[i]*v1.VelocityX + p.nProj1Y[i]*v1.VelocityY + p.nAng1[i]*v1.AngularVelocity
			dV -= p.nProj2X[i]*v2.VelocityX + p.nProj2Y[i]*v2.VelocityY + p.nAng2[i]*v2.AngularVelocity

			delta := dV * p.nCompInv[i]
			if delta+p.nAccumDisplacing[i] < 0 {
				delta = -p.nAccumDisplacing[i]
			}

			v1.VelocityX += p.nComp1LX[i] * delta
			v1.VelocityY += p.nComp1LY[i] * delta
			v1.AngularVelocity += p.nComp1A[i] * delta
			v2.VelocityX += p.nComp2LX[i] * delta
			v2.VelocityY += p.nComp2LY[i] * delta
			v2.AngularVelocity += p.nComp2A[i] * delta

			p.nAccumDisplacing[i] += delta

			if absF32(delta) > kProductiveImpulse {
				v1.LastIteration = int32(iteration)
				v2.LastIteration = int32(iteration)
				productive = true
			}
		}
	}

	return productive
}

// blockActive reports whether any contact in [begin, end) has a body
// that was active as of iteration-1; when false the whole block can
// be skipped without touching any lane, matching the SIMD variant's
// "all lanes inactive" early-out (spec.md §4.5).
func blockActive(p *packedJoints, begin, end, iteration int, velocities []SolveBody) bool {
	for i := begin; i < end; i++ {
		v1 := &velocities[p.body1Index[i]]
		v2 := &velocities[p.body2Index[i]]
		if v1.LastIteration >= int32(iteration-1) || v2.LastIteration >= int32(iteration-1) {
			return true
		}
	}
	return false
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
