package solver

import "github.com/aismann/phyx/internal/simd"

// laneBody holds up to simd.WidthAVX2 lanes of a SolveBody gathered
// from a width-aligned block's disjoint bodies, one lane per contact.
// Grouping guarantees every body touched by a block is touched by
// exactly one lane, so the gather/scatter below never aliases within
// a call.
type laneBody struct {
	x, y, ang [simd.WidthAVX2]float32
}

func gatherBody(dst *laneBody, bodies []SolveBody, indices []uint32, n int) {
	for k := 0; k < n; k++ {
		b := &bodies[indices[k]]
		dst.x[k] = b.VelocityX
		dst.y[k] = b.VelocityY
		dst.ang[k] = b.AngularVelocity
	}
}

func scatterBody(bodies []SolveBody, indices []uint32, src *laneBody, n int) {
	for k := 0; k < n; k++ {
		b := &bodies[indices[k]]
		b.VelocityX = src.x[k]
		b.VelocityY = src.y[k]
		b.AngularVelocity = src.ang[k]
	}
}

// laneActive reports, lane by lane, whether either body of that
// lane's contact was active as of iteration-1. LastIteration is
// bit-cast through simd.BitcastI32ToF32/BitcastF32ToI32 at this
// boundary rather than compared directly, per the no-arithmetic-on-
// the-bitcast-lane contract documented on SolveBody.
func laneActive(dst []bool, bodies []SolveBody, indices []uint32, iteration int, n int) {
	threshold := int32(iteration - 1)
	for k := 0; k < n; k++ {
		li := simd.BitcastF32ToI32(simd.BitcastI32ToF32(bodies[indices[k]].LastIteration))
		dst[k] = li >= threshold
	}
}

func orActive(dst, other []bool, n int) {
	for k := 0; k < n; k++ {
		dst[k] = dst[k] || other[k]
	}
}

// dotProjection computes dst[k] = px[k]*vx[k] + py[k]*vy[k] +
// pAng[k]*vAng[k] across n lanes using the simd package's elementwise
// kernels, tmp as scratch.
func dotProjection(dst, px, py, pAng, vx, vy, vAng, tmp []float32) {
	simd.Mul(dst, px, vx)
	simd.Mul(tmp, py, vy)
	simd.Add(dst, dst, tmp)
	simd.Mul(tmp, pAng, vAng)
	simd.Add(dst, dst, tmp)
}

// clampToAccumulated applies the unilateral limiter's clamp: where
// delta+accum < 0, delta is replaced by -accum, matching the scalar
// `if normalDelta+accum < 0 { normalDelta = -accum }` branch but
// computed as a vector compare-and-select over all n lanes at once.
func clampToAccumulated(delta, accum, zero, sum, negAccum []float32, mask []bool) {
	simd.Add(sum, delta, accum)
	simd.Sub(negAccum, zero, accum)
	simd.GreaterThan(mask, zero, sum)
	simd.Select(delta, delta, negAccum, mask)
}

func zeroInactive(delta []float32, active []bool, n int) {
	for k := 0; k < n; k++ {
		if !active[k] {
			delta[k] = 0
		}
	}
}

// solveVelocityBlockWide is the SIMD-width path of solveVelocityBlock:
// it processes an entire width-aligned block of mutually body-disjoint
// contacts through internal/simd's elementwise lane kernels instead of
// one contact at a time, mirroring the original source's
// SolveJointsImpulsesSoA<N>. Disjointness is what makes this valid:
// no lane's gather/scatter can observe another lane's write.
func solveVelocityBlockWide(p *packedJoints, blockStart, blockEnd, iteration int, velocities []SolveBody) bool {
	n := blockEnd - blockStart
	idx1 := p.body1Index[blockStart:blockEnd]
	idx2 := p.body2Index[blockStart:blockEnd]

	var body1, body2 laneBody
	gatherBody(&body1, velocities, idx1, n)
	gatherBody(&body2, velocities, idx2, n)

	var active1, active2 [simd.WidthAVX2]bool
	a1, a2 := active1[:n], active2[:n]
	laneActive(a1, velocities, idx1, iteration, n)
	laneActive(a2, velocities, idx2, iteration, n)
	orActive(a1, a2, n)

	nProj1X, nProj1Y := p.nProj1X[blockStart:blockEnd], p.nProj1Y[blockStart:blockEnd]
	nProj2X, nProj2Y := p.nProj2X[blockStart:blockEnd], p.nProj2Y[blockStart:blockEnd]
	nAng1, nAng2 := p.nAng1[blockStart:blockEnd], p.nAng2[blockStart:blockEnd]
	nCompInv := p.nCompInv[blockStart:blockEnd]
	nAccum := p.nAccum[blockStart:blockEnd]
	nDstVel := p.nDstVel[blockStart:blockEnd]
	nComp1LX, nComp1LY := p.nComp1LX[blockStart:blockEnd], p.nComp1LY[blockStart:blockEnd]
	nComp2LX, nComp2LY := p.nComp2LX[blockStart:blockEnd], p.nComp2LY[blockStart:blockEnd]
	nComp1A, nComp2A := p.nComp1A[blockStart:blockEnd], p.nComp2A[blockStart:blockEnd]

	fProj1X, fProj1Y := p.fProj1X[blockStart:blockEnd], p.fProj1Y[blockStart:blockEnd]
	fProj2X, fProj2Y := p.fProj2X[blockStart:blockEnd], p.fProj2Y[blockStart:blockEnd]
	fAng1, fAng2 := p.fAng1[blockStart:blockEnd], p.fAng2[blockStart:blockEnd]
	fCompInv := p.fCompInv[blockStart:blockEnd]
	fAccum := p.fAccum[blockStart:blockEnd]
	fComp1LX, fComp1LY := p.fComp1LX[blockStart:blockEnd], p.fComp1LY[blockStart:blockEnd]
	fComp2LX, fComp2LY := p.fComp2LX[blockStart:blockEnd], p.fComp2LY[blockStart:blockEnd]
	fComp1A, fComp2A := p.fComp1A[blockStart:blockEnd], p.fComp2A[blockStart:blockEnd]

	var zeroArr [simd.WidthAVX2]float32
	zero := zeroArr[:n]

	var d1Arr, d2Arr, tmpArr [simd.WidthAVX2]float32
	d1, d2, tmp := d1Arr[:n], d2Arr[:n], tmpArr[:n]

	// Normal limiter.
	dotProjection(d1, nProj1X, nProj1Y, nAng1, body1.x[:n], body1.y[:n], body1.ang[:n], tmp)
	dotProjection(d2, nProj2X, nProj2Y, nAng2, body2.x[:n], body2.y[:n], body2.ang[:n], tmp)

	var normalDV [simd.WidthAVX2]float32
	ndv := normalDV[:n]
	simd.Sub(ndv, nDstVel, d1)
	simd.Sub(ndv, ndv, d2)

	var normalDeltaArr [simd.WidthAVX2]float32
	normalDelta := normalDeltaArr[:n]
	simd.Mul(normalDelta, ndv, nCompInv)

	var sumArr, negAccumArr [simd.WidthAVX2]float32
	var clampMask [simd.WidthAVX2]bool
	clampToAccumulated(normalDelta, nAccum, zero, sumArr[:n], negAccumArr[:n], clampMask[:n])
	zeroInactive(normalDelta, a1, n)

	simd.MulAdd(body1.x[:n], nComp1LX, normalDelta, body1.x[:n])
	simd.MulAdd(body1.y[:n], nComp1LY, normalDelta, body1.y[:n])
	simd.MulAdd(body1.ang[:n], nComp1A, normalDelta, body1.ang[:n])
	simd.MulAdd(body2.x[:n], nComp2LX, normalDelta, body2.x[:n])
	simd.MulAdd(body2.y[:n], nComp2LY, normalDelta, body2.y[:n])
	simd.MulAdd(body2.ang[:n], nComp2A, normalDelta, body2.ang[:n])

	simd.Add(nAccum, nAccum, normalDelta)

	// Friction limiter, reading the normal-impulse-updated velocities.
	dotProjection(d1, fProj1X, fProj1Y, fAng1, body1.x[:n], body1.y[:n], body1.ang[:n], tmp)
	dotProjection(d2, fProj2X, fProj2Y, fAng2, body2.x[:n], body2.y[:n], body2.ang[:n], tmp)

	var frictionDVArr [simd.WidthAVX2]float32
	frictionDV := frictionDVArr[:n]
	simd.Add(frictionDV, d1, d2)
	simd.Sub(frictionDV, zero, frictionDV)

	var frictionDeltaArr [simd.WidthAVX2]float32
	frictionDelta := frictionDeltaArr[:n]
	simd.Mul(frictionDelta, frictionDV, fCompInv)

	var coeffArr, limitArr, negLimitArr, forceArr [simd.WidthAVX2]float32
	coeff := coeffArr[:n]
	simd.Splat(coeff, kFrictionCoefficient)
	limit := limitArr[:n]
	simd.Mul(limit, nAccum, coeff)
	negLimit := negLimitArr[:n]
	simd.Sub(negLimit, zero, limit)
	force := forceArr[:n]
	simd.Add(force, fAccum, frictionDelta)

	var overMask, underMask [simd.WidthAVX2]bool
	om, um := overMask[:n], underMask[:n]
	simd.GreaterThan(om, force, limit)
	simd.GreaterThan(um, negLimit, force)
	simd.Select(force, force, limit, om)
	simd.Select(force, force, negLimit, um)

	simd.Sub(frictionDelta, force, fAccum)
	zeroInactive(frictionDelta, a1, n)

	simd.MulAdd(body1.x[:n], fComp1LX, frictionDelta, body1.x[:n])
	simd.MulAdd(body1.y[:n], fComp1LY, frictionDelta, body1.y[:n])
	simd.MulAdd(body1.ang[:n], fComp1A, frictionDelta, body1.ang[:n])
	simd.MulAdd(body2.x[:n], fComp2LX, frictionDelta, body2.x[:n])
	simd.MulAdd(body2.y[:n], fComp2LY, frictionDelta, body2.y[:n])
	simd.MulAdd(body2.ang[:n], fComp2A, frictionDelta, body2.ang[:n])

	simd.Add(fAccum, fAccum, frictionDelta)

	var absND, absFD, cumulative, threshold [simd.WidthAVX2]float32
	simd.Abs(absND[:n], normalDelta)
	simd.Abs(absFD[:n], frictionDelta)
	simd.Max(cumulative[:n], absND[:n], absFD[:n])
	simd.Splat(threshold[:n], kProductiveImpulse)

	var productiveMask [simd.WidthAVX2]bool
	pm := productiveMask[:n]
	simd.GreaterThan(pm, cumulative[:n], threshold[:n])

	scatterBody(velocities, idx1, &body1, n)
	scatterBody(velocities, idx2, &body2, n)

	productive := simd.Any(pm)
	for k := 0; k < n; k++ {
		if pm[k] {
			velocities[idx1[k]].LastIteration = int32(iteration)
			velocities[idx2[k]].LastIteration = int32(iteration)
		}
	}

	return productive
}

// solveDisplacementBlockWide is solveVelocityBlockWide's displacement
// -pass analogue: no friction, reuses the normal limiter's geometry
// against the displacement accumulator/target.
func solveDisplacementBlockWide(p *packedJoints, blockStart, blockEnd, iteration int, displacement []SolveBody) bool {
	n := blockEnd - blockStart
	idx1 := p.body1Index[blockStart:blockEnd]
	idx2 := p.body2Index[blockStart:blockEnd]

	var body1, body2 laneBody
	gatherBody(&body1, displacement, idx1, n)
	gatherBody(&body2, displacement, idx2, n)

	var active1, active2 [simd.WidthAVX2]bool
	a1, a2 := active1[:n], active2[:n]
	laneActive(a1, displacement, idx1, iteration, n)
	laneActive(a2, displacement, idx2, iteration, n)
	orActive(a1, a2, n)

	nProj1X, nProj1Y := p.nProj1X[blockStart:blockEnd], p.nProj1Y[blockStart:blockEnd]
	nProj2X, nProj2Y := p.nProj2X[blockStart:blockEnd], p.nProj2Y[blockStart:blockEnd]
	nAng1, nAng2 := p.nAng1[blockStart:blockEnd], p.nAng2[blockStart:blockEnd]
	nCompInv := p.nCompInv[blockStart:blockEnd]
	nAccumDisplacing := p.nAccumDisplacing[blockStart:blockEnd]
	nDstDisplacingVel := p.nDstDisplacingVel[blockStart:blockEnd]
	nComp1LX, nComp1LY := p.nComp1LX[blockStart:blockEnd], p.nComp1LY[blockStart:blockEnd]
	nComp2LX, nComp2LY := p.nComp2LX[blockStart:blockEnd], p.nComp2LY[blockStart:blockEnd]
	nComp1A, nComp2A := p.nComp1A[blockStart:blockEnd], p.nComp2A[blockStart:blockEnd]

	var zeroArr [simd.WidthAVX2]float32
	zero := zeroArr[:n]

	var d1Arr, d2Arr, tmpArr [simd.WidthAVX2]float32
	d1, d2, tmp := d1Arr[:n], d2Arr[:n], tmpArr[:n]

	dotProjection(d1, nProj1X, nProj1Y, nAng1, body1.x[:n], body1.y[:n], body1.ang[:n], tmp)
	dotProjection(d2, nProj2X, nProj2Y, nAng2, body2.x[:n], body2.y[:n], body2.ang[:n], tmp)

	var dVArr [simd.WidthAVX2]float32
	dV := dVArr[:n]
	simd.Sub(dV, nDstDisplacingVel, d1)
	simd.Sub(dV, dV, d2)

	var deltaArr [simd.WidthAVX2]float32
	delta := deltaArr[:n]
	simd.Mul(delta, dV, nCompInv)

	var sumArr, negAccumArr [simd.WidthAVX2]float32
	var clampMask [simd.WidthAVX2]bool
	clampToAccumulated(delta, nAccumDisplacing, zero, sumArr[:n], negAccumArr[:n], clampMask[:n])
	zeroInactive(delta, a1, n)

	simd.MulAdd(body1.x[:n], nComp1LX, delta, body1.x[:n])
	simd.MulAdd(body1.y[:n], nComp1LY, delta, body1.y[:n])
	simd.MulAdd(body1.ang[:n], nComp1A, delta, body1.ang[:n])
	simd.MulAdd(body2.x[:n], nComp2LX, delta, body2.x[:n])
	simd.MulAdd(body2.y[:n], nComp2LY, delta, body2.y[:n])
	simd.MulAdd(body2.ang[:n], nComp2A, delta, body2.ang[:n])

	simd.Add(nAccumDisplacing, nAccumDisplacing, delta)

	var absDelta, threshold [simd.WidthAVX2]float32
	simd.Abs(absDelta[:n], delta)
	simd.Splat(threshold[:n], kProductiveImpulse)

	var productiveMask [simd.WidthAVX2]bool
	pm := productiveMask[:n]
	simd.GreaterThan(pm, absDelta[:n], threshold[:n])

	scatterBody(displacement, idx1, &body1, n)
	scatterBody(displacement, idx2, &body2, n)

	productive := simd.Any(pm)
	for k := 0; k < n; k++ {
		if pm[k] {
			displacement[idx1[k]].LastIteration = int32(iteration)
			displacement[idx2[k]].LastIteration = int32(iteration)
		}
	}

	return productive
}
