package solver

import "github.com/aismann/phyx/internal/simd"

// packedJoints is the SoA realization of spec's ContactJointPacked<N>:
// every scalar field of a ContactJoint becomes one contiguous slice
// indexed by permuted joint position. Go has no compile-time generic
// array length, so rather than an array of fixed-N-wide block records
// this is one flat table spanning every joint in the permutation;
// the N-wide batching that spec's type name implies survives as the
// width used by the grouping pass (bodies within any width-aligned
// block of entries are guaranteed disjoint) and by the per-block
// activity-gate skip in the iteration loops.
type packedJoints struct {
	count int

	body1Index, body2Index, contactPointIndex []uint32

	nProj1X, nProj1Y, nProj2X, nProj2Y []float32
	nAng1, nAng2                       []float32
	nComp1LX, nComp1LY, nComp2LX, nComp2LY []float32
	nComp1A, nComp2A                   []float32
	nCompInv                           []float32
	nAccum                              []float32
	nDstVel                             []float32
	nDstDisplacingVel                   []float32
	nAccumDisplacing                    []float32

	fProj1X, fProj1Y, fProj2X, fProj2Y []float32
	fAng1, fAng2                       []float32
	fComp1LX, fComp1LY, fComp2LX, fComp2LY []float32
	fComp1A, fComp2A                   []float32
	fCompInv                           []float32
	fAccum                              []float32
}

const packedAlign = simd.WidthAVX2 * 4

func (p *packedJoints) resize(n int) {
	p.count = n
	p.body1Index = growU32(p.body1Index, n)
	p.body2Index = growU32(p.body2Index, n)
	p.contactPointIndex = growU32(p.contactPointIndex, n)

	p.nProj1X = simd.GrowFloat32s(p.nProj1X, n, packedAlign)
	p.nProj1Y = simd.GrowFloat32s(p.nProj1Y, n, packedAlign)
	p.nProj2X = simd.GrowFloat32s(p.nProj2X, n, packedAlign)
	p.nProj2Y = simd.GrowFloat32s(p.nProj2Y, n, packedAlign)
	p.nAng1 = simd.GrowFloat32s(p.nAng1, n, packedAlign)
	p.nAng2 = simd.GrowFloat32s(p.nAng2, n, packedAlign)
	p.nComp1LX = simd.GrowFloat32s(p.nComp1LX, n, packedAlign)
	p.nComp1LY = simd.GrowFloat32s(p.nComp1LY, n, packedAlign)
	p.nComp2LX = simd.GrowFloat32s(p.nComp2LX, n, packedAlign)
	p.nComp2LY = simd.GrowFloat32s(p.nComp2LY, n, packedAlign)
	p.nComp1A = simd.GrowFloat32s(p.nComp1A, n, packedAlign)
	p.nComp2A = simd.GrowFloat32s(p.nComp2A, n, packedAlign)
	p.nCompInv = simd.GrowFloat32s(p.nCompInv, n, packedAlign)
	p.nAccum = simd.GrowFloat32s(p.nAccum, n, packedAlign)
	p.nDstVel = simd.GrowFloat32s(p.nDstVel, n, packedAlign)
	p.nDstDisplacingVel = simd.GrowFloat32s(p.nDstDisplacingVel, n, packedAlign)
	p.nAccumDisplacing = simd.GrowFloat32s(p.nAccumDisplacing, n, packedAlign)

	p.fProj1X = simd.GrowFloat32s(p.fProj1X, n, packedAlign)
	p.fProj1Y = simd.GrowFloat32s(p.fProj1Y, n, packedAlign)
	p.fProj2X = simd.GrowFloat32s(p.fProj2X, n, packedAlign)
	p.fProj2Y = simd.GrowFloat32s(p.fProj2Y, n, packedAlign)
	p.fAng1 = simd.GrowFloat32s(p.fAng1, n, packedAlign)
	p.fAng2 = simd.GrowFloat32s(p.fAng2, n, packedAlign)
	p.fComp1LX = simd.GrowFloat32s(p.fComp1LX, n, packedAlign)
	p.fComp1LY = simd.GrowFloat32s(p.fComp1LY, n, packedAlign)
	p.fComp2LX = simd.GrowFloat32s(p.fComp2LX, n, packedAlign)
	p.fComp2LY = simd.GrowFloat32s(p.fComp2LY, n, packedAlign)
	p.fComp1A = simd.GrowFloat32s(p.fComp1A, n, packedAlign)
	p.fComp2A = simd.GrowFloat32s(p.fComp2A, n, packedAlign)
	p.fCompInv = simd.GrowFloat32s(p.fCompInv, n, packedAlign)
	p.fAccum = simd.GrowFloat32s(p.fAccum, n, packedAlign)
}

func growU32(s []uint32, n int) []uint32 {
	if cap(s) >= n {
		return s[:n]
	}
	grown := make([]uint32, n)
	copy(grown, s)
	return grown
}

// pack scatters joints[permutation[i]] into lane i of every field,
// for i in [0, jointCount). Mirrors SolvePrepareSoA's CopyJoints step.
func (p *packedJoints) pack(joints []ContactJoint, permutation []int32) {
	n := len(permutation)
	p.resize(n)

	for i := 0; i < n; i++ {
		j := &joints[permutation[i]]

		p.body1Index[i] = j.Body1Index
		p.body2Index[i] = j.Body2Index
		p.contactPointIndex[i] = j.ContactPointIndex

		nl := &j.NormalLimiter
		p.nProj1X[i], p.nProj1Y[i] = nl.NormalProjector1.X, nl.NormalProjector1.Y
		p.nProj2X[i], p.nProj2Y[i] = nl.NormalProjector2.X, nl.NormalProjector2.Y
		p.nAng1[i], p.nAng2[i] = nl.AngularProjector1, nl.AngularProjector2
		p.nComp1LX[i], p.nComp1LY[i] = nl.CompMass1Linear.X, nl.CompMass1Linear.Y
		p.nComp2LX[i], p.nComp2LY[i] = nl.CompMass2Linear.X, nl.CompMass2Linear.Y
		p.nComp1A[i], p.nComp2A[i] = nl.CompMass1Angular, nl.CompMass2Angular
		p.nCompInv[i] = nl.CompInvMass
		p.nAccum[i] = nl.AccumulatedImpulse
		p.nDstVel[i] = nl.DstVelocity
		p.nDstDisplacingVel[i] = nl.DstDisplacingVelocity
		p.nAccumDisplacing[i] = nl.AccumulatedDisplacingImpulse

		fl := &j.FrictionLimiter
		p.fProj1X[i], p.fProj1Y[i] = fl.NormalProjector1.X, fl.NormalProjector1.Y
		p.fProj2X[i], p.fProj2Y[i] = fl.NormalProjector2.X, fl.NormalProjector2.Y
		p.fAng1[i], p.fAng2[i] = fl.AngularProjector1, fl.AngularProjector2
		p.fComp1LX[i], p.fComp1LY[i] = fl.CompMass1Linear.X, fl.CompMass1Linear.Y
		p.fComp2LX[i], p.fComp2LY[i] = fl.CompMass2Linear.X, fl.CompMass2Linear.Y
		p.fComp1A[i], p.fComp2A[i] = fl.CompMass1Angular, fl.CompMass2Angular
		p.fCompInv[i] = fl.CompInvMass
		p.fAccum[i] = fl.AccumulatedImpulse
	}
}

// unpack writes the accumulated impulses back from packed lane i into
// joints[permutation[i]]. Other packed fields were intermediate.
func (p *packedJoints) unpack(joints []ContactJoint, permutation []int32) {
	for i := 0; i < p.count; i++ {
		j := &joints[permutation[i]]
		j.NormalLimiter.AccumulatedImpulse = p.nAccum[i]
		j.NormalLimiter.AccumulatedDisplacingImpulse = p.nAccumDisplacing[i]
		j.FrictionLimiter.AccumulatedImpulse = p.fAccum[i]
	}
}
