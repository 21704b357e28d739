package solver

// groupJoints partitions jointCount indices into a prefix of
// body-disjoint groups of exactly width contacts each, followed by a
// scalar tail. It writes the permutation (jointIndex values) into
// s.permutation and returns groupOffset, the boundary between the
// SIMD-able prefix and the tail — always a multiple of width. Swap
// -removal reorders the surviving joints, so caller order is not
// preserved; the result is deterministic for a given input order.
//
// The algorithm is greedy and multi-pass: each pass walks the
// surviving joint list once, picking up to width joints whose bodies
// haven't yet been claimed this pass, swap-removing them as they're
// picked. A pass that can't fill a full group stops the whole
// algorithm; whatever is left becomes the tail, appended verbatim.
func (s *Solver) groupJoints(joints []ContactJoint, bodyCount, width int) int {
	jointCount := len(joints)

	s.permutation = growInt32(s.permutation, jointCount)
	if width <= 1 {
		for i := 0; i < jointCount; i++ {
			s.permutation[i] = int32(i)
		}
		return jointCount
	}

	s.bodyTag = growInt32(s.bodyTag, bodyCount)
	bodyTag := s.bodyTag
	for i := range bodyTag {
		bodyTag[i] = 0
	}

	s.working = growInt32(s.working, jointCount)
	working := s.working
	for i := 0; i < jointCount; i++ {
		working[i] = int32(i)
	}
	workingLen := jointCount

	permutation := s.permutation
	tag := int32(0)
	groupOffset := 0

	for workingLen >= width {
		groupSize := 0
		tag++

		for i := 0; i < workingLen && groupSize < width; {
			jointIndex := working[i]
			j := &joints[jointIndex]

			if bodyTag[j.Body1Index] < tag && bodyTag[j.Body2Index] < tag {
				bodyTag[j.Body1Index] = tag
				bodyTag[j.Body2Index] = tag

				permutation[groupOffset+groupSize] = jointIndex
				groupSize++

				workingLen--
				working[i] = working[workingLen]
			} else {
				i++
			}
		}

		groupOffset += groupSize

		if groupSize < width {
			break
		}
	}

	for i := 0; i < workingLen; i++ {
		permutation[groupOffset+i] = working[i]
	}

	return (groupOffset / width) * width
}

func growInt32(s []int32, n int) []int32 {
	if cap(s) >= n {
		return s[:n]
	}
	grown := make([]int32, n)
	copy(grown, s)
	return grown
}
