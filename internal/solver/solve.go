package solver

// Solver owns the scratch buffers a Solve call needs: SoA body
// mirrors, the packed joint table, and the grouping working set. All
// of it is retained across calls and only ever grown, never shrunk,
// so steady-state simulation does no per-frame allocation once warmed
// up (spec.md §5).
type Solver struct {
	pool *WorkerPool

	params       []SolveBodyParams
	velocity     []SolveBody
	displacement []SolveBody

	packed      packedJoints
	groupOffset int

	bodyTag     []int32
	permutation []int32
	working     []int32
}

// NewSolver constructs a Solver. pool may be nil; when non-nil it is
// used to parallelise the refresh step across chunks of 8 contacts
// (the last chunk may be shorter) (spec.md §5).
func NewSolver(pool *WorkerPool) *Solver {
	return &Solver{pool: pool}
}

// Solve runs one frame's contact resolution: grouping, SoA pack,
// refresh, pre-step warm start, up to cfg.Kv velocity iterations, up
// to cfg.Kp displacement iterations, and unpack. It mutates bodies'
// velocities/displacing velocities and joints' accumulated impulses
// in place, and returns the diagnostic mean-iteration statistic
// described in spec.md §9 (reproduced exactly, not re-derived).
func (s *Solver) Solve(bodies []Body, points []ContactPoint, joints []ContactJoint, cfg Config) (float32, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if len(joints) == 0 {
		return 0, nil
	}

	width := cfg.Mode.Width()

	s.groupOffset = s.groupJoints(joints, len(bodies), width)

	s.copyBodiesIn(bodies)
	s.packed.pack(joints, s.permutation)

	s.refresh(points)
	s.preStep()

	for iteration := 0; iteration < cfg.Kv; iteration++ {
		productive := s.solveVelocityIteration(width, iteration)
		if !productive {
			break
		}
	}

	for iteration := 0; iteration < cfg.Kp; iteration++ {
		productive := s.solveDisplacementIteration(width, iteration)
		if !productive {
			break
		}
	}

	stat := s.finish(bodies, joints)
	return stat, nil
}

func (s *Solver) refresh(points []ContactPoint) {
	n := s.packed.count
	if s.pool != nil && n >= 8 {
		s.pool.ParallelChunks(n, 8, func(begin, end int) {
			refreshBlock(&s.packed, begin, end, s.params, s.velocity, points)
		})
	} else {
		refreshBlock(&s.packed, 0, n, s.params, s.velocity, points)
	}
}

func (s *Solver) preStep() {
	preStepBlock(&s.packed, 0, s.packed.count, s.velocity)
}

func (s *Solver) solveVelocityIteration(width, iteration int) bool {
	groupProductive := solveVelocityBlock(&s.packed, 0, s.groupOffset, width, iteration, s.velocity)
	tailProductive := solveVelocityBlock(&s.packed, s.groupOffset, s.packed.count, 1, iteration, s.velocity)
	return groupProductive || tailProductive
}

func (s *Solver) solveDisplacementIteration(width, iteration int) bool {
	groupProductive := solveDisplacementBlock(&s.packed, 0, s.groupOffset, width, iteration, s.displacement)
	tailProductive := solveDisplacementBlock(&s.packed, s.groupOffset, s.packed.count, 1, iteration, s.displacement)
	return groupProductive || tailProductive
}

func (s *Solver) copyBodiesIn(bodies []Body) {
	n := len(bodies)
	s.params = growParams(s.params, n)
	s.velocity = growSolveBody(s.velocity, n)
	s.displacement = growSolveBody(s.displacement, n)

	for i := range bodies {
		b := &bodies[i]
		s.params[i] = SolveBodyParams{
			InvMass:    b.InvMass,
			InvInertia: b.InvInertia,
			PosX:       b.Pos.X,
			PosY:       b.Pos.Y,
			XVecX:      b.XVector.X,
			XVecY:      b.XVector.Y,
			YVecX:      b.YVector.X,
			YVecY:      b.YVector.Y,
		}
		s.velocity[i] = SolveBody{
			VelocityX:       b.Velocity.X,
			VelocityY:       b.Velocity.Y,
			AngularVelocity: b.AngularVelocity,
			LastIteration:   -1,
		}
		s.displacement[i] = SolveBody{
			VelocityX:       b.DisplacingVelocity.X,
			VelocityY:       b.DisplacingVelocity.Y,
			AngularVelocity: b.DisplacingAngularVelocity,
			LastIteration:   -1,
		}
	}
}

// finish writes SoA velocities back to bodies and accumulated
// impulses back to joints, then reproduces the open-question
// diagnostic arithmetic from the original source exactly: for every
// joint, (max(body1.lastIteration, body2.lastIteration) + 2) summed
// for both the velocity and displacement passes, divided by joint
// count. This is neither a clean "mean iterations" nor a "total work"
// statistic; it is reproduced verbatim rather than re-derived.
func (s *Solver) finish(bodies []Body, joints []ContactJoint) float32 {
	for i := range bodies {
		bodies[i].Velocity.X = s.velocity[i].VelocityX
		bodies[i].Velocity.Y = s.velocity[i].VelocityY
		bodies[i].AngularVelocity = s.velocity[i].AngularVelocity

		bodies[i].DisplacingVelocity.X = s.displacement[i].VelocityX
		bodies[i].DisplacingVelocity.Y = s.displacement[i].VelocityY
		bodies[i].DisplacingAngularVelocity = s.displacement[i].AngularVelocity
	}

	s.packed.unpack(joints, s.permutation)

	var iterationSum int64
	for i := 0; i < s.packed.count; i++ {
		bi1 := s.packed.body1Index[i]
		bi2 := s.packed.body2Index[i]

		iterationSum += int64(max32(s.velocity[bi1].LastIteration, s.velocity[bi2].LastIteration)) + 2
		iterationSum += int64(max32(s.displacement[bi1].LastIteration, s.displacement[bi2].LastIteration)) + 2
	}

	return float32(iterationSum) / float32(s.packed.count)
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func growParams(s []SolveBodyParams, n int) []SolveBodyParams {
	if cap(s) >= n {
		return s[:n]
	}
	grown := make([]SolveBodyParams, n)
	copy(grown, s)
	return grown
}

func growSolveBody(s []SolveBody, n int) []SolveBody {
	if cap(s) >= n {
		return s[:n]
	}
	grown := make([]SolveBody, n)
	copy(grown, s)
	return grown
}
