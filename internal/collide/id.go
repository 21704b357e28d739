package collide

import "sync/atomic"

var nextBodyID uint64

// NextID allocates a monotonically increasing body ID, unique for the
// process's lifetime. The teacher seeds RigidBody.id from
// rand.Int63(); a counter is used here instead so scenes are
// reproducible and tests can assert on ID order.
func NextID() uint64 {
	return atomic.AddUint64(&nextBodyID, 1)
}
