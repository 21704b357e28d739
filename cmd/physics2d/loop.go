package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aismann/phyx/internal/collide"
)

// runLoop drives world at a fixed dt, throttled to maxFPS, mirroring
// the teacher's PhysicsEngine.Run ticker loop. It returns the number
// of steps taken before ctx was cancelled.
func runLoop(ctx context.Context, world *collide.World, dt float32, maxFPS int, sleepEnabled bool) int64 {
	frameInterval := time.Second / time.Duration(maxFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	var steps int64
	for {
		select {
		case <-ctx.Done():
			return steps
		case <-ticker.C:
			world.Step(dt)
			steps++
			if !sleepEnabled {
				for _, b := range world.Bodies {
					b.WakeUp()
				}
			}
		}
	}
}

func reportStats(ctx context.Context, world *collide.World, interval float64, verbose bool) {
	ticker := time.NewTicker(time.Duration(interval * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			total := int64(len(world.Bodies))
			sleeping := world.SleepingBodiesCount()
			if verbose {
				logrus.Infof("steps=%d bodies=%d awake=%d collisions=%d",
					world.StepCount(), total, total-sleeping, world.CollisionCount())
			} else {
				logrus.Infof("bodies=%d awake=%d collisions=%d", total, total-sleeping, world.CollisionCount())
			}
		case <-ctx.Done():
			return
		}
	}
}
