package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aismann/phyx/internal/collide"
	"github.com/aismann/phyx/internal/scene"
	"github.com/aismann/phyx/internal/solver"
)

var cfg runConfig

// rootCmd is the base command, grounded on the teacher's single-binary
// flag.Parse() entry point: every flag here corresponds one-for-one to
// a field parseFlags used to populate on the teacher's Config.
var rootCmd = &cobra.Command{
	Use:   "physics2d",
	Short: "Run the 2D rigid-body contact solver standalone",
	RunE:  runSimulation,
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()

	flags.Float64Var(&cfg.GravityX, "gravity-x", 0.0, "gravity X component")
	flags.Float64Var(&cfg.GravityY, "gravity-y", -9.81, "gravity Y component")
	flags.Float64Var(&cfg.TimeStep, "timestep", 1.0/60.0, "physics time step")
	flags.Float64Var(&cfg.Duration, "duration", 0, "simulation duration in seconds (0 = infinite)")
	flags.IntVar(&cfg.MaxFPS, "fps", 60, "maximum frames per second")

	flags.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	flags.IntVar(&cfg.Kv, "velocity-iterations", 15, "velocity pass iteration cap")
	flags.IntVar(&cfg.Kp, "displacement-iterations", 15, "displacement pass iteration cap")
	flags.StringVar(&cfg.SimdMode, "simd", "scalar", "contact batching width (scalar, sse2, avx2)")
	flags.BoolVar(&cfg.SleepEnabled, "sleep", true, "enable body sleeping")

	flags.BoolVar(&cfg.Verbose, "verbose", false, "verbose output")
	flags.BoolVar(&cfg.Quiet, "quiet", false, "minimal output")
	flags.Float64Var(&cfg.StatsInterval, "stats-interval", 2.0, "statistics reporting interval")
	flags.StringVar(&cfg.ProfileCPU, "profile-cpu", "", "CPU profile output file")
	flags.StringVar(&cfg.ProfileMem, "profile-mem", "", "memory profile output file")

	flags.StringVar(&cfg.SceneFile, "scene", "", "YAML scene file to load")
	flags.IntVar(&cfg.BodiesCount, "bodies", 100, "number of bodies for generated scenes")
	flags.StringVar(&cfg.SceneType, "scene-type", "default", "generated scene type, see scene.Names")
}

func parseSimdMode(name string) solver.Mode {
	switch name {
	case "sse2":
		return solver.ModeSSE2
	case "avx2":
		return solver.ModeAVX2
	default:
		return solver.ModeScalar
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Quiet {
		logrus.SetLevel(logrus.ErrorLevel)
	} else if cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if cfg.ProfileCPU != "" {
		f, err := os.Create(cfg.ProfileCPU)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprofStart(f); err != nil {
			return fmt.Errorf("start CPU profile: %w", err)
		}
		defer pprofStop()
	}

	runtime.GOMAXPROCS(cfg.Workers)

	solverCfg := solver.Config{Mode: parseSimdMode(cfg.SimdMode), Kv: cfg.Kv, Kp: cfg.Kp}
	if err := solverCfg.Validate(); err != nil {
		return fmt.Errorf("solver configuration: %w", err)
	}

	var pool *solver.WorkerPool
	if cfg.Workers > 1 {
		pool = solver.NewWorkerPool(cfg.Workers)
		defer pool.Close()
	}

	gravity := solver.Vec2{X: float32(cfg.GravityX), Y: float32(cfg.GravityY)}
	world := collide.NewWorld(gravity, solverCfg, 10, pool)

	duration := cfg.Duration
	if cfg.SceneFile != "" {
		sceneCfg, err := scene.LoadFromFile(cfg.SceneFile)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		if err := scene.Apply(world, sceneCfg); err != nil {
			return fmt.Errorf("apply scene: %w", err)
		}
		if sceneCfg.Duration > 0 {
			duration = sceneCfg.Duration
		}
		logrus.Infof("loaded scene from %s (%d bodies)", cfg.SceneFile, len(world.Bodies))
	} else {
		label, err := scene.Generate(world, cfg.SceneType, cfg.BodiesCount)
		if err != nil {
			return fmt.Errorf("generate scene: %w", err)
		}
		logrus.Infof("generated %s scene with %d bodies", label, len(world.Bodies))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(duration*float64(time.Second)))
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logrus.Info("shutting down gracefully")
			cancel()
		case <-ctx.Done():
		}
	}()

	if !cfg.Quiet {
		go reportStats(ctx, world, cfg.StatsInterval, cfg.Verbose)
	}

	logrus.Infof("physics simulation started (fps=%d workers=%d mode=%s)", cfg.MaxFPS, cfg.Workers, solverCfg.Mode)
	steps := runLoop(ctx, world, float32(cfg.TimeStep), cfg.MaxFPS, cfg.SleepEnabled)

	if cfg.ProfileMem != "" {
		f, err := os.Create(cfg.ProfileMem)
		if err != nil {
			logrus.Errorf("could not create memory profile: %v", err)
		} else {
			defer f.Close()
			runtime.GC()
			if err := pprofWriteHeap(f); err != nil {
				logrus.Errorf("could not write memory profile: %v", err)
			}
		}
	}

	logrus.Infof("simulation completed: steps=%d bodies=%d awake=%d collisions=%d",
		steps, len(world.Bodies), int64(len(world.Bodies))-world.SleepingBodiesCount(), world.CollisionCount())

	return nil
}
