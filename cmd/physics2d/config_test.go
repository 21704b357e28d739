package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aismann/phyx/internal/solver"
)

func validConfig() runConfig {
	return runConfig{
		TimeStep:    1.0 / 60.0,
		MaxFPS:      60,
		Workers:     4,
		Kv:          15,
		Kp:          15,
		SimdMode:    "scalar",
		BodiesCount: 100,
		SceneType:   "default",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	c := validConfig()
	assert.NoError(t, c.validate())
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	c := validConfig()
	c.Workers = 0
	assert.Error(t, c.validate())
}

func TestValidateRejectsBadFPS(t *testing.T) {
	c := validConfig()
	c.MaxFPS = 0
	assert.Error(t, c.validate())

	c2 := validConfig()
	c2.MaxFPS = 5000
	assert.Error(t, c2.validate())
}

func TestValidateRejectsNegativeDuration(t *testing.T) {
	c := validConfig()
	c.Duration = -1
	assert.Error(t, c.validate())
}

func TestValidateRejectsUnknownSimdMode(t *testing.T) {
	c := validConfig()
	c.SimdMode = "avx512"
	assert.Error(t, c.validate())
}

func TestValidateRejectsUnknownSceneType(t *testing.T) {
	c := validConfig()
	c.SceneType = "not-a-scene"
	assert.Error(t, c.validate())
}

func TestValidateAllowsUnknownSceneTypeWhenSceneFileSet(t *testing.T) {
	c := validConfig()
	c.SceneType = "not-a-scene"
	c.SceneFile = "scene.yaml"
	assert.NoError(t, c.validate())
}

func TestParseSimdMode(t *testing.T) {
	assert.Equal(t, solver.ModeScalar, parseSimdMode("scalar"))
	assert.Equal(t, solver.ModeSSE2, parseSimdMode("sse2"))
	assert.Equal(t, solver.ModeAVX2, parseSimdMode("avx2"))
	assert.Equal(t, solver.ModeScalar, parseSimdMode("bogus"))
}
