package progress

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatorTicksTowardCeiling(t *testing.T) {
	var out strings.Builder
	sim := NewSimulator(&out, "Uploading archive")
	sim.interval = time.Millisecond

	sim.Start()
	time.Sleep(20 * time.Millisecond)
	sim.Finish()

	assert.Contains(t, out.String(), "100%")
}

func TestSimulatorFinishWithoutStart(t *testing.T) {
	var out strings.Builder
	sim := NewSimulator(&out, "Uploading archive")

	// Finish alone must still complete the bar.
	sim.Finish()
	assert.Contains(t, out.String(), "100%")
}

func TestSimulatorFinishIdempotent(t *testing.T) {
	sim := NewSimulator(&strings.Builder{}, "Uploading archive")
	sim.Start()
	sim.Finish()
	sim.Finish()
	sim.Abort()
}

func TestSimulatorAbortSkipsCompletion(t *testing.T) {
	var out strings.Builder
	sim := NewSimulator(&out, "Uploading archive")
	sim.interval = time.Millisecond

	sim.Start()
	time.Sleep(5 * time.Millisecond)
	sim.Abort()

	assert.NotContains(t, out.String(), "100%")
}
