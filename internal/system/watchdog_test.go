package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/chimera/internal/core/event"
	"github.com/l1jgo/chimera/internal/core/sched"
)

// panicky faults on frames its fire func approves.
type panicky struct {
	ticks int
	fire  func(tick int) bool
}

func (p *panicky) Priority() int   { return 0 }
func (p *panicky) Enabled() bool   { return true }
func (p *panicky) OnRegistered()   {}
func (p *panicky) OnUnregistered() {}

func (p *panicky) Tick(time.Duration) {
	p.ticks++
	if p.fire == nil || p.fire(p.ticks) {
		panic("flaky")
	}
}

// driveFrame runs one host-loop frame in the daemon's order.
func driveFrame(orch *sched.Orchestrator, bus *event.Bus) {
	bus.Swap()
	bus.Dispatch()
	orch.DriveStandard(step)
	orch.DriveLate(step)
}

func TestWatchdogEvictsAfterConsecutiveFaults(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	orch := sched.New(sched.Config{FaultRecorder: event.Recorder{Bus: bus}}, zap.NewNop())
	wd := NewFaultWatchdog(orch, bus, 3, zap.NewNop())
	orch.RegisterLate(wd)

	bad := &panicky{}
	orch.RegisterStandard(bad)

	for i := 0; i < 4; i++ {
		driveFrame(orch, bus)
	}

	// Faults on frames 1-3, observed a frame later each; the third
	// consecutive observation triggers eviction before frame 4 ticks.
	assert.Equal(t, 3, bad.ticks)
	assert.Equal(t, 1, orch.Statistics().Registered, "only the watchdog remains")

	for i := 0; i < 3; i++ {
		driveFrame(orch, bus)
	}
	assert.Equal(t, 3, bad.ticks, "stays evicted")
}

func TestWatchdogStreakBrokenByCleanFrame(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	orch := sched.New(sched.Config{FaultRecorder: event.Recorder{Bus: bus}}, zap.NewNop())
	wd := NewFaultWatchdog(orch, bus, 2, zap.NewNop())
	orch.RegisterLate(wd)

	// Faults every other tick only; a clean frame always separates faults.
	flaky := &panicky{fire: func(tick int) bool { return tick%2 == 1 }}
	orch.RegisterStandard(flaky)

	for i := 0; i < 8; i++ {
		driveFrame(orch, bus)
	}
	assert.Equal(t, 8, flaky.ticks, "never evicted")
	assert.Equal(t, 2, orch.Statistics().Registered)
}

func TestWatchdogIgnoresNonCallbackFaults(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	orch := sched.New(sched.Config{FaultRecorder: event.Recorder{Bus: bus}}, zap.NewNop())
	wd := NewFaultWatchdog(orch, bus, 1, zap.NewNop())
	orch.RegisterLate(wd)

	// Invalid registrations emit records with no unit to evict.
	orch.RegisterAll(struct{}{})
	require.NotPanics(t, func() {
		for i := 0; i < 3; i++ {
			driveFrame(orch, bus)
		}
	})
	assert.Equal(t, 1, orch.Statistics().Registered)
}
