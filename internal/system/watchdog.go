package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/chimera/internal/core/event"
	"github.com/l1jgo/chimera/internal/core/sched"
)

// FaultWatchdog evicts a unit that faults for N consecutive frames.
// It subscribes to the bus for the scheduler's structured fault records
// (dispatched one frame after the fault) and runs last in the Late pass to
// advance its own frame counter. Eviction goes through the normal unregister
// path, so the unit's OnUnregistered hook still fires.
type FaultWatchdog struct {
	orch      *sched.Orchestrator
	log       *zap.Logger
	threshold int

	frame   uint64
	streaks map[any]*faultStreak
}

type faultStreak struct {
	count     int
	lastFrame uint64
}

func NewFaultWatchdog(orch *sched.Orchestrator, bus *event.Bus, threshold int, log *zap.Logger) *FaultWatchdog {
	w := &FaultWatchdog{
		orch:      orch,
		log:       log,
		threshold: threshold,
		streaks:   make(map[any]*faultStreak),
	}
	event.Subscribe(bus, w.observe)
	return w
}

func (w *FaultWatchdog) LatePriority() int { return PriorityWatchdog }
func (w *FaultWatchdog) LateEnabled() bool { return true }

func (w *FaultWatchdog) LateTick(_ time.Duration) { w.frame++ }

func (w *FaultWatchdog) observe(ev event.SchedulerFault) {
	rec := ev.Record
	if rec.Kind != sched.FaultCallback || rec.Unit == nil {
		return
	}
	st := w.streaks[rec.Unit]
	if st == nil {
		st = &faultStreak{}
		w.streaks[rec.Unit] = st
	}
	if st.lastFrame == w.frame && st.count > 0 {
		return // same frame, multiple phases; count frames, not records
	}
	if st.count > 0 && st.lastFrame != w.frame-1 {
		st.count = 0 // a clean frame broke the streak
	}
	st.count++
	st.lastFrame = w.frame

	if st.count >= w.threshold {
		w.log.Warn("evicting faulting tickable",
			zap.String("unit", rec.Source),
			zap.Int("consecutive_frames", st.count))
		w.orch.UnregisterAll(rec.Unit)
		delete(w.streaks, rec.Unit)
	}
}
