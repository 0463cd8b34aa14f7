package event

import "github.com/l1jgo/chimera/internal/core/sched"

// SchedulerFault carries one contained scheduler fault across the frame
// boundary so consumers (watchdog, analytics) can react a frame later.
type SchedulerFault struct {
	Record sched.FaultRecord
}

// CostReport carries one periodic performance report from the scheduler.
type CostReport struct {
	Report sched.Report
}

// Recorder bridges the scheduler's fault hook onto a Bus.
type Recorder struct {
	Bus *Bus
}

func (r Recorder) RecordFault(rec sched.FaultRecord) {
	Emit(r.Bus, SchedulerFault{Record: rec})
}
