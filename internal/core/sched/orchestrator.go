package sched

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultFrameBudgetMs is the health threshold when none is configured: one
// 60 Hz frame.
const DefaultFrameBudgetMs = 1000.0 / 60.0

const defaultReportingWindow = 60

// Config tunes an Orchestrator. The zero value is usable; defaults are filled
// in by New.
type Config struct {
	// ReportingWindow is the number of Standard frames averaged per
	// performance report.
	ReportingWindow int
	// FrameBudgetMs is the rolling-average cost above which Healthy reports
	// false.
	FrameBudgetMs float64
	// TrackActivePhases lists the phases whose invocation counts feed
	// ActiveThisFrame. Empty means Standard only, matching the telemetry the
	// monitor reports on.
	TrackActivePhases []Phase
	// FaultRecorder, when set, receives a structured record for every
	// contained fault in addition to the log line.
	FaultRecorder FaultRecorder
	// OnReport, when set, receives each periodic performance report.
	OnReport func(Report)
}

// Orchestrator is the central tick scheduler. It owns the per-phase priority
// buckets and the mutation queue exclusively and is driven synchronously by a
// single host loop goroutine; it starts no goroutines and never lets a fault
// escape a Drive call. Construct one explicitly with New and pass it to each
// subsystem that registers work.
type Orchestrator struct {
	log     *zap.Logger
	queue   mutationQueue
	reg     *registry
	mon     perfMonitor
	sink    faultSink
	tracked [phaseCount]bool
	active  [phaseCount]int

	// fixedAccum sums invocations over the frame's fixed steps so a frame
	// with zero steps reads zero instead of last frame's count.
	fixedAccum int

	busy         bool
	clearPending bool
}

func New(cfg Config, log *zap.Logger) *Orchestrator {
	if cfg.ReportingWindow <= 0 {
		cfg.ReportingWindow = defaultReportingWindow
	}
	if cfg.FrameBudgetMs <= 0 {
		cfg.FrameBudgetMs = DefaultFrameBudgetMs
	}
	o := &Orchestrator{
		log:  log,
		reg:  newRegistry(),
		sink: faultSink{log: log, recorder: cfg.FaultRecorder},
	}
	o.mon = perfMonitor{
		window:   cfg.ReportingWindow,
		budgetMs: cfg.FrameBudgetMs,
		onReport: cfg.OnReport,
		log:      log,
		sink:     &o.sink,
	}
	if len(cfg.TrackActivePhases) == 0 {
		o.tracked[PhaseStandard] = true
	} else {
		for _, p := range cfg.TrackActivePhases {
			o.tracked[p] = true
		}
	}
	return o
}

// ── Registration ──────────────────────────────────────────────────

// RegisterStandard queues the unit for the Standard phase. The effect is
// applied at the next Drive call's drain; OnRegistered fires then, once,
// however many times the same unit is queued.
func (o *Orchestrator) RegisterStandard(t Tickable) {
	if nilUnit(t) {
		o.sink.invalidRegistration(PhaseStandard, nil, "nil tickable")
		return
	}
	o.queue.enqueue(pendingOp{kind: opRegister, phase: PhaseStandard, unit: t})
}

func (o *Orchestrator) UnregisterStandard(t Tickable) {
	if nilUnit(t) {
		o.sink.invalidRegistration(PhaseStandard, nil, "nil tickable")
		return
	}
	o.queue.enqueue(pendingOp{kind: opUnregister, phase: PhaseStandard, unit: t})
}

func (o *Orchestrator) RegisterFixed(t FixedTickable) {
	if nilUnit(t) {
		o.sink.invalidRegistration(PhaseFixed, nil, "nil tickable")
		return
	}
	o.queue.enqueue(pendingOp{kind: opRegister, phase: PhaseFixed, unit: t})
}

func (o *Orchestrator) UnregisterFixed(t FixedTickable) {
	if nilUnit(t) {
		o.sink.invalidRegistration(PhaseFixed, nil, "nil tickable")
		return
	}
	o.queue.enqueue(pendingOp{kind: opUnregister, phase: PhaseFixed, unit: t})
}

func (o *Orchestrator) RegisterLate(t LateTickable) {
	if nilUnit(t) {
		o.sink.invalidRegistration(PhaseLate, nil, "nil tickable")
		return
	}
	o.queue.enqueue(pendingOp{kind: opRegister, phase: PhaseLate, unit: t})
}

func (o *Orchestrator) UnregisterLate(t LateTickable) {
	if nilUnit(t) {
		o.sink.invalidRegistration(PhaseLate, nil, "nil tickable")
		return
	}
	o.queue.enqueue(pendingOp{kind: opUnregister, phase: PhaseLate, unit: t})
}

// RegisterAll inspects the unit for every capability it implements and queues a
// registration per matching phase. A unit with no tick capability is logged
// and ignored, never an error to the caller. Prefer the typed Register*
// methods; this exists for call sites holding an opaque handle.
func (o *Orchestrator) RegisterAll(unit any) {
	if !o.queueAll(opRegister, unit) {
		o.sink.invalidRegistration(PhaseStandard, unit, "no tick capability")
	}
}

// UnregisterAll queues an unregister for every capability the unit
// implements.
func (o *Orchestrator) UnregisterAll(unit any) {
	if !o.queueAll(opUnregister, unit) {
		o.sink.invalidRegistration(PhaseStandard, unit, "no tick capability")
	}
}

func (o *Orchestrator) queueAll(kind opKind, unit any) bool {
	if nilUnit(unit) {
		return false
	}
	matched := false
	if _, ok := unit.(Tickable); ok {
		o.queue.enqueue(pendingOp{kind: kind, phase: PhaseStandard, unit: unit})
		matched = true
	}
	if _, ok := unit.(FixedTickable); ok {
		o.queue.enqueue(pendingOp{kind: kind, phase: PhaseFixed, unit: unit})
		matched = true
	}
	if _, ok := unit.(LateTickable); ok {
		o.queue.enqueue(pendingOp{kind: kind, phase: PhaseLate, unit: unit})
		matched = true
	}
	return matched
}

// ── Drive ─────────────────────────────────────────────────────────

// DriveFixed runs one fixed step. The host may call it zero or more times per
// frame, before DriveStandard.
func (o *Orchestrator) DriveFixed(fixedDt time.Duration) {
	o.beginDrive()
	defer o.endDrive()
	n := runPhase(o.reg.phase(PhaseFixed), PhaseFixed, fixedDt, &o.sink)
	if o.tracked[PhaseFixed] {
		o.fixedAccum += n
	}
}

// DriveStandard runs the Standard pass and samples its cost into the
// performance monitor. Called once per frame.
func (o *Orchestrator) DriveStandard(dt time.Duration) {
	o.beginDrive()
	defer o.endDrive()
	start := time.Now()
	n := runPhase(o.reg.phase(PhaseStandard), PhaseStandard, dt, &o.sink)
	elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)
	if o.tracked[PhaseStandard] {
		o.active[PhaseStandard] = n
	} else {
		o.active[PhaseStandard] = 0
	}
	// Fold this frame's fixed steps in; a frame with none reads zero.
	o.active[PhaseFixed] = o.fixedAccum
	o.fixedAccum = 0
	o.mon.sample(elapsedMs, o.activeTotal(), o.reg.registered())
}

// DriveLate runs the Late pass. Called once per frame, after DriveStandard.
func (o *Orchestrator) DriveLate(dt time.Duration) {
	o.beginDrive()
	defer o.endDrive()
	n := runPhase(o.reg.phase(PhaseLate), PhaseLate, dt, &o.sink)
	if o.tracked[PhaseLate] {
		o.active[PhaseLate] = n
	}
}

func (o *Orchestrator) beginDrive() {
	o.busy = true
	if o.clearPending {
		o.clearPending = false
		o.doClear()
	}
	o.drain()
}

func (o *Orchestrator) endDrive() {
	o.busy = false
}

// drain applies every pending op, containing any panic an op provokes (a
// Priority call on a broken unit, an unhashable handle hitting the membership
// map) so one bad registration cannot abort the frame.
func (o *Orchestrator) drain() {
	o.queue.drain(func(op pendingOp) {
		defer func() {
			if r := recover(); r != nil {
				o.sink.invalidRegistration(op.phase, op.unit, fmt.Sprintf("apply: %v", r))
			}
		}()
		o.apply(op)
	})
}

func (o *Orchestrator) apply(op pendingOp) {
	pb := o.reg.phase(op.phase)
	switch op.kind {
	case opRegister:
		priority, ok := priorityFor(op.phase, op.unit)
		if !ok {
			o.sink.invalidRegistration(op.phase, op.unit, "capability mismatch")
			return
		}
		if !pb.add(priority, op.unit) {
			return // already registered for this phase
		}
		if op.phase == PhaseStandard {
			t := op.unit.(Tickable)
			safeHook(op.phase, op.unit, "on_registered", t.OnRegistered, &o.sink)
		}
	case opUnregister:
		if !pb.remove(op.unit) {
			return // never registered here; not a fault
		}
		if op.phase == PhaseStandard {
			t := op.unit.(Tickable)
			safeHook(op.phase, op.unit, "on_unregistered", t.OnUnregistered, &o.sink)
		}
	}
}

// ── Telemetry ─────────────────────────────────────────────────────

// Statistics returns an immutable snapshot. Callable at any time,
// side-effect-free.
func (o *Orchestrator) Statistics() Snapshot {
	return Snapshot{
		Registered:        o.reg.registered(),
		ActiveThisFrame:   o.activeTotal(),
		LastCostMs:        o.mon.lastSample,
		RollingAvgMs:      o.mon.lastAvg,
		PresentPriorities: o.reg.priorities(),
	}
}

func (o *Orchestrator) activeTotal() int {
	n := 0
	for _, a := range o.active {
		n += a
	}
	return n
}

// Name satisfies the health check contract.
func (o *Orchestrator) Name() string { return "scheduler" }

// Healthy reports whether the most recent window average fit the frame
// budget.
func (o *Orchestrator) Healthy() bool { return o.mon.healthy() }

// ClearAll empties every bucket, the pending queue, and all counters. No
// OnUnregistered hooks fire. When invoked from inside a tick callback the
// clear is deferred to the start of the next Drive call, so the walk in
// progress finishes over intact buckets.
func (o *Orchestrator) ClearAll() {
	if o.busy {
		o.clearPending = true
		o.log.Info("scheduler clear deferred until current drive completes")
		return
	}
	o.doClear()
}

func (o *Orchestrator) doClear() {
	o.queue.reset()
	o.reg.clear()
	o.mon.reset()
	o.fixedAccum = 0
	for i := range o.active {
		o.active[i] = 0
	}
	o.log.Info("scheduler cleared")
}
