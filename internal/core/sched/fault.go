package sched

import (
	"fmt"

	"go.uber.org/zap"
)

// FaultKind classifies a contained fault.
type FaultKind int

const (
	// FaultInvalidRegistration: nil or capability-mismatched unit passed to a
	// registration call. Logged, treated as a no-op.
	FaultInvalidRegistration FaultKind = iota
	// FaultCallback: a panic inside a unit's Tick/OnRegistered/OnUnregistered.
	// The unit stays registered.
	FaultCallback
	// FaultDeadReference: a unit whose Liveness check failed mid-iteration.
	// Removed from its bucket with no hook fired.
	FaultDeadReference
	// FaultReporting: a panic while emitting a periodic performance report.
	FaultReporting
)

func (k FaultKind) String() string {
	switch k {
	case FaultInvalidRegistration:
		return "invalid_registration"
	case FaultCallback:
		return "callback"
	case FaultDeadReference:
		return "dead_reference"
	case FaultReporting:
		return "reporting"
	}
	return fmt.Sprintf("fault(%d)", int(k))
}

// FaultRecord is the structured form of a contained fault, delivered to the
// recorder hook so consumers can react programmatically (e.g. a watchdog
// unregistering a unit that faults every frame). Unit is the offending handle
// when one exists, nil for reporting faults.
type FaultRecord struct {
	Kind    FaultKind
	Phase   Phase
	Source  string // concrete type name of the offending unit
	Message string
	Unit    any
}

// FaultRecorder receives every contained fault. Implementations must not
// panic; a record is emitted after the fault is already handled.
type FaultRecorder interface {
	RecordFault(FaultRecord)
}

// faultSink fans a contained fault out to the log and the optional recorder.
type faultSink struct {
	log      *zap.Logger
	recorder FaultRecorder
}

func sourceName(unit any) string {
	if unit == nil {
		return ""
	}
	return fmt.Sprintf("%T", unit)
}

func (s *faultSink) emit(rec FaultRecord) {
	if s.recorder != nil {
		s.recorder.RecordFault(rec)
	}
}

func (s *faultSink) invalidRegistration(phase Phase, unit any, msg string) {
	s.log.Warn("ignored registration",
		zap.Stringer("phase", phase),
		zap.String("unit", sourceName(unit)),
		zap.String("reason", msg))
	s.emit(FaultRecord{Kind: FaultInvalidRegistration, Phase: phase, Source: sourceName(unit), Message: msg, Unit: unit})
}

func (s *faultSink) callback(phase Phase, unit any, cb string, recovered any) {
	msg := fmt.Sprintf("%v", recovered)
	s.log.Error("tickable fault",
		zap.Stringer("phase", phase),
		zap.String("unit", sourceName(unit)),
		zap.String("callback", cb),
		zap.String("message", msg))
	s.emit(FaultRecord{Kind: FaultCallback, Phase: phase, Source: sourceName(unit), Message: msg, Unit: unit})
}

func (s *faultSink) deadReference(phase Phase, unit any) {
	s.log.Debug("dead tickable removed",
		zap.Stringer("phase", phase),
		zap.String("unit", sourceName(unit)))
	s.emit(FaultRecord{Kind: FaultDeadReference, Phase: phase, Source: sourceName(unit), Message: "liveness check failed", Unit: unit})
}

func (s *faultSink) reporting(recovered any) {
	msg := fmt.Sprintf("%v", recovered)
	s.log.Error("performance report fault", zap.String("message", msg))
	s.emit(FaultRecord{Kind: FaultReporting, Phase: PhaseStandard, Message: msg})
}
