package sched

import (
	"reflect"
	"time"
)

// Tickable receives the Standard (variable-dt) pass. Lifecycle hooks belong to
// this contract only; units that also implement the Fixed or Late contracts do
// not get extra hook calls for those phases.
type Tickable interface {
	Priority() int
	Enabled() bool
	Tick(dt time.Duration)
	OnRegistered()
	OnUnregistered()
}

// FixedTickable receives the fixed-step pass. A frame may run it zero or more
// times depending on the host's accumulator.
type FixedTickable interface {
	FixedPriority() int
	FixedEnabled() bool
	FixedTick(fixedDt time.Duration)
}

// LateTickable receives the Late pass, after Standard has completed.
type LateTickable interface {
	LatePriority() int
	LateEnabled() bool
	LateTick(dt time.Duration)
}

// Liveness is optionally implemented by units whose owner may be torn down
// without an explicit unregister call. A unit reporting Alive() == false is
// removed from its bucket during iteration with no hook fired. Units that do
// not implement Liveness must unregister during their owner's teardown.
// lifetime.Guard is an embeddable implementation.
type Liveness interface {
	Alive() bool
}

// priorityFor returns the unit's priority for the given phase, or false when
// the unit does not satisfy that phase's contract.
func priorityFor(phase Phase, unit any) (int, bool) {
	switch phase {
	case PhaseStandard:
		if t, ok := unit.(Tickable); ok {
			return t.Priority(), true
		}
	case PhaseFixed:
		if t, ok := unit.(FixedTickable); ok {
			return t.FixedPriority(), true
		}
	case PhaseLate:
		if t, ok := unit.(LateTickable); ok {
			return t.LatePriority(), true
		}
	}
	return 0, false
}

func enabledFor(phase Phase, unit any) bool {
	switch phase {
	case PhaseStandard:
		return unit.(Tickable).Enabled()
	case PhaseFixed:
		return unit.(FixedTickable).FixedEnabled()
	case PhaseLate:
		return unit.(LateTickable).LateEnabled()
	}
	return false
}

func invokeFor(phase Phase, unit any, dt time.Duration) {
	switch phase {
	case PhaseStandard:
		unit.(Tickable).Tick(dt)
	case PhaseFixed:
		unit.(FixedTickable).FixedTick(dt)
	case PhaseLate:
		unit.(LateTickable).LateTick(dt)
	}
}

func dead(unit any) bool {
	l, ok := unit.(Liveness)
	return ok && !l.Alive()
}

// nilUnit reports whether the handle is nil, including a typed-nil pointer
// wrapped in a non-nil interface, which would nil-deref on the first contract
// method call.
func nilUnit(unit any) bool {
	if unit == nil {
		return true
	}
	switch v := reflect.ValueOf(unit); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice:
		return v.IsNil()
	}
	return false
}
