package sched

import "time"

// runPhase walks the phase's buckets strictly ascending by priority and, per
// bucket, in stable insertion order. Dead units are compacted out in place
// with no hook fired. A panicking callback is contained per unit; iteration
// continues with the next unit in the same bucket. Returns the number of
// units invoked.
func runPhase(pb *phaseBuckets, phase Phase, dt time.Duration, sink *faultSink) int {
	invoked := 0
	var emptied []int
	for _, priority := range pb.order {
		b := pb.buckets[priority]
		kept := b.units[:0]
		for _, unit := range b.units {
			if dead(unit) {
				delete(pb.member, unit)
				sink.deadReference(phase, unit)
				continue
			}
			kept = append(kept, unit)
			if !enabledFor(phase, unit) {
				continue
			}
			safeInvoke(phase, unit, dt, sink)
			invoked++
		}
		b.units = kept
		if len(kept) == 0 {
			emptied = append(emptied, priority)
		}
	}
	// Bucket drops are deferred past the walk so pb.order is never resized
	// under the range above.
	for _, priority := range emptied {
		pb.dropBucket(priority)
	}
	return invoked
}

func safeInvoke(phase Phase, unit any, dt time.Duration, sink *faultSink) {
	defer func() {
		if r := recover(); r != nil {
			sink.callback(phase, unit, "tick", r)
		}
	}()
	invokeFor(phase, unit, dt)
}

// safeHook runs a lifecycle hook under the same containment as a tick.
func safeHook(phase Phase, unit any, name string, hook func(), sink *faultSink) {
	defer func() {
		if r := recover(); r != nil {
			sink.callback(phase, unit, name, r)
		}
	}()
	hook()
}
