package sched

import "sort"

// bucket holds the units sharing one priority within one phase, in stable
// insertion order. Insertion order within a bucket is the documented
// tie-break contract.
type bucket struct {
	priority int
	units    []any
}

func (b *bucket) contains(unit any) bool {
	for _, u := range b.units {
		if u == unit {
			return true
		}
	}
	return false
}

func (b *bucket) remove(unit any) bool {
	for i, u := range b.units {
		if u == unit {
			b.units = append(b.units[:i], b.units[i+1:]...)
			return true
		}
	}
	return false
}

// phaseBuckets is one phase's priority-bucketed storage. The priority order
// slice is maintained incrementally on register/unregister so ascending
// iteration at drive time needs no sort.
type phaseBuckets struct {
	order   []int // ascending priorities with a live bucket
	buckets map[int]*bucket
	member  map[any]int // unit -> bucket priority, for idempotence + removal
}

func newPhaseBuckets() *phaseBuckets {
	return &phaseBuckets{
		buckets: make(map[int]*bucket),
		member:  make(map[any]int),
	}
}

// add appends the unit to its priority bucket. Returns false if the unit is
// already present in this phase (no-op).
func (pb *phaseBuckets) add(priority int, unit any) bool {
	if _, ok := pb.member[unit]; ok {
		return false
	}
	b, ok := pb.buckets[priority]
	if !ok {
		b = &bucket{priority: priority}
		pb.buckets[priority] = b
		i := sort.SearchInts(pb.order, priority)
		pb.order = append(pb.order, 0)
		copy(pb.order[i+1:], pb.order[i:])
		pb.order[i] = priority
	}
	b.units = append(b.units, unit)
	pb.member[unit] = priority
	return true
}

// remove deletes the unit from its bucket. Returns false if absent. An
// emptied bucket is dropped from the priority order immediately.
func (pb *phaseBuckets) remove(unit any) bool {
	priority, ok := pb.member[unit]
	if !ok {
		return false
	}
	delete(pb.member, unit)
	b := pb.buckets[priority]
	b.remove(unit)
	if len(b.units) == 0 {
		pb.dropBucket(priority)
	}
	return true
}

func (pb *phaseBuckets) dropBucket(priority int) {
	delete(pb.buckets, priority)
	i := sort.SearchInts(pb.order, priority)
	if i < len(pb.order) && pb.order[i] == priority {
		pb.order = append(pb.order[:i], pb.order[i+1:]...)
	}
}

func (pb *phaseBuckets) count() int { return len(pb.member) }

func (pb *phaseBuckets) clear() {
	pb.order = pb.order[:0]
	pb.buckets = make(map[int]*bucket)
	pb.member = make(map[any]int)
}

// registry is the per-phase bucketed storage. Mutated only while draining the
// mutation queue, except for lazy dead-reference cleanup during iteration.
type registry struct {
	phases [phaseCount]*phaseBuckets
}

func newRegistry() *registry {
	var r registry
	for i := range r.phases {
		r.phases[i] = newPhaseBuckets()
	}
	return &r
}

func (r *registry) phase(p Phase) *phaseBuckets { return r.phases[p] }

// registered returns the total entry count across all phases. A unit
// implementing several contracts counts once per phase it registered with.
func (r *registry) registered() int {
	n := 0
	for _, pb := range r.phases {
		n += pb.count()
	}
	return n
}

// priorities returns the sorted union of priorities present in any phase.
func (r *registry) priorities() []int {
	seen := make(map[int]struct{})
	for _, pb := range r.phases {
		for _, p := range pb.order {
			seen[p] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func (r *registry) clear() {
	for _, pb := range r.phases {
		pb.clear()
	}
}
