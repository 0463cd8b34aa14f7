package sched

type opKind int

const (
	opRegister opKind = iota
	opUnregister
)

type pendingOp struct {
	kind  opKind
	phase Phase
	unit  any
}

// mutationQueue buffers register/unregister intents in arrival order. Enqueue
// performs no validation and never touches the registry; that happens in
// drain, which each Drive* call runs before iterating. A callback that
// registers or unregisters mid-tick therefore only ever appends here, and the
// effect becomes visible at the next phase invocation.
type mutationQueue struct {
	ops []pendingOp
}

func (q *mutationQueue) enqueue(op pendingOp) {
	q.ops = append(q.ops, op)
}

// drain applies every queued op in FIFO order. Ops enqueued while draining
// (from OnRegistered/OnUnregistered hooks) land in a fresh backlog and wait
// for the next drive call.
func (q *mutationQueue) drain(apply func(pendingOp)) {
	ops := q.ops
	q.ops = nil
	for _, op := range ops {
		apply(op)
	}
}

func (q *mutationQueue) reset() { q.ops = nil }

func (q *mutationQueue) pending() int { return len(q.ops) }
