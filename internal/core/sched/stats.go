package sched

// Snapshot is an immutable, side-effect-free view of scheduler state, safe to
// hand to dashboards or tests at any time.
type Snapshot struct {
	Registered        int     // entries across all phases
	ActiveThisFrame   int     // units invoked by the tracked phases last frame
	LastCostMs        float64 // most recent Standard-phase sample
	RollingAvgMs      float64 // most recent reported window average
	PresentPriorities []int   // sorted union of priorities across phases
}
