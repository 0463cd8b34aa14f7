package system

// Execution priorities within a phase (lower runs first).
const (
	PriorityHydration = 5  // drains before growth reads it
	PriorityGrowth    = 10
	PriorityScripts   = 50 // default; scripts may override via PRIORITY
	PriorityAnalytics = 100

	PriorityEnvironment = 0 // fixed phase

	PriorityUIRefresh = 10  // late phase
	PriorityWatchdog  = 900 // late phase, after everything else
)
