package health

import "go.uber.org/zap"

// Check is implemented by any manager that can report its own health. The
// scheduler satisfies it; so can any consumer system with a notion of
// distress.
type Check interface {
	Name() string
	Healthy() bool
}

// Aggregator evaluates registered checks and logs state transitions. Driven
// periodically by the host loop; holds no goroutines.
type Aggregator struct {
	checks []Check
	state  map[string]bool
	log    *zap.Logger
}

func NewAggregator(log *zap.Logger) *Aggregator {
	return &Aggregator{
		state: make(map[string]bool),
		log:   log,
	}
}

func (a *Aggregator) Add(c Check) {
	a.checks = append(a.checks, c)
	a.state[c.Name()] = true
}

// Evaluate polls every check, logging each transition, and returns true iff
// all checks are healthy.
func (a *Aggregator) Evaluate() bool {
	all := true
	for _, c := range a.checks {
		ok := c.Healthy()
		if !ok {
			all = false
		}
		if prev, seen := a.state[c.Name()]; !seen || prev != ok {
			if ok {
				a.log.Info("manager recovered", zap.String("manager", c.Name()))
			} else {
				a.log.Warn("manager unhealthy", zap.String("manager", c.Name()))
			}
		}
		a.state[c.Name()] = ok
	}
	return all
}
