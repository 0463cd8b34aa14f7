package system

import (
	"time"

	"github.com/l1jgo/chimera/internal/core/event"
	"github.com/l1jgo/chimera/internal/world"
)

// AnalyticsSample is emitted on the bus every sampling interval.
type AnalyticsSample struct {
	Frame        uint64
	Plants       int
	AvgHydration float64
	Temperature  float64
}

// AnalyticsSystem samples world counters at a low cadence and publishes them
// on the event bus. Runs after game logic in the Standard pass.
type AnalyticsSystem struct {
	world *world.State
	bus   *event.Bus

	sampleEvery int
	counter     int
}

func NewAnalyticsSystem(ws *world.State, bus *event.Bus, sampleEvery int) *AnalyticsSystem {
	if sampleEvery <= 0 {
		sampleEvery = 25
	}
	return &AnalyticsSystem{world: ws, bus: bus, sampleEvery: sampleEvery}
}

func (s *AnalyticsSystem) Priority() int   { return PriorityAnalytics }
func (s *AnalyticsSystem) Enabled() bool   { return true }
func (s *AnalyticsSystem) OnRegistered()   {}
func (s *AnalyticsSystem) OnUnregistered() {}

func (s *AnalyticsSystem) Tick(_ time.Duration) {
	s.counter++
	if s.counter < s.sampleEvery {
		return
	}
	s.counter = 0

	total := 0.0
	n := 0
	s.world.AllPlants(func(p *world.Plant) {
		total += p.Hydration
		n++
	})
	avg := 0.0
	if n > 0 {
		avg = total / float64(n)
	}
	event.Emit(s.bus, AnalyticsSample{
		Frame:        s.world.Frame,
		Plants:       n,
		AvgHydration: avg,
		Temperature:  s.world.Env.Temperature,
	})
}
