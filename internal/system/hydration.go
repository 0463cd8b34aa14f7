package system

import (
	"time"

	"github.com/l1jgo/chimera/internal/world"
)

// Evaporation baseline per second; warmer rooms drain faster.
const (
	baseEvaporation = 0.01
	refillThreshold = 0.05
)

// HydrationSystem drains plant hydration each Standard tick and refills a
// plant the irrigation line catches dry. Runs before GrowthSystem so growth
// reads this frame's hydration.
type HydrationSystem struct {
	world     *world.State
	enabled   bool
	Waterings int
}

func NewHydrationSystem(ws *world.State) *HydrationSystem {
	return &HydrationSystem{world: ws, enabled: true}
}

func (s *HydrationSystem) Priority() int         { return PriorityHydration }
func (s *HydrationSystem) Enabled() bool         { return s.enabled }
func (s *HydrationSystem) SetEnabled(v bool)     { s.enabled = v }
func (s *HydrationSystem) OnRegistered()         {}
func (s *HydrationSystem) OnUnregistered()       {}

func (s *HydrationSystem) Tick(dt time.Duration) {
	secs := dt.Seconds()
	heat := 1.0 + (s.world.Env.Temperature-24.0)/30.0
	if heat < 0.5 {
		heat = 0.5
	}
	s.world.AllPlants(func(p *world.Plant) {
		p.Hydration -= baseEvaporation * heat * secs
		if p.Hydration <= refillThreshold {
			p.Hydration = 1.0
			s.Waterings++
		}
	})
}
