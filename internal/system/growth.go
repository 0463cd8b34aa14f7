package system

import (
	"time"

	"github.com/l1jgo/chimera/internal/world"
)

const (
	baseGrowthRate = 0.02 // stage progress per second under ideal conditions
	dryThreshold   = 0.2
	idealTemp      = 24.0
)

// GrowthSystem advances plant growth each Standard tick. A plant below the
// dry threshold loses health instead of growing.
type GrowthSystem struct {
	world   *world.State
	enabled bool
}

func NewGrowthSystem(ws *world.State) *GrowthSystem {
	return &GrowthSystem{world: ws, enabled: true}
}

func (s *GrowthSystem) Priority() int     { return PriorityGrowth }
func (s *GrowthSystem) Enabled() bool     { return s.enabled }
func (s *GrowthSystem) SetEnabled(v bool) { s.enabled = v }
func (s *GrowthSystem) OnRegistered()     {}
func (s *GrowthSystem) OnUnregistered()   {}

func (s *GrowthSystem) Tick(dt time.Duration) {
	secs := dt.Seconds()
	factor := tempFactor(s.world.Env.Temperature)
	s.world.AllPlants(func(p *world.Plant) {
		if p.Stage >= world.StageHarvestable {
			return
		}
		if p.Hydration < dryThreshold {
			p.Health -= 0.05 * secs
			if p.Health < 0 {
				p.Health = 0
			}
			return
		}
		p.Growth += baseGrowthRate * factor * secs
		if p.Growth >= 1.0 {
			p.AdvanceStage()
		}
	})
}

// tempFactor scales growth by distance from the ideal temperature, floored so
// a cold room stalls rather than reverses growth.
func tempFactor(temp float64) float64 {
	d := temp - idealTemp
	if d < 0 {
		d = -d
	}
	f := 1.0 - d/20.0
	if f < 0.1 {
		f = 0.1
	}
	return f
}
