package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/chimera/internal/core/sched"
	"github.com/l1jgo/chimera/internal/world"
)

// Summary is the per-frame display snapshot UIRefreshSystem rebuilds.
type Summary struct {
	Frame       uint64
	Plants      int
	Harvestable int
	Temperature float64
	Humidity    float64
	Sched       sched.Snapshot
}

// UIRefreshSystem rebuilds the display summary each Late pass, after all
// Standard logic has settled, and logs it at a slow cadence.
type UIRefreshSystem struct {
	world *world.State
	orch  *sched.Orchestrator
	log   *zap.Logger

	last       Summary
	logEvery   int
	logCounter int
}

func NewUIRefreshSystem(ws *world.State, orch *sched.Orchestrator, log *zap.Logger) *UIRefreshSystem {
	return &UIRefreshSystem{world: ws, orch: orch, log: log, logEvery: 50}
}

func (s *UIRefreshSystem) LatePriority() int { return PriorityUIRefresh }
func (s *UIRefreshSystem) LateEnabled() bool { return true }

func (s *UIRefreshSystem) LateTick(_ time.Duration) {
	s.world.Frame++
	harvestable := 0
	s.world.AllPlants(func(p *world.Plant) {
		if p.Stage == world.StageHarvestable {
			harvestable++
		}
	})
	s.last = Summary{
		Frame:       s.world.Frame,
		Plants:      s.world.PlantCount(),
		Harvestable: harvestable,
		Temperature: s.world.Env.Temperature,
		Humidity:    s.world.Env.Humidity,
		Sched:       s.orch.Statistics(),
	}

	s.logCounter++
	if s.logCounter >= s.logEvery {
		s.logCounter = 0
		s.log.Debug("world summary",
			zap.Uint64("frame", s.last.Frame),
			zap.Int("plants", s.last.Plants),
			zap.Int("harvestable", s.last.Harvestable),
			zap.Float64("temp", s.last.Temperature),
			zap.Float64("avg_cost_ms", s.last.Sched.RollingAvgMs))
	}
}

// Last returns the most recent summary.
func (s *UIRefreshSystem) Last() Summary { return s.last }
