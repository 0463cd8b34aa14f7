package system

import (
	"math"
	"time"

	"github.com/l1jgo/chimera/internal/world"
)

const (
	tempSetpoint   = 24.0
	tempSwing      = 2.5
	humiditySet    = 0.55
	humiditySwing  = 0.08
	driftPeriodSec = 300.0
)

// EnvironmentSystem drifts temperature and humidity on the fixed-step phase,
// so readings are a pure function of accumulated fixed time and stay
// deterministic across replays regardless of frame pacing.
type EnvironmentSystem struct {
	world   *world.State
	elapsed time.Duration
}

func NewEnvironmentSystem(ws *world.State) *EnvironmentSystem {
	return &EnvironmentSystem{world: ws}
}

func (s *EnvironmentSystem) FixedPriority() int { return PriorityEnvironment }
func (s *EnvironmentSystem) FixedEnabled() bool { return true }

func (s *EnvironmentSystem) FixedTick(fixedDt time.Duration) {
	s.elapsed += fixedDt
	t := s.elapsed.Seconds()
	phase := 2 * math.Pi * t / driftPeriodSec
	s.world.Env.Temperature = tempSetpoint + tempSwing*math.Sin(phase)
	s.world.Env.Humidity = humiditySet + humiditySwing*math.Sin(phase/2)
}
