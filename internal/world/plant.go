package world

import "github.com/l1jgo/chimera/internal/core/lifetime"

// Stage is a plant's growth stage. Stages advance when Growth reaches 1.0.
type Stage int

const (
	StageSeedling Stage = iota
	StageVegetative
	StageFlowering
	StageHarvestable
)

func (s Stage) String() string {
	switch s {
	case StageSeedling:
		return "seedling"
	case StageVegetative:
		return "vegetative"
	case StageFlowering:
		return "flowering"
	case StageHarvestable:
		return "harvestable"
	}
	return "unknown"
}

// Plant is the in-memory state of one cultivated plant. Accessed only from
// the loop goroutine, no locks.
type Plant struct {
	Token     lifetime.Token
	Stage     Stage
	Growth    float64 // 0..1 progress within the current stage
	Hydration float64 // 0..1, drained over time, refilled by care actions
	Health    float64 // 0..1
}

// AdvanceStage moves to the next stage and resets in-stage progress. No-op
// once harvestable.
func (p *Plant) AdvanceStage() {
	if p.Stage >= StageHarvestable {
		return
	}
	p.Stage++
	p.Growth = 0
}
