package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/chimera/internal/core/event"
	"github.com/l1jgo/chimera/internal/core/sched"
	"github.com/l1jgo/chimera/internal/world"
)

const step = 200 * time.Millisecond

func TestGrowthAdvancesHydratedPlants(t *testing.T) {
	ws := world.NewState()
	p := ws.AddPlant()
	g := NewGrowthSystem(ws)

	for i := 0; i < 10; i++ {
		g.Tick(step)
	}
	assert.Greater(t, p.Growth, 0.0)
	assert.Equal(t, world.StageSeedling, p.Stage)

	// Enough ticks to push through a full stage.
	for i := 0; i < 300; i++ {
		g.Tick(step)
	}
	assert.Greater(t, int(p.Stage), int(world.StageSeedling))
}

func TestGrowthDryPlantLosesHealth(t *testing.T) {
	ws := world.NewState()
	p := ws.AddPlant()
	p.Hydration = 0.1
	g := NewGrowthSystem(ws)

	g.Tick(step)
	assert.Zero(t, p.Growth, "dry plant does not grow")
	assert.Less(t, p.Health, 1.0)
}

func TestHydrationDrainAndRefill(t *testing.T) {
	ws := world.NewState()
	p := ws.AddPlant()
	h := NewHydrationSystem(ws)

	h.Tick(step)
	assert.Less(t, p.Hydration, 1.0)

	p.Hydration = 0.04
	h.Tick(step)
	assert.InDelta(t, 1.0, p.Hydration, 1e-9, "irrigation refills a dry plant")
	assert.Equal(t, 1, h.Waterings)
}

func TestEnvironmentDriftIsDeterministic(t *testing.T) {
	run := func() world.Environment {
		ws := world.NewState()
		e := NewEnvironmentSystem(ws)
		for i := 0; i < 100; i++ {
			e.FixedTick(50 * time.Millisecond)
		}
		return ws.Env
	}
	a, b := run(), run()
	assert.Equal(t, a, b, "same steps, same readings")
	assert.NotEqual(t, 24.0, a.Temperature, "drifted off the setpoint")
}

func TestUIRefreshBuildsSummary(t *testing.T) {
	ws := world.NewState()
	ws.AddPlant()
	harvested := ws.AddPlant()
	harvested.Stage = world.StageHarvestable

	orch := sched.New(sched.Config{}, zap.NewNop())
	ui := NewUIRefreshSystem(ws, orch, zap.NewNop())

	ui.LateTick(step)
	got := ui.Last()
	assert.Equal(t, uint64(1), got.Frame)
	assert.Equal(t, 2, got.Plants)
	assert.Equal(t, 1, got.Harvestable)
}

func TestAnalyticsSamplesOnInterval(t *testing.T) {
	ws := world.NewState()
	ws.AddPlant()
	bus := event.NewBus(zap.NewNop())

	var samples []AnalyticsSample
	event.Subscribe(bus, func(s AnalyticsSample) { samples = append(samples, s) })

	a := NewAnalyticsSystem(ws, bus, 3)
	for i := 0; i < 6; i++ {
		a.Tick(step)
		bus.Swap()
		bus.Dispatch()
	}
	require.Len(t, samples, 2)
	assert.Equal(t, 1, samples[0].Plants)
	assert.InDelta(t, 1.0, samples[0].AvgHydration, 1e-9)
}
