package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/chimera/internal/config"
	"github.com/l1jgo/chimera/internal/core/event"
	"github.com/l1jgo/chimera/internal/core/sched"
	"github.com/l1jgo/chimera/internal/health"
	"github.com/l1jgo/chimera/internal/scripting"
	"github.com/l1jgo/chimera/internal/system"
	"github.com/l1jgo/chimera/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            Chimera  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      cultivation sim · update core        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

const (
	seedPlants     = 12
	healthInterval = 150 // ticks between health sweeps
)

func run() error {
	// 1. Load config
	cfgPath := "config/chimera.toml"
	if p := os.Getenv("CHIMERA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Event bus + scheduler
	printSection("scheduler")

	bus := event.NewBus(log)
	trackPhases, err := parsePhases(cfg.Scheduler.TrackActivePhases)
	if err != nil {
		return fmt.Errorf("scheduler config: %w", err)
	}
	orch := sched.New(sched.Config{
		ReportingWindow:   cfg.Scheduler.ReportingWindow,
		FrameBudgetMs:     cfg.Scheduler.FrameBudgetMs,
		TrackActivePhases: trackPhases,
		FaultRecorder:     event.Recorder{Bus: bus},
		OnReport: func(rep sched.Report) {
			event.Emit(bus, event.CostReport{Report: rep})
		},
	}, log)
	printOK(fmt.Sprintf("reporting window %d frames, budget %.2f ms",
		cfg.Scheduler.ReportingWindow, cfg.Scheduler.FrameBudgetMs))

	// 4. World + consumer systems
	printSection("world")

	ws := world.NewState()
	for i := 0; i < seedPlants; i++ {
		ws.AddPlant()
	}
	printStat("plants seeded", ws.PlantCount())

	ui := system.NewUIRefreshSystem(ws, orch, log)
	orch.RegisterStandard(system.NewHydrationSystem(ws))
	orch.RegisterStandard(system.NewGrowthSystem(ws))
	orch.RegisterStandard(system.NewAnalyticsSystem(ws, bus, 0))
	orch.RegisterFixed(system.NewEnvironmentSystem(ws))
	orch.RegisterLate(ui)

	if cfg.Scheduler.WatchdogThreshold > 0 {
		watchdog := system.NewFaultWatchdog(orch, bus, cfg.Scheduler.WatchdogThreshold, log)
		orch.RegisterLate(watchdog)
		printOK(fmt.Sprintf("fault watchdog armed (threshold %d)", cfg.Scheduler.WatchdogThreshold))
	}

	event.Subscribe(bus, func(s system.AnalyticsSample) {
		log.Debug("analytics sample",
			zap.Uint64("frame", s.Frame),
			zap.Int("plants", s.Plants),
			zap.Float64("avg_hydration", s.AvgHydration))
	})
	event.Subscribe(bus, func(r event.CostReport) {
		log.Debug("cost report relayed",
			zap.Float64("avg_ms", r.Report.AverageMs),
			zap.Int("active", r.Report.Active))
	})

	// 5. Scripts
	if cfg.Scripts.Enabled {
		printSection("scripts")
		eng, err := scripting.NewEngine(cfg.Scripts.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer eng.Close()
		registered := system.RegisterScripts(orch, eng)
		printStat("tick scripts", len(registered))
	}

	// 6. Health aggregation
	agg := health.NewAggregator(log)
	agg.Add(orch)

	// 7. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("frame loop started (tick: %s, fixed step: %s)",
		cfg.Loop.TickRate, cfg.Loop.FixedStep))
	fmt.Println()

	var acc time.Duration
	last := time.Now()
	healthCounter := 0

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(last)
			last = now

			// Deliver last frame's events before any phase runs.
			bus.Swap()
			bus.Dispatch()

			acc += dt
			steps := 0
			for acc >= cfg.Loop.FixedStep && steps < cfg.Loop.MaxFixedSteps {
				orch.DriveFixed(cfg.Loop.FixedStep)
				acc -= cfg.Loop.FixedStep
				steps++
			}
			if steps == cfg.Loop.MaxFixedSteps {
				// Stalled frame; drop the backlog instead of spiraling.
				acc = 0
			}

			orch.DriveStandard(dt)
			orch.DriveLate(dt)

			healthCounter++
			if healthCounter >= healthInterval {
				healthCounter = 0
				agg.Evaluate()
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			orch.ClearAll()
			log.Info("server stopped")
			return nil
		}
	}
}

func parsePhases(names []string) ([]sched.Phase, error) {
	out := make([]sched.Phase, 0, len(names))
	for _, n := range names {
		p, err := sched.ParsePhase(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
