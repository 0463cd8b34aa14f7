package sched

import "go.uber.org/zap"

// Report is one periodic performance summary, produced every ReportingWindow
// frames and handed to the optional OnReport hook.
type Report struct {
	AverageMs  float64
	LastMs     float64
	Active     int
	Registered int
}

// perfMonitor aggregates Standard-phase cost over a fixed reporting window.
// The accumulator resets to zero immediately after each report; Healthy
// compares the most recent reported average against the frame budget.
type perfMonitor struct {
	window   int
	budgetMs float64
	onReport func(Report)

	sum        float64
	frames     int
	lastSample float64
	lastAvg    float64

	log  *zap.Logger
	sink *faultSink
}

func (m *perfMonitor) sample(elapsedMs float64, active, registered int) {
	m.lastSample = elapsedMs
	m.sum += elapsedMs
	m.frames++
	if m.frames < m.window {
		return
	}
	m.lastAvg = m.sum / float64(m.frames)
	m.sum = 0
	m.frames = 0
	m.report(Report{
		AverageMs:  m.lastAvg,
		LastMs:     elapsedMs,
		Active:     active,
		Registered: registered,
	})
}

func (m *perfMonitor) report(rep Report) {
	defer func() {
		if r := recover(); r != nil {
			m.sink.reporting(r)
		}
	}()
	ratio := 0.0
	if rep.Registered > 0 {
		ratio = float64(rep.Active) / float64(rep.Registered)
	}
	m.log.Info("tick cost report",
		zap.Float64("avg_ms", rep.AverageMs),
		zap.Float64("last_ms", rep.LastMs),
		zap.Int("active", rep.Active),
		zap.Int("registered", rep.Registered),
		zap.Float64("active_ratio", ratio))
	if m.onReport != nil {
		m.onReport(rep)
	}
}

func (m *perfMonitor) healthy() bool { return m.lastAvg < m.budgetMs }

func (m *perfMonitor) reset() {
	m.sum = 0
	m.frames = 0
	m.lastSample = 0
	m.lastAvg = 0
}
