package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks frame loop activity. Safe for concurrent use.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Render timing
	renderCount   atomic.Uint64
	renderTotalNs atomic.Int64
	renderSkipped atomic.Uint64
	renderErrors  atomic.Uint64
	surfaceLost   atomic.Uint64

	// Input
	eventCount        atomic.Uint64
	resizeCount       atomic.Uint64
	fullscreenToggles atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records the duration of one loop iteration.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordRender records a successful present.
func (m *Metrics) RecordRender(duration time.Duration) {
	m.renderCount.Add(1)
	m.renderTotalNs.Add(duration.Nanoseconds())
}

// RecordRenderSkipped records a draw that reported no changes.
func (m *Metrics) RecordRenderSkipped() {
	m.renderSkipped.Add(1)
}

// RecordRenderError records a failed present that was not fatal.
func (m *Metrics) RecordRenderError() {
	m.renderErrors.Add(1)
}

// RecordSurfaceLost records a lost surface that was recovered.
func (m *Metrics) RecordSurfaceLost() {
	m.surfaceLost.Add(1)
}

// RecordEvent records one backend event.
func (m *Metrics) RecordEvent() {
	m.eventCount.Add(1)
}

// RecordResize records a change of frame buffer size.
func (m *Metrics) RecordResize() {
	m.resizeCount.Add(1)
}

// RecordFullscreenToggle records a fullscreen toggle.
func (m *Metrics) RecordFullscreenToggle() {
	m.fullscreenToggles.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()
	renderCount := m.renderCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}

	var avgRenderNs int64
	if renderCount > 0 {
		avgRenderNs = m.renderTotalNs.Load() / int64(renderCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return MetricsSnapshot{
		Uptime:            time.Since(m.startTime),
		FrameCount:        frameCount,
		AvgFrameTimeNs:    avgFrameNs,
		MinFrameTimeNs:    minFrameNs,
		MaxFrameTimeNs:    m.frameMaxNs.Load(),
		LastFrameNs:       m.lastFrameNs.Load(),
		RenderCount:       renderCount,
		AvgRenderNs:       avgRenderNs,
		RenderSkipped:     m.renderSkipped.Load(),
		RenderErrors:      m.renderErrors.Load(),
		SurfaceLost:       m.surfaceLost.Load(),
		EventCount:        m.eventCount.Load(),
		ResizeCount:       m.resizeCount.Load(),
		FullscreenToggles: m.fullscreenToggles.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime            time.Duration
	FrameCount        uint64
	AvgFrameTimeNs    int64
	MinFrameTimeNs    int64
	MaxFrameTimeNs    int64
	LastFrameNs       int64
	RenderCount       uint64
	AvgRenderNs       int64
	RenderSkipped     uint64
	RenderErrors      uint64
	SurfaceLost       uint64
	EventCount        uint64
	ResizeCount       uint64
	FullscreenToggles uint64
}

// AvgFPS returns the average frames per second.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTimeNs == 0 {
		return 0
	}
	return 1e9 / float64(s.AvgFrameTimeNs)
}

// CurrentFPS returns the FPS based on last frame time.
func (s MetricsSnapshot) CurrentFPS() float64 {
	if s.LastFrameNs == 0 {
		return 0
	}
	return 1e9 / float64(s.LastFrameNs)
}

// SkipRate returns the percentage of frames that needed no present.
func (s MetricsSnapshot) SkipRate() float64 {
	total := s.RenderCount + s.RenderSkipped
	if total == 0 {
		return 0
	}
	return float64(s.RenderSkipped) / float64(total) * 100
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
