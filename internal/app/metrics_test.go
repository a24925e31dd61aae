package app

import (
	"sync"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	snapshot := m.Snapshot()
	if snapshot.FrameCount != 0 {
		t.Errorf("expected 0 frame count, got %d", snapshot.FrameCount)
	}
	if snapshot.MinFrameTimeNs != 0 {
		t.Errorf("expected 0 min frame time (sentinel handled), got %d", snapshot.MinFrameTimeNs)
	}
}

func TestMetrics_RecordFrame(t *testing.T) {
	m := NewMetrics()

	m.RecordFrame(10 * time.Millisecond)
	m.RecordFrame(20 * time.Millisecond)
	m.RecordFrame(5 * time.Millisecond)

	snapshot := m.Snapshot()
	if snapshot.FrameCount != 3 {
		t.Errorf("expected 3 frames, got %d", snapshot.FrameCount)
	}
	if snapshot.MinFrameTimeNs != int64(5*time.Millisecond) {
		t.Errorf("expected min 5ms, got %d ns", snapshot.MinFrameTimeNs)
	}
	if snapshot.MaxFrameTimeNs != int64(20*time.Millisecond) {
		t.Errorf("expected max 20ms, got %d ns", snapshot.MaxFrameTimeNs)
	}
	if snapshot.LastFrameNs != int64(5*time.Millisecond) {
		t.Errorf("expected last 5ms, got %d ns", snapshot.LastFrameNs)
	}
	if snapshot.AvgFrameTimeNs != int64(35*time.Millisecond)/3 {
		t.Errorf("expected avg 35ms/3, got %d ns", snapshot.AvgFrameTimeNs)
	}
}

func TestMetrics_RenderCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRender(2 * time.Millisecond)
	m.RecordRender(4 * time.Millisecond)
	m.RecordRenderSkipped()
	m.RecordRenderError()
	m.RecordSurfaceLost()

	s := m.Snapshot()
	if s.RenderCount != 2 {
		t.Errorf("expected 2 renders, got %d", s.RenderCount)
	}
	if s.AvgRenderNs != int64(3*time.Millisecond) {
		t.Errorf("expected avg render 3ms, got %d ns", s.AvgRenderNs)
	}
	if s.RenderSkipped != 1 || s.RenderErrors != 1 || s.SurfaceLost != 1 {
		t.Errorf("unexpected counters: skipped=%d errors=%d lost=%d",
			s.RenderSkipped, s.RenderErrors, s.SurfaceLost)
	}
}

func TestMetrics_InputCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordEvent()
	m.RecordEvent()
	m.RecordResize()
	m.RecordFullscreenToggle()

	s := m.Snapshot()
	if s.EventCount != 2 || s.ResizeCount != 1 || s.FullscreenToggles != 1 {
		t.Errorf("unexpected counters: events=%d resizes=%d toggles=%d",
			s.EventCount, s.ResizeCount, s.FullscreenToggles)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				m.RecordFrame(time.Duration(i*100+j+1) * time.Microsecond)
			}
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	if s.FrameCount != 800 {
		t.Errorf("expected 800 frames, got %d", s.FrameCount)
	}
	if s.MinFrameTimeNs != int64(time.Microsecond) {
		t.Errorf("expected min 1us, got %d ns", s.MinFrameTimeNs)
	}
	if s.MaxFrameTimeNs != int64(800*time.Microsecond) {
		t.Errorf("expected max 800us, got %d ns", s.MaxFrameTimeNs)
	}
}

func TestMetrics_Snapshot_Uptime(t *testing.T) {
	m := NewMetrics()
	time.Sleep(5 * time.Millisecond)

	if m.Snapshot().Uptime < 5*time.Millisecond {
		t.Error("expected uptime of at least 5ms")
	}
}

func TestMetricsSnapshot_FPS(t *testing.T) {
	tests := []struct {
		name     string
		snap     MetricsSnapshot
		avg, cur float64
	}{
		{"empty", MetricsSnapshot{}, 0, 0},
		{"60fps", MetricsSnapshot{AvgFrameTimeNs: int64(time.Second / 60), LastFrameNs: int64(time.Second / 30)}, 60, 30},
		{"1000fps", MetricsSnapshot{AvgFrameTimeNs: int64(time.Millisecond), LastFrameNs: int64(time.Millisecond)}, 1000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.AvgFPS(); got < tt.avg-0.1 || got > tt.avg+0.1 {
				t.Errorf("AvgFPS() = %f, expected %f", got, tt.avg)
			}
			if got := tt.snap.CurrentFPS(); got < tt.cur-0.1 || got > tt.cur+0.1 {
				t.Errorf("CurrentFPS() = %f, expected %f", got, tt.cur)
			}
		})
	}
}

func TestMetricsSnapshot_SkipRate(t *testing.T) {
	tests := []struct {
		name     string
		snap     MetricsSnapshot
		expected float64
	}{
		{"no frames", MetricsSnapshot{}, 0},
		{"all rendered", MetricsSnapshot{RenderCount: 10}, 0},
		{"quarter skipped", MetricsSnapshot{RenderCount: 3, RenderSkipped: 1}, 25},
		{"all skipped", MetricsSnapshot{RenderSkipped: 4}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.SkipRate(); got != tt.expected {
				t.Errorf("SkipRate() = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(2 * time.Millisecond)

	if timer.Elapsed() < 2*time.Millisecond {
		t.Error("expected elapsed of at least 2ms")
	}

	first := timer.Stop()
	if first < 2*time.Millisecond {
		t.Error("expected Stop to return the elapsed time")
	}
	if timer.Elapsed() >= first {
		t.Error("expected Stop to reset the timer")
	}
}
