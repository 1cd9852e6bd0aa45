// Package monitoring tracks frame and turn timings. All counters are atomic so
// the spectator server can read them while the game loop writes.
package monitoring

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Profiled section names.
const (
	SectionTurn = "turn"
	SectionPath = "path"
)

// PerformanceMonitor tracks frame and turn metrics.
type PerformanceMonitor struct {
	frameCount     atomic.Uint64
	frameTime      atomic.Uint64 // nanoseconds, last frame
	totalFrameTime atomic.Uint64

	turnCount     atomic.Uint64
	turnTime      atomic.Uint64 // nanoseconds, last turn
	totalTurnTime atomic.Uint64

	pathSearches atomic.Uint64
	pathTime     atomic.Uint64

	startTime atomic.Int64 // unix nanoseconds
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{}
	pm.startTime.Store(time.Now().UnixNano())
	return pm
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.recordFrame(time.Since(ft.startTime))
}

func (pm *PerformanceMonitor) recordFrame(d time.Duration) {
	pm.frameTime.Store(uint64(d.Nanoseconds()))
	pm.totalFrameTime.Add(uint64(d.Nanoseconds()))
	pm.frameCount.Add(1)
}

// ProfiledFunction runs fn and records its duration under name.
func (pm *PerformanceMonitor) ProfiledFunction(name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	duration := time.Since(start)
	pm.record(name, duration)
	return duration
}

func (pm *PerformanceMonitor) record(name string, d time.Duration) {
	ns := uint64(d.Nanoseconds())
	switch name {
	case SectionTurn:
		pm.turnTime.Store(ns)
		pm.totalTurnTime.Add(ns)
		pm.turnCount.Add(1)
	case SectionPath:
		pm.pathTime.Add(ns)
		pm.pathSearches.Add(1)
	}
}

// Metrics is a point-in-time copy of the counters.
type Metrics struct {
	Frames          uint64  `json:"frames"`
	FramesPerSecond float64 `json:"fps"`
	AvgFrameMs      float64 `json:"avg_frame_ms"`
	Turns           uint64  `json:"turns"`
	LastTurnMs      float64 `json:"last_turn_ms"`
	AvgTurnMs       float64 `json:"avg_turn_ms"`
	PathSearches    uint64  `json:"path_searches"`
	AvgPathMs       float64 `json:"avg_path_ms"`
	MemoryUsageMB   uint64  `json:"memory_mb"`
	Goroutines      int     `json:"goroutines"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() Metrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m := Metrics{
		Frames:        pm.frameCount.Load(),
		Turns:         pm.turnCount.Load(),
		PathSearches:  pm.pathSearches.Load(),
		MemoryUsageMB: memStats.Alloc / 1024 / 1024,
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: time.Since(time.Unix(0, pm.startTime.Load())).Seconds(),
		LastTurnMs:    nsToMs(pm.turnTime.Load()),
	}
	if ft := pm.frameTime.Load(); ft > 0 {
		m.FramesPerSecond = 1e9 / float64(ft)
	}
	m.AvgFrameMs = average(pm.totalFrameTime.Load(), m.Frames)
	m.AvgTurnMs = average(pm.totalTurnTime.Load(), m.Turns)
	m.AvgPathMs = average(pm.pathTime.Load(), m.PathSearches)
	return m
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 {
		fps := 1e9 / float64(frameTime)
		if fps < 30 {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below 30 FPS",
				Value:     fps,
				Threshold: 30,
				Timestamp: now,
			})
		}
	}

	// A turn should fit in one 60fps frame.
	if turnMs := nsToMs(pm.turnTime.Load()); turnMs > 16 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_turn",
			Message:   "Last turn took longer than a frame",
			Value:     turnMs,
			Threshold: 16,
			Timestamp: now,
		})
	}

	return alerts
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.totalFrameTime.Store(0)
	pm.turnCount.Store(0)
	pm.turnTime.Store(0)
	pm.totalTurnTime.Store(0)
	pm.pathSearches.Store(0)
	pm.pathTime.Store(0)
	pm.startTime.Store(time.Now().UnixNano())
}

func nsToMs(ns uint64) float64 {
	return float64(ns) / 1e6
}

func average(totalNs, n uint64) float64 {
	if n == 0 {
		return 0
	}
	return nsToMs(totalNs) / float64(n)
}
