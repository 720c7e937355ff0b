// Package profiler reports frame rate and memory statistics of the render loop through the engine logger.
package profiler

import (
	"runtime"
	"time"

	"github.com/Overpeek/shaderpg/common"
)

// Stats is one profiler report.
type Stats struct {
	FPS          float64
	HeapMB       float64
	AllocRateMBs float64
	SysMB        float64
	NumGC        uint32
	LastPauseUs  uint64
	MaxPauseUs   uint64
}

// Profiler tracks frame timing and memory statistics and logs them at a fixed interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	now            func() time.Time
}

// NewProfiler creates a Profiler. The report interval defaults to 1 second.
//
// Parameters:
//   - options: functional options for the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame.
// When the interval has elapsed it computes FPS, heap usage, allocation rate and GC pauses and logs them at Info level.
//
// Returns:
//   - bool: true if stats were reported this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:    float64(p.frameCount) / elapsed.Seconds(),
		HeapMB: float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:  float64(p.memStats.Sys) / 1024 / 1024,
		NumGC:  p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMBs = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if s.NumGC > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		s.LastPauseUs = p.memStats.PauseNs[(s.NumGC-1)%256] / 1000
		start := p.lastGCCount
		if s.NumGC-start > 256 {
			start = s.NumGC - 256
		}
		for i := start; i < s.NumGC; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.Logger().Info("profiler",
		"fps", s.FPS,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb_s", s.AllocRateMBs,
		"gc", s.NumGC,
		"gc_last_us", s.LastPauseUs,
		"gc_max_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return true
}

// Last returns the most recent report, or the zero Stats before the first one.
func (p *Profiler) Last() Stats {
	return p.last
}
