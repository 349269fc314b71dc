// Package metrics tracks API request usage: call latency and the request
// weight the exchange reports back on every response.
package metrics

import (
	"sync"
	"time"

	"github.com/Misaki-Akeno/QuantTools/internal/logger"
)

// WeightLimit is the exchange's per-minute request weight budget for UM
// futures.
const WeightLimit = 2400

const (
	warnThreshold     = WeightLimit * 3 / 4
	criticalThreshold = WeightLimit * 9 / 10
)

// Tracker aggregates request timings and watches the reported weight.
// Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	count      int64
	totalTime  time.Duration
	minTime    time.Duration
	maxTime    time.Duration
	lastWeight int
	startTime  time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		minTime:   time.Duration(1<<63 - 1),
		startTime: time.Now(),
	}
}

// Track records one completed API call. usedWeight is the value of the
// X-MBX-USED-WEIGHT-1M response header, zero when absent.
func (t *Tracker) Track(op string, duration time.Duration, usedWeight int) {
	t.mu.Lock()
	t.count++
	t.totalTime += duration
	if duration < t.minTime {
		t.minTime = duration
	}
	if duration > t.maxTime {
		t.maxTime = duration
	}
	if usedWeight > 0 {
		t.lastWeight = usedWeight
	}
	t.mu.Unlock()

	switch {
	case usedWeight > criticalThreshold:
		logger.Error("API weight critical", "op", op, "used", usedWeight, "limit", WeightLimit)
	case usedWeight > warnThreshold:
		logger.Warn("API weight high", "op", op, "used", usedWeight, "limit", WeightLimit)
	}
}

// Snapshot is a point-in-time summary of tracked usage.
type Snapshot struct {
	Calls      int64
	AvgTime    time.Duration
	MinTime    time.Duration
	MaxTime    time.Duration
	LastWeight int
	Uptime     time.Duration
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		Calls:      t.count,
		MaxTime:    t.maxTime,
		LastWeight: t.lastWeight,
		Uptime:     time.Since(t.startTime),
	}
	if t.count > 0 {
		s.AvgTime = t.totalTime / time.Duration(t.count)
		s.MinTime = t.minTime
	}
	return s
}

// LogSummary emits one structured line with the current aggregates.
func (t *Tracker) LogSummary() {
	s := t.Snapshot()
	logger.Info("API usage",
		"calls", s.Calls,
		"avg_ms", s.AvgTime.Milliseconds(),
		"min_ms", s.MinTime.Milliseconds(),
		"max_ms", s.MaxTime.Milliseconds(),
		"last_weight", s.LastWeight,
		"uptime_s", int64(s.Uptime.Seconds()),
	)
}
