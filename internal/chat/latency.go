package chat

import (
	"fmt"
	"math"
	"time"
)

// DefaultLatencyWindow is how many recent round trips feed the average.
const DefaultLatencyWindow = 10

// NoMetric is shown in place of a metric that has no data yet.
const NoMetric = "—"

// LatencyWindow keeps the most recent request durations, evicting the oldest
// once capacity is exceeded. It is not safe for concurrent use; the session
// guards it.
type LatencyWindow struct {
	capacity int
	samples  []time.Duration
}

// NewLatencyWindow returns a window holding up to capacity samples.
// A non-positive capacity falls back to DefaultLatencyWindow.
func NewLatencyWindow(capacity int) *LatencyWindow {
	if capacity <= 0 {
		capacity = DefaultLatencyWindow
	}
	return &LatencyWindow{capacity: capacity}
}

// Record appends d and drops the oldest sample when over capacity.
func (w *LatencyWindow) Record(d time.Duration) {
	w.samples = append(w.samples, d)
	if len(w.samples) > w.capacity {
		w.samples = w.samples[len(w.samples)-w.capacity:]
	}
}

// Average returns the arithmetic mean of the window, false when empty.
func (w *LatencyWindow) Average() (time.Duration, bool) {
	if len(w.samples) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, s := range w.samples {
		total += s
	}
	return total / time.Duration(len(w.samples)), true
}

// Display renders the average rounded to the nearest millisecond, e.g. "412ms".
func (w *LatencyWindow) Display() string {
	if len(w.samples) == 0 {
		return NoMetric
	}
	var totalMs float64
	for _, s := range w.samples {
		totalMs += float64(s) / float64(time.Millisecond)
	}
	return fmt.Sprintf("%dms", int64(math.Round(totalMs/float64(len(w.samples)))))
}

func (w *LatencyWindow) Len() int { return len(w.samples) }

// Samples returns a copy of the window, oldest first.
func (w *LatencyWindow) Samples() []time.Duration {
	out := make([]time.Duration, len(w.samples))
	copy(out, w.samples)
	return out
}

func (w *LatencyWindow) Reset() {
	w.samples = nil
}
