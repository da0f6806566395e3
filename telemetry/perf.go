// Package telemetry provides step timing, energy statistics, and CSV
// output for the physics engine.
package telemetry

import (
	"sort"
	"time"
)

// StepSample holds timing data for a single simulation step.
type StepSample struct {
	StepDuration time.Duration
	Phases       map[string]time.Duration
}

// StepTimer tracks per-phase step timings over a rolling window. It
// implements the world's step observer interface.
type StepTimer struct {
	windowSize  int
	samples     []StepSample
	writeIndex  int
	sampleCount int

	current map[string]time.Duration
}

// NewStepTimer creates a timer averaging over windowSize steps (e.g. 60 for
// one second at a 60 Hz fixed step).
func NewStepTimer(windowSize int) *StepTimer {
	if windowSize < 1 {
		windowSize = 60
	}
	return &StepTimer{
		windowSize: windowSize,
		samples:    make([]StepSample, windowSize),
	}
}

// BeginStep starts a new sample.
func (t *StepTimer) BeginStep() {
	t.current = make(map[string]time.Duration)
}

// Phase records one phase's duration for the current step.
func (t *StepTimer) Phase(name string, d time.Duration) {
	if t.current != nil {
		t.current[name] += d
	}
}

// EndStep finalizes the current sample into the rolling window.
func (t *StepTimer) EndStep(total time.Duration) {
	t.samples[t.writeIndex] = StepSample{StepDuration: total, Phases: t.current}
	t.writeIndex = (t.writeIndex + 1) % t.windowSize
	if t.sampleCount < t.windowSize {
		t.sampleCount++
	}
	t.current = nil
}

// Total returns the average step duration over the window.
func (t *StepTimer) Total() time.Duration {
	if t.sampleCount == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < t.sampleCount; i++ {
		sum += t.samples[i].StepDuration
	}
	return sum / time.Duration(t.sampleCount)
}

// Avg returns the average duration of one phase over the window.
func (t *StepTimer) Avg(phase string) time.Duration {
	if t.sampleCount == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < t.sampleCount; i++ {
		sum += t.samples[i].Phases[phase]
	}
	return sum / time.Duration(t.sampleCount)
}

// SortedNames returns all phase names seen in the window, slowest average
// first.
func (t *StepTimer) SortedNames() []string {
	seen := make(map[string]bool)
	for i := 0; i < t.sampleCount; i++ {
		for name := range t.samples[i].Phases {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return t.Avg(names[i]) > t.Avg(names[j]) })
	return names
}
