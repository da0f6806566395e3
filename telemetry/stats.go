package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// EnergyStats aggregates the kinetic energy distribution across all bodies
// at one sample point. Useful for catching solver energy gain: a resting
// scene whose TotalKinetic trends upward over steps has a stability bug.
type EnergyStats struct {
	Step         int     `csv:"step"`
	BodyCount    int     `csv:"bodies"`
	AwakeCount   int     `csv:"awake"`
	TotalKinetic float64 `csv:"kinetic_total"`
	MeanKinetic  float64 `csv:"kinetic_mean"`
	P50Kinetic   float64 `csv:"kinetic_p50"`
	MaxKinetic   float64 `csv:"kinetic_max"`
}

// CollectEnergy computes the distribution of the given per-body kinetic
// energies. The input slice is sorted in place.
func CollectEnergy(step int, awake int, energies []float64) EnergyStats {
	s := EnergyStats{Step: step, BodyCount: len(energies), AwakeCount: awake}
	if len(energies) == 0 {
		return s
	}
	sort.Float64s(energies)
	s.MeanKinetic = stat.Mean(energies, nil)
	s.P50Kinetic = stat.Quantile(0.5, stat.Empirical, energies, nil)
	s.MaxKinetic = energies[len(energies)-1]
	for _, e := range energies {
		s.TotalKinetic += e
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s EnergyStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", s.Step),
		slog.Int("bodies", s.BodyCount),
		slog.Int("awake", s.AwakeCount),
		slog.Float64("kinetic_total", s.TotalKinetic),
		slog.Float64("kinetic_mean", s.MeanKinetic),
		slog.Float64("kinetic_p50", s.P50Kinetic),
		slog.Float64("kinetic_max", s.MaxKinetic),
	)
}
