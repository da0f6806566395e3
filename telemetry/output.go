package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// StepCSV is one perf record as written to steps.csv.
type StepCSV struct {
	Step        int     `csv:"step"`
	TotalMicros float64 `csv:"total_us"`
}

// OutputManager handles structured experiment output with CSV logging.
// A nil OutputManager is valid and discards everything.
type OutputManager struct {
	dir        string
	energyFile *os.File
	stepsFile  *os.File

	energyHeaderWritten bool
	stepsHeaderWritten  bool
}

// NewOutputManager creates the output directory and its CSV files. Returns
// nil when dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "energy.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating energy.csv: %w", err)
	}
	om.energyFile = f

	f, err = os.Create(filepath.Join(dir, "steps.csv"))
	if err != nil {
		om.energyFile.Close()
		return nil, fmt.Errorf("creating steps.csv: %w", err)
	}
	om.stepsFile = f

	return om, nil
}

// WriteEnergy appends one energy stats record to energy.csv.
func (om *OutputManager) WriteEnergy(stats EnergyStats) error {
	if om == nil {
		return nil
	}
	records := []EnergyStats{stats}
	if !om.energyHeaderWritten {
		if err := gocsv.Marshal(records, om.energyFile); err != nil {
			return fmt.Errorf("writing energy stats: %w", err)
		}
		om.energyHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.energyFile); err != nil {
		return fmt.Errorf("writing energy stats: %w", err)
	}
	return nil
}

// WriteStep appends one step timing record to steps.csv.
func (om *OutputManager) WriteStep(step int, total time.Duration) error {
	if om == nil {
		return nil
	}
	records := []StepCSV{{Step: step, TotalMicros: float64(total.Microseconds())}}
	if !om.stepsHeaderWritten {
		if err := gocsv.Marshal(records, om.stepsFile); err != nil {
			return fmt.Errorf("writing step timing: %w", err)
		}
		om.stepsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.stepsFile); err != nil {
		return fmt.Errorf("writing step timing: %w", err)
	}
	return nil
}

// Close flushes and closes the CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.energyFile, om.stepsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
