package world

import "github.com/go-gl/mathgl/mgl64"

// Settings holds the tunable simulation parameters. The world keeps a
// pointer to a Settings value, so callers may adjust fields between steps.
type Settings struct {
	Gravity mgl64.Vec3

	// Solver iteration counts.
	VelocityIterations int
	PositionIterations int

	// BaumgarteScale is the fraction of residual penetration corrected per
	// position-solver pass; AllowedPenetration is the slop left in place to
	// keep resting contacts from jittering.
	BaumgarteScale     float64
	AllowedPenetration float64

	// Hard velocity clamps applied during integration.
	MaxLinearVelocity  float64
	MaxAngularVelocity float64

	// Bodies moving slower than the velocity threshold for SleepTime
	// continuous seconds are put to sleep.
	SleepVelocityThreshold float64
	SleepTime              float64
}

// DefaultSettings returns the standard tuning: earth gravity, 8 velocity and
// 3 position iterations.
func DefaultSettings() *Settings {
	return &Settings{
		Gravity:                mgl64.Vec3{0, -9.81, 0},
		VelocityIterations:     8,
		PositionIterations:     3,
		BaumgarteScale:         0.2,
		AllowedPenetration:     0.01,
		MaxLinearVelocity:      100,
		MaxAngularVelocity:     50,
		SleepVelocityThreshold: 0.1,
		SleepTime:              0.5,
	}
}
