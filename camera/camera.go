// Package camera provides an orbital 3D camera for viewport control.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbital is a camera that orbits a target point at a distance, described
// by yaw and pitch angles in radians. It is plain math; the renderer turns
// Position and Target into its own camera type.
type Orbital struct {
	Target   mgl64.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64

	// Distance constraints.
	MinDistance, MaxDistance float64
}

// maxPitch stops just short of the poles, where the view basis degenerates.
const maxPitch = math.Pi/2 - 0.05

// New creates a camera orbiting target from the given distance, tilted
// slightly down.
func New(target mgl64.Vec3, distance float64) *Orbital {
	return &Orbital{
		Target:      target,
		Distance:    distance,
		Yaw:         math.Pi / 4,
		Pitch:       0.5,
		MinDistance: 2,
		MaxDistance: 60,
	}
}

// Orbit rotates the camera around the target. Pitch is clamped away from
// the poles.
func (c *Orbital) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Dolly moves the camera toward or away from the target, clamped to the
// distance constraints.
func (c *Orbital) Dolly(delta float64) {
	c.Distance = clamp(c.Distance+delta, c.MinDistance, c.MaxDistance)
}

// Pan shifts the target in the camera's horizontal plane: dx along the
// camera's right axis, dz along its forward axis projected to the ground.
func (c *Orbital) Pan(dx, dz float64) {
	sin, cos := math.Sincos(c.Yaw)
	right := mgl64.Vec3{cos, 0, -sin}
	forward := mgl64.Vec3{-sin, 0, -cos}
	c.Target = c.Target.Add(right.Mul(dx)).Add(forward.Mul(dz))
}

// Position returns the camera's world position for the current orbit.
func (c *Orbital) Position() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	offset := mgl64.Vec3{
		c.Distance * cp * math.Sin(c.Yaw),
		c.Distance * math.Sin(c.Pitch),
		c.Distance * cp * math.Cos(c.Yaw),
	}
	return c.Target.Add(offset)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
