// Package components defines the ECS components the synchronization layer
// reads and writes. They are plain data: the live simulation state lives in
// the physics world, not here.
package components

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's world position and orientation. The sync system
// pushes it into the physics world for Kinematic and Static bodies before
// each step and pulls it back for Dynamic bodies after.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform returns a transform at the given position with identity
// rotation.
func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{Position: pos, Rotation: mgl64.QuatIdent()}
}
