package collider

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ballast/dynamics"
)

// Collider attaches a shape to a rigid body at a local offset. The Body
// back-reference is set by the world when the collider is registered; the
// collider never owns the body.
type Collider struct {
	Shape     Shape
	Offset    mgl64.Vec3
	IsTrigger bool

	// Material overrides the body's surface properties for this collider.
	// Nil means the default unit material.
	Material *dynamics.Material

	Body *dynamics.RigidBody
}

// WorldPosition is the collider origin in world space: the body transform
// applied to the local offset. A detached collider reports its offset.
func (c *Collider) WorldPosition() mgl64.Vec3 {
	if c.Body == nil {
		return c.Offset
	}
	return c.Body.Position.Add(c.Body.Rotation.Rotate(c.Offset))
}

// WorldRotation is the owning body's rotation, identity when detached.
func (c *Collider) WorldRotation() mgl64.Quat {
	if c.Body == nil {
		return mgl64.QuatIdent()
	}
	return c.Body.Rotation
}

// AABB computes the collider's world bounding box for the current body
// transform. Recomputed every step, never cached.
func (c *Collider) AABB() AABB {
	return c.Shape.AABB(c.WorldPosition(), c.WorldRotation())
}

// SurfaceMaterial resolves the effective material: the override when set,
// otherwise the unit default.
func (c *Collider) SurfaceMaterial() dynamics.Material {
	if c.Material != nil {
		return *c.Material
	}
	return dynamics.DefaultMaterial()
}
