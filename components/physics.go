package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/dynamics"
)

// PhysicsBody describes how an entity's rigid body should be created. It is
// a construction recipe, not live state; changing it after registration has
// no effect.
type PhysicsBody struct {
	Type dynamics.BodyType
	Mass float64

	Restitution    float64
	Friction       float64
	LinearDamping  float64
	AngularDamping float64

	UseGravity bool
	Freeze     dynamics.FreezeFlags

	Layer uint32
	Mask  uint32
}

// DefaultPhysicsBody returns a Dynamic unit-mass recipe with gravity on,
// on layer 1, colliding with everything.
func DefaultPhysicsBody() PhysicsBody {
	return PhysicsBody{
		Type:        dynamics.Dynamic,
		Mass:        1,
		Restitution: 0.2,
		Friction:    0.5,
		UseGravity:  true,
		Layer:       1,
		Mask:        ^uint32(0),
	}
}

// PhysicsShape describes an entity's collider. Only the fields relevant to
// Kind are read.
type PhysicsShape struct {
	Kind collider.ShapeType

	Radius      float64    // sphere, capsule
	HalfExtents mgl64.Vec3 // box
	HalfHeight  float64    // capsule
	Normal      mgl64.Vec3 // plane
	PlaneOffset float64    // plane

	Offset    mgl64.Vec3
	IsTrigger bool
}

// Shape builds the collider geometry this component describes.
func (s PhysicsShape) Shape() collider.Shape {
	switch s.Kind {
	case collider.ShapeBox:
		return collider.Box{HalfExtents: s.HalfExtents}
	case collider.ShapeCapsule:
		return collider.Capsule{Radius: s.Radius, HalfHeight: s.HalfHeight, Axis: collider.AxisY}
	case collider.ShapePlane:
		return collider.Plane{Normal: s.Normal, Offset: s.PlaneOffset}
	default:
		return collider.Sphere{Radius: s.Radius}
	}
}
