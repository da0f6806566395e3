package collider

import "github.com/go-gl/mathgl/mgl64"

// epsilon guards normalizations of near-zero vectors. Degenerate directions
// fall back to a fixed axis so NaN never reaches body state.
const epsilon = 1e-9

// ShapeType tags the concrete geometry of a Shape.
type ShapeType uint8

const (
	ShapeSphere ShapeType = iota
	ShapeBox
	ShapeCapsule
	ShapePlane
)

// String returns the shape tag name.
func (t ShapeType) String() string {
	switch t {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCapsule:
		return "capsule"
	case ShapePlane:
		return "plane"
	}
	return "unknown"
}

// Shape is the capability set every collider geometry implements. All
// queries take the shape's world position and rotation; shapes themselves
// hold only size parameters.
//
// Support returns the farthest point on the shape along a world-space
// direction. It is the primitive a GJK-style narrowphase would build on.
type Shape interface {
	Type() ShapeType
	AABB(pos mgl64.Vec3, rot mgl64.Quat) AABB
	ClosestPoint(pos mgl64.Vec3, rot mgl64.Quat, point mgl64.Vec3) mgl64.Vec3
	Support(pos mgl64.Vec3, rot mgl64.Quat, dir mgl64.Vec3) mgl64.Vec3
}

// safeNormalize returns dir normalized, or fallback when dir is too short
// to normalize safely.
func safeNormalize(dir, fallback mgl64.Vec3) mgl64.Vec3 {
	if dir.LenSqr() < epsilon*epsilon {
		return fallback
	}
	return dir.Normalize()
}
