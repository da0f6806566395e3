package collider

import "github.com/go-gl/mathgl/mgl64"

// PlaneExtent is the half-size of the AABB reported for infinite planes so
// the broadphase can treat them like every other shape.
const PlaneExtent = 10000.0

// Plane is an infinite plane satisfying dot(Normal, p) == Offset.
// The normal points toward the "front" half-space.
type Plane struct {
	Normal mgl64.Vec3
	Offset float64
}

func (p Plane) Type() ShapeType { return ShapePlane }

// AABB returns a large fixed-size box; planes are infinite, so the
// broadphase never rejects them on bounds.
func (p Plane) AABB(pos mgl64.Vec3, _ mgl64.Quat) AABB {
	e := mgl64.Vec3{PlaneExtent, PlaneExtent, PlaneExtent}
	return AABB{Min: pos.Sub(e), Max: pos.Add(e)}
}

// WorldNormal is the plane normal rotated into world space, unit length.
func (p Plane) WorldNormal(rot mgl64.Quat) mgl64.Vec3 {
	return safeNormalize(rot.Rotate(p.Normal), mgl64.Vec3{0, 1, 0})
}

// SignedDistance is positive when the point lies in front of the normal.
func (p Plane) SignedDistance(pos mgl64.Vec3, rot mgl64.Quat, point mgl64.Vec3) float64 {
	n := p.WorldNormal(rot)
	return point.Sub(pos).Dot(n) - p.Offset
}

// ClosestPoint projects the query point onto the plane surface.
func (p Plane) ClosestPoint(pos mgl64.Vec3, rot mgl64.Quat, point mgl64.Vec3) mgl64.Vec3 {
	n := p.WorldNormal(rot)
	return point.Sub(n.Mul(p.SignedDistance(pos, rot, point)))
}

// Support returns a far point on the plane in the tangential part of dir.
func (p Plane) Support(pos mgl64.Vec3, rot mgl64.Quat, dir mgl64.Vec3) mgl64.Vec3 {
	n := p.WorldNormal(rot)
	tangent := dir.Sub(n.Mul(dir.Dot(n)))
	t := safeNormalize(tangent, mgl64.Vec3{})
	return pos.Add(n.Mul(p.Offset)).Add(t.Mul(PlaneExtent))
}
