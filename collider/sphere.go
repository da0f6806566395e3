package collider

import "github.com/go-gl/mathgl/mgl64"

// Sphere is a sphere of the given radius centered on the collider origin.
type Sphere struct {
	Radius float64
}

func (s Sphere) Type() ShapeType { return ShapeSphere }

// AABB is center +- radius; rotation is irrelevant for a sphere.
func (s Sphere) AABB(pos mgl64.Vec3, _ mgl64.Quat) AABB {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: pos.Sub(r), Max: pos.Add(r)}
}

// ClosestPoint projects the query point onto the sphere surface. A query
// point at the exact center has no defined direction; +X is used instead.
func (s Sphere) ClosestPoint(pos mgl64.Vec3, _ mgl64.Quat, point mgl64.Vec3) mgl64.Vec3 {
	dir := safeNormalize(point.Sub(pos), mgl64.Vec3{1, 0, 0})
	return pos.Add(dir.Mul(s.Radius))
}

// Support returns the surface point farthest along dir.
func (s Sphere) Support(pos mgl64.Vec3, _ mgl64.Quat, dir mgl64.Vec3) mgl64.Vec3 {
	d := safeNormalize(dir, mgl64.Vec3{1, 0, 0})
	return pos.Add(d.Mul(s.Radius))
}
