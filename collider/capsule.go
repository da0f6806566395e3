package collider

import "github.com/go-gl/mathgl/mgl64"

// CapsuleAxis selects which local axis the capsule segment runs along. The
// zero value is AxisY, the upright capsule.
type CapsuleAxis uint8

const (
	AxisY CapsuleAxis = iota
	AxisX
	AxisZ
)

// Capsule is a line segment with a radius: a cylinder of half-height
// HalfHeight along the chosen local axis, capped by hemispheres.
type Capsule struct {
	Radius     float64
	HalfHeight float64
	Axis       CapsuleAxis
}

func (c Capsule) Type() ShapeType { return ShapeCapsule }

// Segment returns the world-space segment endpoints.
func (c Capsule) Segment(pos mgl64.Vec3, rot mgl64.Quat) (a, b mgl64.Vec3) {
	local := mgl64.Vec3{}
	local[c.axisIndex()] = c.HalfHeight
	half := rot.Rotate(local)
	return pos.Sub(half), pos.Add(half)
}

// axisIndex maps the axis tag to its vector component.
func (c Capsule) axisIndex() int {
	switch c.Axis {
	case AxisX:
		return 0
	case AxisZ:
		return 2
	default:
		return 1
	}
}

// AABB bounds both endpoint spheres.
func (c Capsule) AABB(pos mgl64.Vec3, rot mgl64.Quat) AABB {
	a, b := c.Segment(pos, rot)
	r := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	return AABB{Min: a.Sub(r), Max: a.Add(r)}.Union(AABB{Min: b.Sub(r), Max: b.Add(r)})
}

// ClosestSegmentPoint returns the point on the capsule's core segment
// nearest to the query point.
func (c Capsule) ClosestSegmentPoint(pos mgl64.Vec3, rot mgl64.Quat, point mgl64.Vec3) mgl64.Vec3 {
	a, b := c.Segment(pos, rot)
	return ClosestPointOnSegment(a, b, point)
}

// ClosestPoint is the nearest segment point pushed out by the radius toward
// the query point. A query point on the segment itself falls back to +X.
func (c Capsule) ClosestPoint(pos mgl64.Vec3, rot mgl64.Quat, point mgl64.Vec3) mgl64.Vec3 {
	on := c.ClosestSegmentPoint(pos, rot, point)
	dir := safeNormalize(point.Sub(on), mgl64.Vec3{1, 0, 0})
	return on.Add(dir.Mul(c.Radius))
}

// Support picks the endpoint farther along dir, offset by the radius.
func (c Capsule) Support(pos mgl64.Vec3, rot mgl64.Quat, dir mgl64.Vec3) mgl64.Vec3 {
	d := safeNormalize(dir, mgl64.Vec3{1, 0, 0})
	a, b := c.Segment(pos, rot)
	end := a
	if b.Dot(d) > a.Dot(d) {
		end = b
	}
	return end.Add(d.Mul(c.Radius))
}

// ClosestPointOnSegment returns the point on segment ab nearest to p, via a
// parametric clamp to [0,1]. A degenerate segment returns a.
func ClosestPointOnSegment(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.LenSqr()
	if lenSq < epsilon*epsilon {
		return a
	}
	t := clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Mul(t))
}
