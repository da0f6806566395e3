package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/dynamics"
)

// RayHit is the result of a ray/shape intersection. Distance is measured
// along the (normalized) ray direction from its origin.
type RayHit struct {
	Hit      bool
	Body     *dynamics.RigidBody
	Collider *collider.Collider
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// RaycastCollider intersects a ray with a single collider. dir must be
// normalized; hits beyond maxDist are discarded.
func RaycastCollider(c *collider.Collider, origin, dir mgl64.Vec3, maxDist float64) (RayHit, bool) {
	pos := c.WorldPosition()
	rot := c.WorldRotation()

	var hit RayHit
	var ok bool
	switch s := c.Shape.(type) {
	case collider.Sphere:
		hit, ok = raySphere(origin, dir, pos, s.Radius)
	case collider.Box:
		hit, ok = rayBox(origin, dir, s, pos, rot)
	case collider.Capsule:
		hit, ok = rayCapsule(origin, dir, s, pos, rot)
	case collider.Plane:
		hit, ok = rayPlane(origin, dir, s, pos, rot)
	}
	if !ok || hit.Distance > maxDist {
		return RayHit{}, false
	}
	hit.Hit = true
	hit.Collider = c
	hit.Body = c.Body
	return hit, true
}

func raySphere(origin, dir, center mgl64.Vec3, radius float64) (RayHit, bool) {
	m := origin.Sub(center)
	b := m.Dot(dir)
	c := m.LenSqr() - radius*radius
	if c > 0 && b > 0 {
		return RayHit{}, false // starts outside, points away
	}
	disc := b*b - c
	if disc < 0 {
		return RayHit{}, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = 0 // origin inside the sphere
	}
	point := origin.Add(dir.Mul(t))
	normal := mgl64.Vec3{0, 1, 0}
	if delta := point.Sub(center); delta.LenSqr() > epsilon*epsilon {
		normal = delta.Normalize()
	}
	return RayHit{Point: point, Normal: normal, Distance: t}, true
}

// rayBox uses the slab method in the box's local frame.
func rayBox(origin, dir mgl64.Vec3, box collider.Box, pos mgl64.Vec3, rot mgl64.Quat) (RayHit, bool) {
	inv := rot.Inverse()
	o := inv.Rotate(origin.Sub(pos))
	d := inv.Rotate(dir)

	tMin, tMax := 0.0, math.Inf(1)
	axis, sign := 0, 1.0
	for i := 0; i < 3; i++ {
		h := box.HalfExtents[i]
		if math.Abs(d[i]) < epsilon {
			if o[i] < -h || o[i] > h {
				return RayHit{}, false // parallel and outside the slab
			}
			continue
		}
		t1 := (-h - o[i]) / d[i]
		t2 := (h - o[i]) / d[i]
		entrySign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			entrySign = 1.0
		}
		if t1 > tMin {
			tMin = t1
			axis, sign = i, entrySign
		}
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return RayHit{}, false
		}
	}

	localNormal := mgl64.Vec3{}
	localNormal[axis] = sign
	return RayHit{
		Point:    origin.Add(dir.Mul(tMin)),
		Normal:   rot.Rotate(localNormal),
		Distance: tMin,
	}, true
}

func rayPlane(origin, dir mgl64.Vec3, p collider.Plane, pos mgl64.Vec3, rot mgl64.Quat) (RayHit, bool) {
	n := p.WorldNormal(rot)
	denom := dir.Dot(n)
	if math.Abs(denom) < epsilon {
		return RayHit{}, false // ray parallel to the plane
	}
	sd := p.SignedDistance(pos, rot, origin)
	t := -sd / denom
	if t < 0 {
		return RayHit{}, false
	}
	normal := n
	if sd < 0 {
		normal = n.Mul(-1) // face the side the ray came from
	}
	return RayHit{Point: origin.Add(dir.Mul(t)), Normal: normal, Distance: t}, true
}

// rayCapsule intersects the infinite cylinder around the core segment, then
// falls back to the endpoint spheres for cap hits.
func rayCapsule(origin, dir mgl64.Vec3, c collider.Capsule, pos mgl64.Vec3, rot mgl64.Quat) (RayHit, bool) {
	a, b := c.Segment(pos, rot)
	axis := b.Sub(a)
	axisLenSq := axis.LenSqr()
	if axisLenSq < epsilon*epsilon {
		return raySphere(origin, dir, pos, c.Radius) // degenerate: a sphere
	}

	best := RayHit{Distance: math.Inf(1)}
	found := false

	// Cylinder side: solve |(o + t*d) - proj_axis| = r.
	axisN := axis.Mul(1 / math.Sqrt(axisLenSq))
	m := origin.Sub(a)
	dPerp := dir.Sub(axisN.Mul(dir.Dot(axisN)))
	mPerp := m.Sub(axisN.Mul(m.Dot(axisN)))

	qa := dPerp.LenSqr()
	qb := dPerp.Dot(mPerp)
	qc := mPerp.LenSqr() - c.Radius*c.Radius
	if qa > epsilon {
		disc := qb*qb - qa*qc
		if disc >= 0 {
			t := (-qb - math.Sqrt(disc)) / qa
			if t >= 0 {
				point := origin.Add(dir.Mul(t))
				// Accept only hits on the cylindrical section.
				s := point.Sub(a).Dot(axisN)
				if s >= 0 && s*s <= axisLenSq {
					on := a.Add(axisN.Mul(s))
					best = RayHit{
						Point:    point,
						Normal:   point.Sub(on).Normalize(),
						Distance: t,
					}
					found = true
				}
			}
		}
	}

	// End caps.
	for _, end := range [2]mgl64.Vec3{a, b} {
		if hit, ok := raySphere(origin, dir, end, c.Radius); ok && hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	if !found {
		return RayHit{}, false
	}
	return best, true
}
