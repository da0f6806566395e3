package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ballast/collider"
)

const epsilon = 1e-9

// Collide runs the exact shape-pair intersection test between two colliders
// and returns a manifold oriented A to B. ok is false when the shapes do
// not touch or the pair degenerates to zero contact points.
func Collide(a, b *collider.Collider) (Manifold, bool) {
	m := Manifold{
		BodyA:     a.Body,
		BodyB:     b.Body,
		ColliderA: a,
		ColliderB: b,
	}

	// Dispatch in canonical shape order; flip afterwards if we swapped.
	swapped := a.Shape.Type() > b.Shape.Type()
	first, second := a, b
	if swapped {
		first, second = b, a
	}

	m.Contacts = collideShapes(first, second)
	if len(m.Contacts) == 0 {
		return Manifold{}, false
	}
	if swapped {
		// Contacts were produced in (second, first) orientation.
		flipContacts(m.Contacts)
	}

	matA := a.SurfaceMaterial()
	matB := b.SurfaceMaterial()
	m.Restitution = CombineRestitution(a.Body, b.Body, matA, matB)
	m.Friction = CombineFriction(a.Body, b.Body, matA, matB)
	return m, true
}

// collideShapes assumes a.Shape.Type() <= b.Shape.Type().
func collideShapes(a, b *collider.Collider) []ContactPoint {
	posA, rotA := a.WorldPosition(), a.WorldRotation()
	posB, rotB := b.WorldPosition(), b.WorldRotation()

	switch sa := a.Shape.(type) {
	case collider.Sphere:
		switch sb := b.Shape.(type) {
		case collider.Sphere:
			return sphereSphere(posA, sa.Radius, posB, sb.Radius)
		case collider.Box:
			return sphereBox(posA, sa.Radius, sb, posB, rotB)
		case collider.Capsule:
			on := sb.ClosestSegmentPoint(posB, rotB, posA)
			return sphereSphere(posA, sa.Radius, on, sb.Radius)
		case collider.Plane:
			return spherePlane(posA, sa.Radius, sb, posB, rotB)
		}
	case collider.Box:
		switch sb := b.Shape.(type) {
		case collider.Box:
			return boxBox(sa, posA, rotA, sb, posB, rotB)
		case collider.Capsule:
			cts := capsuleBox(sb, posB, rotB, sa, posA, rotA)
			flipContacts(cts)
			return cts
		case collider.Plane:
			return boxPlane(sa, posA, rotA, sb, posB, rotB)
		}
	case collider.Capsule:
		switch sb := b.Shape.(type) {
		case collider.Capsule:
			return capsuleCapsule(sa, posA, rotA, sb, posB, rotB)
		case collider.Plane:
			return capsulePlane(sa, posA, rotA, sb, posB, rotB)
		}
	}
	// Plane vs plane and any unknown combination produce no contacts.
	return nil
}

func flipContacts(cts []ContactPoint) {
	for i := range cts {
		c := &cts[i]
		c.PointA, c.PointB = c.PointB, c.PointA
		c.Normal = c.Normal.Mul(-1)
	}
}

// sphereSphere also backs the sphere/capsule and capsule/capsule tests,
// which reduce to spheres at closest segment points.
func sphereSphere(posA mgl64.Vec3, ra float64, posB mgl64.Vec3, rb float64) []ContactPoint {
	delta := posB.Sub(posA)
	distSq := delta.LenSqr()
	sum := ra + rb
	if distSq >= sum*sum {
		return nil
	}

	dist := math.Sqrt(distSq)
	normal := mgl64.Vec3{0, 1, 0} // two centers at the same point
	if dist > epsilon {
		normal = delta.Mul(1 / dist)
	}
	return []ContactPoint{{
		PointA: posA.Add(normal.Mul(ra)),
		PointB: posB.Sub(normal.Mul(rb)),
		Normal: normal,
		Depth:  sum - dist,
	}}
}

func spherePlane(center mgl64.Vec3, radius float64, p collider.Plane, posP mgl64.Vec3, rotP mgl64.Quat) []ContactPoint {
	n := p.WorldNormal(rotP)
	sd := p.SignedDistance(posP, rotP, center)
	if sd >= radius {
		return nil
	}
	return []ContactPoint{{
		PointA: center.Sub(n.Mul(radius)),
		PointB: center.Sub(n.Mul(sd)),
		Normal: n.Mul(-1), // from sphere toward plane
		Depth:  radius - sd,
	}}
}

func sphereBox(center mgl64.Vec3, radius float64, box collider.Box, posB mgl64.Vec3, rotB mgl64.Quat) []ContactPoint {
	local := rotB.Inverse().Rotate(center.Sub(posB))
	h := box.HalfExtents

	inside := true
	clamped := local
	for i := 0; i < 3; i++ {
		if clamped[i] < -h[i] {
			clamped[i] = -h[i]
			inside = false
		} else if clamped[i] > h[i] {
			clamped[i] = h[i]
			inside = false
		}
	}

	if inside {
		// Center inside the box: push out through the nearest face.
		minDist := math.Inf(1)
		axis, sign := 0, 1.0
		for i := 0; i < 3; i++ {
			if d := h[i] - local[i]; d < minDist {
				minDist, axis, sign = d, i, 1
			}
			if d := h[i] + local[i]; d < minDist {
				minDist, axis, sign = d, i, -1
			}
		}
		localNormal := mgl64.Vec3{}
		localNormal[axis] = sign
		surface := local
		surface[axis] = sign * h[axis]

		n := rotB.Rotate(localNormal).Mul(-1) // from sphere toward box interior
		pointB := posB.Add(rotB.Rotate(surface))
		return []ContactPoint{{
			PointA: center.Add(n.Mul(radius)),
			PointB: pointB,
			Normal: n,
			Depth:  radius + minDist,
		}}
	}

	delta := local.Sub(clamped)
	distSq := delta.LenSqr()
	if distSq >= radius*radius {
		return nil
	}
	dist := math.Sqrt(distSq)
	localNormal := mgl64.Vec3{0, 1, 0}
	if dist > epsilon {
		localNormal = delta.Mul(1 / dist)
	}
	n := rotB.Rotate(localNormal).Mul(-1) // from sphere toward box
	pointB := posB.Add(rotB.Rotate(clamped))
	return []ContactPoint{{
		PointA: center.Add(n.Mul(radius)),
		PointB: pointB,
		Normal: n,
		Depth:  radius - dist,
	}}
}

func capsulePlane(c collider.Capsule, posC mgl64.Vec3, rotC mgl64.Quat, p collider.Plane, posP mgl64.Vec3, rotP mgl64.Quat) []ContactPoint {
	n := p.WorldNormal(rotP)
	a, b := c.Segment(posC, rotC)

	var cts []ContactPoint
	for _, end := range [2]mgl64.Vec3{a, b} {
		sd := p.SignedDistance(posP, rotP, end)
		if sd >= c.Radius {
			continue
		}
		cts = append(cts, ContactPoint{
			PointA: end.Sub(n.Mul(c.Radius)),
			PointB: end.Sub(n.Mul(sd)),
			Normal: n.Mul(-1),
			Depth:  c.Radius - sd,
		})
	}
	return cts
}

func capsuleCapsule(ca collider.Capsule, posA mgl64.Vec3, rotA mgl64.Quat, cb collider.Capsule, posB mgl64.Vec3, rotB mgl64.Quat) []ContactPoint {
	a0, a1 := ca.Segment(posA, rotA)
	b0, b1 := cb.Segment(posB, rotB)
	pa, pb := closestSegmentSegment(a0, a1, b0, b1)
	return sphereSphere(pa, ca.Radius, pb, cb.Radius)
}

// capsuleBox alternates closest-point projections between the capsule
// segment and the box surface, then resolves as sphere versus box.
func capsuleBox(c collider.Capsule, posC mgl64.Vec3, rotC mgl64.Quat, box collider.Box, posB mgl64.Vec3, rotB mgl64.Quat) []ContactPoint {
	a, b := c.Segment(posC, rotC)
	p := collider.ClosestPointOnSegment(a, b, posB)
	for i := 0; i < 2; i++ {
		q := box.ClosestPoint(posB, rotB, p)
		p = collider.ClosestPointOnSegment(a, b, q)
	}
	return sphereBox(p, c.Radius, box, posB, rotB)
}

// boxPlane tests all eight corners and keeps the penetrating ones, deepest
// first, capped at four contacts.
func boxPlane(box collider.Box, posB mgl64.Vec3, rotB mgl64.Quat, p collider.Plane, posP mgl64.Vec3, rotP mgl64.Quat) []ContactPoint {
	n := p.WorldNormal(rotP)
	h := box.HalfExtents

	var cts []ContactPoint
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				corner := posB.Add(rotB.Rotate(mgl64.Vec3{sx * h[0], sy * h[1], sz * h[2]}))
				sd := p.SignedDistance(posP, rotP, corner)
				if sd >= 0 {
					continue
				}
				cts = append(cts, ContactPoint{
					PointA: corner,
					PointB: corner.Sub(n.Mul(sd)),
					Normal: n.Mul(-1),
					Depth:  -sd,
				})
			}
		}
	}
	if len(cts) > 4 {
		// Keep the four deepest corners.
		for i := 0; i < 4; i++ {
			max := i
			for j := i + 1; j < len(cts); j++ {
				if cts[j].Depth > cts[max].Depth {
					max = j
				}
			}
			cts[i], cts[max] = cts[max], cts[i]
		}
		cts = cts[:4]
	}
	return cts
}

// boxBox runs a 15-axis separating-axis test between two oriented boxes and
// produces a single contact on the minimal-penetration axis.
func boxBox(ba collider.Box, posA mgl64.Vec3, rotA mgl64.Quat, bb collider.Box, posB mgl64.Vec3, rotB mgl64.Quat) []ContactPoint {
	axesA := boxAxes(rotA)
	axesB := boxAxes(rotB)

	var candidates [15]mgl64.Vec3
	copy(candidates[0:3], axesA[:])
	copy(candidates[3:6], axesB[:])
	i := 6
	for _, a := range axesA {
		for _, b := range axesB {
			candidates[i] = a.Cross(b)
			i++
		}
	}

	delta := posB.Sub(posA)
	minDepth := math.Inf(1)
	var minAxis mgl64.Vec3

	for _, axis := range candidates {
		if axis.LenSqr() < epsilon*epsilon {
			continue // parallel edges produce degenerate cross products
		}
		axis = axis.Normalize()

		ra := projectBox(ba.HalfExtents, axesA, axis)
		rb := projectBox(bb.HalfExtents, axesB, axis)
		dist := math.Abs(delta.Dot(axis))
		overlap := ra + rb - dist
		if overlap <= 0 {
			return nil // separating axis found
		}
		if overlap < minDepth {
			minDepth = overlap
			if delta.Dot(axis) < 0 {
				axis = axis.Mul(-1)
			}
			minAxis = axis
		}
	}

	// Representative contact point: midpoint between the deepest supporting
	// points of each box along the contact normal.
	supA := ba.Support(posA, rotA, minAxis)
	supB := bb.Support(posB, rotB, minAxis.Mul(-1))
	mid := supA.Add(supB).Mul(0.5)
	return []ContactPoint{{
		PointA: mid,
		PointB: mid,
		Normal: minAxis,
		Depth:  minDepth,
	}}
}

// boxAxes returns the box's three local axes in world space.
func boxAxes(rot mgl64.Quat) [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		rot.Rotate(mgl64.Vec3{1, 0, 0}),
		rot.Rotate(mgl64.Vec3{0, 1, 0}),
		rot.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

// projectBox returns the projection radius of an oriented box onto axis.
func projectBox(half mgl64.Vec3, axes [3]mgl64.Vec3, axis mgl64.Vec3) float64 {
	return half[0]*math.Abs(axes[0].Dot(axis)) +
		half[1]*math.Abs(axes[1].Dot(axis)) +
		half[2]*math.Abs(axes[2].Dot(axis))
}

// closestSegmentSegment computes the closest points between segments p1q1
// and p2q2. Standard clamped quadratic minimization; degenerate segments
// collapse to point cases.
func closestSegmentSegment(p1, q1, p2, q2 mgl64.Vec3) (c1, c2 mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.LenSqr()
	e := d2.LenSqr()
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a < epsilon && e < epsilon:
		return p1, p2
	case a < epsilon:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e < epsilon {
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > epsilon {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
