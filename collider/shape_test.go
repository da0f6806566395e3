package collider

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

func approxVec(t *testing.T, got, want mgl64.Vec3, context string) {
	t.Helper()
	if got.Sub(want).Len() > 1e-6 {
		t.Errorf("%s = %v, want %v", context, got, want)
	}
}

func TestSphereQueries(t *testing.T) {
	s := Sphere{Radius: 2}
	pos := mgl64.Vec3{1, 0, 0}
	rot := mgl64.QuatIdent()

	box := s.AABB(pos, rot)
	approxVec(t, box.Min, mgl64.Vec3{-1, -2, -2}, "AABB.Min")
	approxVec(t, box.Max, mgl64.Vec3{3, 2, 2}, "AABB.Max")

	// Closest point projects onto the surface.
	approxVec(t, s.ClosestPoint(pos, rot, mgl64.Vec3{10, 0, 0}), mgl64.Vec3{3, 0, 0}, "ClosestPoint")

	// Query at the exact center falls back to a fixed direction instead of
	// producing NaN.
	cp := s.ClosestPoint(pos, rot, pos)
	if math.IsNaN(cp[0]) || math.IsNaN(cp[1]) || math.IsNaN(cp[2]) {
		t.Fatalf("degenerate ClosestPoint produced NaN: %v", cp)
	}
	if d := cp.Sub(pos).Len(); math.Abs(d-2) > tol {
		t.Errorf("degenerate ClosestPoint distance = %v, want 2", d)
	}

	approxVec(t, s.Support(pos, rot, mgl64.Vec3{0, 3, 0}), mgl64.Vec3{1, 2, 0}, "Support")
}

func TestBoxQueries(t *testing.T) {
	b := Box{HalfExtents: mgl64.Vec3{1, 2, 3}}
	pos := mgl64.Vec3{}
	rot := mgl64.QuatIdent()

	tests := []struct {
		name  string
		query mgl64.Vec3
		want  mgl64.Vec3
	}{
		{"outside +x", mgl64.Vec3{5, 0, 0}, mgl64.Vec3{1, 0, 0}},
		{"outside corner", mgl64.Vec3{5, 5, 5}, mgl64.Vec3{1, 2, 3}},
		{"inside clamps to itself", mgl64.Vec3{0.5, -1, 2}, mgl64.Vec3{0.5, -1, 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			approxVec(t, b.ClosestPoint(pos, rot, tc.query), tc.want, "ClosestPoint")
		})
	}

	approxVec(t, b.Support(pos, rot, mgl64.Vec3{1, -1, 1}), mgl64.Vec3{1, -2, 3}, "Support")

	// Rotating 90 degrees about Y swaps the X and Z extents of the AABB.
	rot90 := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	box := b.AABB(pos, rot90)
	approxVec(t, box.Max, mgl64.Vec3{3, 2, 1}, "rotated AABB.Max")
}

func TestCapsuleQueries(t *testing.T) {
	c := Capsule{Radius: 0.5, HalfHeight: 1, Axis: AxisY}
	pos := mgl64.Vec3{}
	rot := mgl64.QuatIdent()

	a, b := c.Segment(pos, rot)
	approxVec(t, a, mgl64.Vec3{0, -1, 0}, "segment a")
	approxVec(t, b, mgl64.Vec3{0, 1, 0}, "segment b")

	// The zero-value axis is Y: an unconfigured capsule stands upright.
	zeroAxis := Capsule{Radius: 0.5, HalfHeight: 1}
	za, zb := zeroAxis.Segment(pos, rot)
	approxVec(t, za, a, "zero-axis segment a")
	approxVec(t, zb, b, "zero-axis segment b")

	lying := Capsule{Radius: 0.5, HalfHeight: 1, Axis: AxisX}
	la, lb := lying.Segment(pos, rot)
	approxVec(t, la, mgl64.Vec3{-1, 0, 0}, "x-axis segment a")
	approxVec(t, lb, mgl64.Vec3{1, 0, 0}, "x-axis segment b")

	box := c.AABB(pos, rot)
	approxVec(t, box.Min, mgl64.Vec3{-0.5, -1.5, -0.5}, "AABB.Min")
	approxVec(t, box.Max, mgl64.Vec3{0.5, 1.5, 0.5}, "AABB.Max")

	// Beside the cylinder section: closest point is radially out.
	approxVec(t, c.ClosestPoint(pos, rot, mgl64.Vec3{3, 0.5, 0}), mgl64.Vec3{0.5, 0.5, 0}, "ClosestPoint side")
	// Beyond an endpoint: closest point is on the cap.
	approxVec(t, c.ClosestPoint(pos, rot, mgl64.Vec3{0, 5, 0}), mgl64.Vec3{0, 1.5, 0}, "ClosestPoint cap")

	// Support picks the endpoint farther along the direction.
	approxVec(t, c.Support(pos, rot, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{0, 1.5, 0}, "Support up")
	approxVec(t, c.Support(pos, rot, mgl64.Vec3{0, -1, 0}), mgl64.Vec3{0, -1.5, 0}, "Support down")
}

func TestPlaneQueries(t *testing.T) {
	p := Plane{Normal: mgl64.Vec3{0, 1, 0}}
	pos := mgl64.Vec3{}
	rot := mgl64.QuatIdent()

	if d := p.SignedDistance(pos, rot, mgl64.Vec3{3, 2, -1}); math.Abs(d-2) > tol {
		t.Errorf("SignedDistance above = %v, want 2", d)
	}
	if d := p.SignedDistance(pos, rot, mgl64.Vec3{0, -0.5, 0}); math.Abs(d+0.5) > tol {
		t.Errorf("SignedDistance below = %v, want -0.5", d)
	}

	approxVec(t, p.ClosestPoint(pos, rot, mgl64.Vec3{3, 2, -1}), mgl64.Vec3{3, 0, -1}, "ClosestPoint")

	box := p.AABB(pos, rot)
	if box.Max[0] != PlaneExtent || box.Min[1] != -PlaneExtent {
		t.Errorf("plane AABB not the fixed broadphase box: %+v", box)
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{10, 0, 0}

	tests := []struct {
		name string
		p    mgl64.Vec3
		want mgl64.Vec3
	}{
		{"middle", mgl64.Vec3{5, 3, 0}, mgl64.Vec3{5, 0, 0}},
		{"clamped low", mgl64.Vec3{-4, 1, 0}, mgl64.Vec3{0, 0, 0}},
		{"clamped high", mgl64.Vec3{14, -2, 0}, mgl64.Vec3{10, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			approxVec(t, ClosestPointOnSegment(a, b, tc.p), tc.want, "ClosestPointOnSegment")
		})
	}

	// Degenerate segment returns its only point.
	approxVec(t, ClosestPointOnSegment(a, a, mgl64.Vec3{1, 2, 3}), a, "degenerate segment")
}
