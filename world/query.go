package world

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/collision"
	"github.com/pthm-cable/ballast/dynamics"
)

// Raycast returns the nearest hit across all registered colliders within
// maxDist of origin along dir. A zero-length direction is a guaranteed
// miss, not an error.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64) (collision.RayHit, bool) {
	if dir.LenSqr() < solverEpsilon {
		return collision.RayHit{}, false
	}
	dir = dir.Normalize()

	best := collision.RayHit{}
	found := false
	for _, c := range w.colliders {
		hit, ok := collision.RaycastCollider(c, origin, dir, maxDist)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// RaycastAll returns every hit within maxDist, sorted by ascending
// distance.
func (w *World) RaycastAll(origin, dir mgl64.Vec3, maxDist float64) []collision.RayHit {
	if dir.LenSqr() < solverEpsilon {
		return nil
	}
	dir = dir.Normalize()

	var hits []collision.RayHit
	for _, c := range w.colliders {
		if hit, ok := collision.RaycastCollider(c, origin, dir, maxDist); ok {
			hits = append(hits, hit)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// OverlapSphere returns every collider intersecting a sphere probe at
// center.
func (w *World) OverlapSphere(center mgl64.Vec3, radius float64) []*collider.Collider {
	return w.overlapProbe(collider.Sphere{Radius: radius}, center, mgl64.QuatIdent())
}

// OverlapBox returns every collider intersecting an oriented box probe.
func (w *World) OverlapBox(center mgl64.Vec3, halfExtents mgl64.Vec3, rot mgl64.Quat) []*collider.Collider {
	return w.overlapProbe(collider.Box{HalfExtents: halfExtents}, center, rot)
}

// overlapProbe runs the narrowphase between a synthetic probe collider and
// every registered collider. The probe body is never registered with the
// world; it only carries the probe transform.
func (w *World) overlapProbe(shape collider.Shape, center mgl64.Vec3, rot mgl64.Quat) []*collider.Collider {
	probeBody := &dynamics.RigidBody{Position: center, Rotation: rot}
	probe := &collider.Collider{Shape: shape, Body: probeBody}

	var out []*collider.Collider
	for _, c := range w.colliders {
		if _, ok := collision.Collide(probe, c); ok {
			out = append(out, c)
		}
	}
	return out
}
