// Package collision implements the exact pairwise intersection tests
// (narrowphase) between collider shapes, producing contact manifolds, and
// the analytic ray/shape intersection routines behind spatial queries.
package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/dynamics"
)

// ContactPoint is a single point of contact between two shapes. Normal
// points from shape A toward shape B; Depth is the penetration along it.
type ContactPoint struct {
	PointA mgl64.Vec3
	PointB mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
}

// Manifold describes how two colliders touch in one frame: the contact
// points plus the combined surface response for the pair.
type Manifold struct {
	BodyA *dynamics.RigidBody
	BodyB *dynamics.RigidBody

	ColliderA *collider.Collider
	ColliderB *collider.Collider

	Contacts []ContactPoint

	Restitution float64
	Friction    float64
}

// Normal returns the manifold's representative normal: the first contact's.
func (m *Manifold) Normal() mgl64.Vec3 {
	if len(m.Contacts) == 0 {
		return mgl64.Vec3{}
	}
	return m.Contacts[0].Normal
}

// CombineRestitution mixes the pair's bounciness:
// max(bodyA.e * matA.e, bodyB.e * matB.e).
func CombineRestitution(bodyA, bodyB *dynamics.RigidBody, matA, matB dynamics.Material) float64 {
	return math.Max(bodyA.Restitution*matA.Restitution, bodyB.Restitution*matB.Restitution)
}

// CombineFriction mixes the pair's friction with a geometric mean:
// sqrt(bodyA.mu * matA.dynamic * bodyB.mu * matB.dynamic).
func CombineFriction(bodyA, bodyB *dynamics.RigidBody, matA, matB dynamics.Material) float64 {
	product := bodyA.Friction * matA.DynamicFriction * bodyB.Friction * matB.DynamicFriction
	if product <= 0 {
		return 0
	}
	return math.Sqrt(product)
}
