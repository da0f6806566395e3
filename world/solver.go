package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ballast/collision"
	"github.com/pthm-cable/ballast/dynamics"
)

const solverEpsilon = 1e-9

// solveVelocities runs the sequential-impulse pass over all manifolds,
// iterated VelocityIterations times. Trigger pairs receive no response;
// they only feed event bookkeeping later in the step.
func (w *World) solveVelocities(dt float64) {
	gravityDelta := w.Settings.Gravity.Mul(dt)
	for i := range w.manifolds {
		m := &w.manifolds[i]
		if m.ColliderA.IsTrigger || m.ColliderB.IsTrigger {
			continue
		}
		if restingContact(m, gravityDelta) {
			m.Restitution = 0
		}
	}

	for iter := 0; iter < w.Settings.VelocityIterations; iter++ {
		for i := range w.manifolds {
			m := &w.manifolds[i]
			if m.ColliderA.IsTrigger || m.ColliderB.IsTrigger {
				continue
			}
			solveManifoldVelocity(m)
		}
	}
}

// restingContact reports whether a pair is only moving because gravity
// pushed it this step: the relative contact velocity is within the
// per-step gravity delta. Bouncing that velocity back with restitution
// would re-inject the same energy every frame and keep a resting body
// jittering above the sleep threshold forever, so such manifolds are
// solved with restitution zero.
func restingContact(m *collision.Manifold, gravityDelta mgl64.Vec3) bool {
	threshold := gravityDelta.LenSqr() + solverEpsilon
	for _, contact := range m.Contacts {
		p := contact.PointA.Add(contact.PointB).Mul(0.5)
		relVel := m.BodyB.GetVelocityAtPoint(p).Sub(m.BodyA.GetVelocityAtPoint(p))
		if relVel.LenSqr() < threshold {
			return true
		}
	}
	return false
}

// solveManifoldVelocity resolves one manifold's contacts: a normal impulse
// with restitution, then a friction impulse clamped to the Coulomb cone.
func solveManifoldVelocity(m *collision.Manifold) {
	a, b := m.BodyA, m.BodyB

	for _, contact := range m.Contacts {
		n := contact.Normal
		p := contact.PointA.Add(contact.PointB).Mul(0.5)
		rA := p.Sub(a.Position)
		rB := p.Sub(b.Position)

		// Relative velocity at the contact point, angular part included.
		relVel := b.GetVelocityAtPoint(p).Sub(a.GetVelocityAtPoint(p))
		closing := relVel.Dot(n)
		if closing > 0 {
			continue // already separating
		}

		invMassSum := effectiveMass(a, b, rA, rB, n)
		if invMassSum < solverEpsilon {
			continue
		}

		j := -(1 + m.Restitution) * closing / invMassSum
		applyContactImpulse(a, b, rA, rB, n.Mul(j))

		// Friction uses the velocity residual after the normal impulse.
		relVel = b.GetVelocityAtPoint(p).Sub(a.GetVelocityAtPoint(p))
		tangentVel := relVel.Sub(n.Mul(relVel.Dot(n)))
		tangentSpeed := tangentVel.Len()
		if tangentSpeed < solverEpsilon {
			continue
		}
		tangent := tangentVel.Mul(1 / tangentSpeed)

		invMassTangent := effectiveMass(a, b, rA, rB, tangent)
		if invMassTangent < solverEpsilon {
			continue
		}
		jt := -tangentSpeed / invMassTangent

		// Coulomb cone: |jt| <= j * mu.
		maxFriction := j * m.Friction
		jt = clampAbs(jt, maxFriction)
		applyContactImpulse(a, b, rA, rB, tangent.Mul(jt))
	}
}

// effectiveMass is the inverse-mass sum seen by an impulse along dir at the
// given lever arms: invMA + invMB + ((rA x d) * invIA) . (rA x d) + the
// same term for B.
func effectiveMass(a, b *dynamics.RigidBody, rA, rB, dir mgl64.Vec3) float64 {
	rAxD := rA.Cross(dir)
	rBxD := rB.Cross(dir)
	angA := mulVec(rAxD, a.InverseInertia).Dot(rAxD)
	angB := mulVec(rBxD, b.InverseInertia).Dot(rBxD)
	return a.InverseMass + b.InverseMass + angA + angB
}

// applyContactImpulse applies +impulse to B and -impulse to A, linear and
// angular. Inverse mass and inertia are zero for non-Dynamic bodies, which
// keeps them immovable without a type check.
func applyContactImpulse(a, b *dynamics.RigidBody, rA, rB, impulse mgl64.Vec3) {
	a.LinearVelocity = a.LinearVelocity.Sub(impulse.Mul(a.InverseMass))
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(b.InverseMass))
	a.AngularVelocity = a.AngularVelocity.Sub(mulVec(rA.Cross(impulse), a.InverseInertia))
	b.AngularVelocity = b.AngularVelocity.Add(mulVec(rB.Cross(impulse), b.InverseInertia))
}

// solvePositions runs the Baumgarte-style positional correction over all
// non-trigger manifolds, iterated PositionIterations times. Only the
// penetration beyond the allowed slop is corrected, a configured fraction
// per pass, split between Dynamic bodies by inverse mass. Residual depths
// are tracked in a local ledger; the manifolds keep the measured
// penetration for the event payloads fired later in the step.
func (w *World) solvePositions() {
	slop := w.Settings.AllowedPenetration
	scale := w.Settings.BaumgarteScale

	depths := make([][]float64, len(w.manifolds))
	for i := range w.manifolds {
		m := &w.manifolds[i]
		d := make([]float64, len(m.Contacts))
		for ci := range m.Contacts {
			d[ci] = m.Contacts[ci].Depth
		}
		depths[i] = d
	}

	for iter := 0; iter < w.Settings.PositionIterations; iter++ {
		for i := range w.manifolds {
			m := &w.manifolds[i]
			if m.ColliderA.IsTrigger || m.ColliderB.IsTrigger {
				continue
			}
			a, b := m.BodyA, m.BodyB
			invMassSum := a.InverseMass + b.InverseMass
			if invMassSum < solverEpsilon {
				continue
			}

			for ci := range m.Contacts {
				depth := depths[i][ci]
				if depth <= slop {
					continue
				}
				corr := m.Contacts[ci].Normal.Mul((depth - slop) * scale / invMassSum)
				if a.Type == dynamics.Dynamic {
					a.Position = a.Position.Sub(corr.Mul(a.InverseMass))
				}
				if b.Type == dynamics.Dynamic {
					b.Position = b.Position.Add(corr.Mul(b.InverseMass))
				}
				// Track the applied share so later passes converge instead
				// of re-correcting the full depth.
				depths[i][ci] = depth - (depth-slop)*scale
			}
		}
	}
}

func clampAbs(v, limit float64) float64 {
	limit = math.Abs(limit)
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
