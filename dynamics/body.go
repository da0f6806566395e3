// Package dynamics holds per-body simulation state: transforms, velocities,
// mass properties, the force and impulse API, and sleep management.
package dynamics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"
)

// BodyType determines how a body participates in the simulation.
type BodyType uint8

const (
	// Dynamic bodies are fully simulated: forces, impulses, gravity.
	Dynamic BodyType = iota
	// Kinematic bodies move by externally set velocity or transform and are
	// immovable by impulses.
	Kinematic
	// Static bodies never move.
	Static
)

// String returns the body type name.
func (t BodyType) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	}
	return "unknown"
}

// FreezeFlags selects per-axis degrees of freedom to lock. Frozen axes have
// their velocity component zeroed every step.
type FreezeFlags uint8

const (
	FreezePositionX FreezeFlags = 1 << iota
	FreezePositionY
	FreezePositionZ
	FreezeRotationX
	FreezeRotationY
	FreezeRotationZ

	FreezePosition = FreezePositionX | FreezePositionY | FreezePositionZ
	FreezeRotation = FreezeRotationX | FreezeRotationY | FreezeRotationZ
)

// Has reports whether all bits in mask are set.
func (f FreezeFlags) Has(mask FreezeFlags) bool { return f&mask == mask }

// RigidBody is the dynamic state for one simulated entity. Bodies are
// created and owned by the world; external code refers to them through the
// owning entity id.
type RigidBody struct {
	Entity ecs.Entity
	Type   BodyType

	Position mgl64.Vec3
	Rotation mgl64.Quat

	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3

	// Accumulated per step, cleared by the world every Step.
	Force  mgl64.Vec3
	Torque mgl64.Vec3

	Mass        float64
	InverseMass float64

	// Diagonal inertia in body space and its inverse. Zero inverse for
	// non-Dynamic bodies, like InverseMass.
	Inertia        mgl64.Vec3
	InverseInertia mgl64.Vec3

	Restitution    float64
	Friction       float64
	LinearDamping  float64
	AngularDamping float64

	UseGravity bool
	Freeze     FreezeFlags

	// Layer is the bit this body occupies; Mask selects which layers it
	// collides with.
	Layer uint32
	Mask  uint32

	// Sleep parameters, set from world settings at registration.
	SleepVelocityThreshold float64
	SleepTime              float64

	awake      bool
	sleepTimer float64
}

// NewBody returns a Dynamic body of the given mass at the origin, awake,
// with unit material coefficients and gravity enabled.
func NewBody(entity ecs.Entity, mass float64) *RigidBody {
	b := &RigidBody{
		Entity:                 entity,
		Type:                   Dynamic,
		Rotation:               mgl64.QuatIdent(),
		Mass:                   mass,
		Inertia:                mgl64.Vec3{1, 1, 1},
		Restitution:            0.2,
		Friction:               0.5,
		UseGravity:             true,
		Layer:                  1,
		Mask:                   ^uint32(0),
		SleepVelocityThreshold: 0.1,
		SleepTime:              0.5,
		awake:                  true,
	}
	b.refreshMassProperties()
	return b
}

// refreshMassProperties derives the inverse mass and inertia. Non-Dynamic
// bodies always get zero inverses, independent of the stored values; that is
// what makes Static and Kinematic bodies immovable by impulses.
func (b *RigidBody) refreshMassProperties() {
	if b.Type != Dynamic || b.Mass <= 0 {
		b.InverseMass = 0
		b.InverseInertia = mgl64.Vec3{}
		return
	}
	b.InverseMass = 1 / b.Mass
	for i := 0; i < 3; i++ {
		if b.Inertia[i] > 0 {
			b.InverseInertia[i] = 1 / b.Inertia[i]
		} else {
			b.InverseInertia[i] = 0
		}
	}
}

// SetType changes the body type and rederives the inverse mass properties.
func (b *RigidBody) SetType(t BodyType) {
	b.Type = t
	b.refreshMassProperties()
}

// SetMass stores the mass and rederives the inverse mass properties.
func (b *RigidBody) SetMass(mass float64) {
	b.Mass = mass
	b.refreshMassProperties()
}

// SetInertia stores the diagonal inertia and rederives the inverses.
func (b *RigidBody) SetInertia(inertia mgl64.Vec3) {
	b.Inertia = inertia
	b.refreshMassProperties()
}

// CalculateBoxInertia sets the inertia of a solid box with the given half
// extents: I_x = m/12 * 4*(h_y^2 + h_z^2), cyclically for the other axes.
// Returns the computed tensor diagonal.
func (b *RigidBody) CalculateBoxInertia(halfExtents mgl64.Vec3) mgl64.Vec3 {
	x2 := halfExtents[0] * halfExtents[0] * 4
	y2 := halfExtents[1] * halfExtents[1] * 4
	z2 := halfExtents[2] * halfExtents[2] * 4
	k := b.Mass / 12
	inertia := mgl64.Vec3{k * (y2 + z2), k * (x2 + z2), k * (x2 + y2)}
	b.SetInertia(inertia)
	return inertia
}

// CalculateSphereInertia sets the inertia of a solid sphere:
// I = 0.4*m*r^2 on all three axes. Returns the computed tensor diagonal.
func (b *RigidBody) CalculateSphereInertia(radius float64) mgl64.Vec3 {
	i := 0.4 * b.Mass * radius * radius
	inertia := mgl64.Vec3{i, i, i}
	b.SetInertia(inertia)
	return inertia
}

// ApplyForce accumulates a force through the center of mass. No-op on
// non-Dynamic bodies.
func (b *RigidBody) ApplyForce(f mgl64.Vec3) {
	if b.Type != Dynamic {
		return
	}
	b.Force = b.Force.Add(f)
	b.Wake()
}

// ApplyForceAtPosition accumulates a force applied at a world point,
// contributing torque about the center of mass.
func (b *RigidBody) ApplyForceAtPosition(f, worldPos mgl64.Vec3) {
	if b.Type != Dynamic {
		return
	}
	b.Force = b.Force.Add(f)
	r := worldPos.Sub(b.Position)
	b.Torque = b.Torque.Add(r.Cross(f))
	b.Wake()
}

// ApplyTorque accumulates a pure torque.
func (b *RigidBody) ApplyTorque(t mgl64.Vec3) {
	if b.Type != Dynamic {
		return
	}
	b.Torque = b.Torque.Add(t)
	b.Wake()
}

// ApplyImpulse immediately changes linear velocity by j * inverseMass.
func (b *RigidBody) ApplyImpulse(j mgl64.Vec3) {
	if b.Type != Dynamic {
		return
	}
	b.LinearVelocity = b.LinearVelocity.Add(j.Mul(b.InverseMass))
	b.Wake()
}

// ApplyImpulseAtPosition applies an impulse at a world point, changing both
// linear and angular velocity.
func (b *RigidBody) ApplyImpulseAtPosition(j, worldPos mgl64.Vec3) {
	if b.Type != Dynamic {
		return
	}
	b.LinearVelocity = b.LinearVelocity.Add(j.Mul(b.InverseMass))
	r := worldPos.Sub(b.Position)
	b.AngularVelocity = b.AngularVelocity.Add(mulComponents(r.Cross(j), b.InverseInertia))
	b.Wake()
}

// ApplyAngularImpulse immediately changes angular velocity by
// j * inverseInertia.
func (b *RigidBody) ApplyAngularImpulse(j mgl64.Vec3) {
	if b.Type != Dynamic {
		return
	}
	b.AngularVelocity = b.AngularVelocity.Add(mulComponents(j, b.InverseInertia))
	b.Wake()
}

// Wake marks the body awake and resets the sleep timer. Safe on any body
// type.
func (b *RigidBody) Wake() {
	b.awake = true
	b.sleepTimer = 0
}

// IsAwake reports whether the body is simulated this step. Non-Dynamic
// bodies are always reported asleep; they have no sleep state of their own.
func (b *RigidBody) IsAwake() bool {
	return b.Type == Dynamic && b.awake
}

// UpdateSleep accumulates low-motion time and puts the body to sleep once
// motion stays below the velocity threshold for SleepTime continuous
// seconds. Any motion above the threshold resets the timer.
func (b *RigidBody) UpdateSleep(dt float64) {
	if b.Type != Dynamic {
		return
	}
	motion := b.LinearVelocity.LenSqr() + b.AngularVelocity.LenSqr()
	threshold := b.SleepVelocityThreshold * b.SleepVelocityThreshold
	if motion < threshold {
		b.sleepTimer += dt
		if b.sleepTimer >= b.SleepTime {
			b.awake = false
			b.LinearVelocity = mgl64.Vec3{}
			b.AngularVelocity = mgl64.Vec3{}
		}
		return
	}
	b.sleepTimer = 0
	b.awake = true
}

// ClearForces zeroes the force and torque accumulators. Called once per
// step regardless of sleep state.
func (b *RigidBody) ClearForces() {
	b.Force = mgl64.Vec3{}
	b.Torque = mgl64.Vec3{}
}

// ApplyConstraints zeroes every velocity component whose freeze flag is set.
func (b *RigidBody) ApplyConstraints() {
	for i := 0; i < 3; i++ {
		if b.Freeze.Has(FreezePositionX << i) {
			b.LinearVelocity[i] = 0
		}
		if b.Freeze.Has(FreezeRotationX << i) {
			b.AngularVelocity[i] = 0
		}
	}
}

// GetVelocityAtPoint returns the world-space velocity of a point rigidly
// attached to the body: v + w x (p - position).
func (b *RigidBody) GetVelocityAtPoint(worldPoint mgl64.Vec3) mgl64.Vec3 {
	r := worldPoint.Sub(b.Position)
	return b.LinearVelocity.Add(b.AngularVelocity.Cross(r))
}

// KineticEnergy is the body's current kinetic energy, linear plus angular.
func (b *RigidBody) KineticEnergy() float64 {
	lin := 0.5 * b.Mass * b.LinearVelocity.LenSqr()
	w := b.AngularVelocity
	ang := 0.5 * (b.Inertia[0]*w[0]*w[0] + b.Inertia[1]*w[1]*w[1] + b.Inertia[2]*w[2]*w[2])
	return lin + ang
}

// mulComponents multiplies two vectors component-wise. Used to apply a
// diagonal inverse inertia tensor.
func mulComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
