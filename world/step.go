package world

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ballast/dynamics"
)

// Phase names, in execution order. Also used as telemetry keys.
const (
	PhaseApplyGravity      = "apply_gravity"
	PhaseIntegrateVelocity = "integrate_velocity"
	PhaseBroadphase        = "broadphase"
	PhaseNarrowphase       = "narrowphase"
	PhaseSolveVelocity     = "solve_velocity"
	PhaseIntegratePosition = "integrate_position"
	PhaseSolvePosition     = "solve_position"
	PhaseFireEvents        = "fire_events"
	PhaseUpdateSleep       = "update_sleep"
	PhaseClearForces       = "clear_forces"
)

// Step advances the simulation by dt seconds, running the ten phases in
// strict order with no internal parallelism. A non-positive dt is a no-op.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	stepStart := time.Now()
	if w.observer != nil {
		w.observer.BeginStep()
	}
	phaseStart := stepStart
	mark := func(name string) {
		if w.observer != nil {
			now := time.Now()
			w.observer.Phase(name, now.Sub(phaseStart))
			phaseStart = now
		}
	}

	w.applyGravity()
	mark(PhaseApplyGravity)

	w.integrateVelocities(dt)
	mark(PhaseIntegrateVelocity)

	w.broadphase()
	mark(PhaseBroadphase)

	current := w.narrowphase()
	mark(PhaseNarrowphase)

	w.solveVelocities(dt)
	mark(PhaseSolveVelocity)

	w.integratePositions(dt)
	mark(PhaseIntegratePosition)

	w.solvePositions()
	mark(PhaseSolvePosition)

	w.fireEvents(current)
	mark(PhaseFireEvents)

	for _, b := range w.bodies {
		b.UpdateSleep(dt)
	}
	mark(PhaseUpdateSleep)

	for _, b := range w.bodies {
		b.ClearForces()
	}
	mark(PhaseClearForces)

	if w.observer != nil {
		w.observer.EndStep(time.Since(stepStart))
	}
}

// applyGravity accumulates weight on every awake Dynamic body that has
// gravity enabled.
func (w *World) applyGravity() {
	g := w.Settings.Gravity
	for _, b := range w.bodies {
		if !b.IsAwake() || !b.UseGravity {
			continue
		}
		b.Force = b.Force.Add(g.Mul(b.Mass))
	}
}

// integrateVelocities turns accumulated forces into velocity, applies
// exponential damping, clamps to the configured maxima, and enforces the
// per-axis freeze constraints.
func (w *World) integrateVelocities(dt float64) {
	for _, b := range w.bodies {
		if b.Type != dynamics.Dynamic || !b.IsAwake() {
			continue
		}

		b.LinearVelocity = b.LinearVelocity.Add(b.Force.Mul(b.InverseMass * dt))
		b.AngularVelocity = b.AngularVelocity.Add(mulVec(b.Torque, b.InverseInertia).Mul(dt))

		if b.LinearDamping > 0 {
			b.LinearVelocity = b.LinearVelocity.Mul(math.Pow(1-b.LinearDamping, dt))
		}
		if b.AngularDamping > 0 {
			b.AngularVelocity = b.AngularVelocity.Mul(math.Pow(1-b.AngularDamping, dt))
		}

		b.LinearVelocity = clampLength(b.LinearVelocity, w.Settings.MaxLinearVelocity)
		b.AngularVelocity = clampLength(b.AngularVelocity, w.Settings.MaxAngularVelocity)

		b.ApplyConstraints()
	}
}

// integratePositions advances transforms. Rotation uses the small-angle
// quaternion update q' = normalize(q + (0, w*dt/2)*q) rather than the exact
// exponential map; the clamped angular velocity keeps per-step angles small
// enough for the approximation to hold.
func (w *World) integratePositions(dt float64) {
	for _, b := range w.bodies {
		if b.Type == dynamics.Static {
			continue
		}
		if b.Type == dynamics.Dynamic && !b.IsAwake() {
			continue
		}

		b.Position = b.Position.Add(b.LinearVelocity.Mul(dt))

		wq := mgl64.Quat{W: 0, V: b.AngularVelocity.Mul(dt * 0.5)}
		b.Rotation = quatAdd(b.Rotation, wq.Mul(b.Rotation)).Normalize()
	}
}

// quatAdd is component-wise quaternion addition.
func quatAdd(a, b mgl64.Quat) mgl64.Quat {
	return mgl64.Quat{W: a.W + b.W, V: a.V.Add(b.V)}
}

func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func clampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	if max <= 0 {
		return v
	}
	lenSq := v.LenSqr()
	if lenSq <= max*max {
		return v
	}
	return v.Mul(max / math.Sqrt(lenSq))
}
