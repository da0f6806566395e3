package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/dynamics"
)

func TestStepNonPositiveDt(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 10, 0}, 0.5, dynamics.Dynamic)
	b.LinearVelocity = mgl64.Vec3{1, 0, 0}

	w.Step(0)
	w.Step(-0.1)

	if b.Position != (mgl64.Vec3{0, 10, 0}) {
		t.Errorf("position moved on non-positive dt: %v", b.Position)
	}
	if b.LinearVelocity != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("velocity changed on non-positive dt: %v", b.LinearVelocity)
	}
}

func TestGravityIntegration(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 100, 0}, 0.5, dynamics.Dynamic)

	const dt = 1.0 / 60
	w.Step(dt)

	// Semi-implicit Euler: velocity first, then position with the new
	// velocity.
	wantV := -9.81 * dt
	wantY := 100 + wantV*dt
	if math.Abs(b.LinearVelocity[1]-wantV) > 1e-12 {
		t.Errorf("velocity y = %v, want %v", b.LinearVelocity[1], wantV)
	}
	if math.Abs(b.Position[1]-wantY) > 1e-12 {
		t.Errorf("position y = %v, want %v", b.Position[1], wantY)
	}
	if b.Force != (mgl64.Vec3{}) {
		t.Errorf("force not cleared after step: %v", b.Force)
	}
}

func TestGravityDisabled(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 100, 0}, 0.5, dynamics.Dynamic)
	b.UseGravity = false

	w.Step(1.0 / 60)
	if b.LinearVelocity != (mgl64.Vec3{}) {
		t.Errorf("gravity applied to UseGravity=false body: %v", b.LinearVelocity)
	}
}

func TestKinematicIntegration(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 5, 0}, 0.5, dynamics.Kinematic)
	b.LinearVelocity = mgl64.Vec3{2, 0, 0}

	w.Step(0.5)

	// Kinematic bodies ignore gravity but move by their set velocity.
	if b.Position.Sub(mgl64.Vec3{1, 5, 0}).Len() > 1e-12 {
		t.Errorf("position = %v, want (1,5,0)", b.Position)
	}
	if b.LinearVelocity != (mgl64.Vec3{2, 0, 0}) {
		t.Errorf("kinematic velocity changed: %v", b.LinearVelocity)
	}
}

func TestStaticNeverMoves(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 5, 0}, 0.5, dynamics.Static)
	b.LinearVelocity = mgl64.Vec3{2, 0, 0}

	w.Step(0.5)
	if b.Position != (mgl64.Vec3{0, 5, 0}) {
		t.Errorf("static body moved: %v", b.Position)
	}
}

func TestFreezePositionAxis(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 10, 0}, 0.5, dynamics.Dynamic)
	b.Freeze = dynamics.FreezePositionY
	b.LinearVelocity = mgl64.Vec3{1, 0, 0}

	for i := 0; i < 10; i++ {
		w.Step(1.0 / 60)
	}

	if b.Position[1] != 10 {
		t.Errorf("frozen Y moved to %v", b.Position[1])
	}
	if b.Position[0] <= 0 {
		t.Errorf("unfrozen X did not advance: %v", b.Position[0])
	}
}

func TestAngularIntegration(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{}, 0.5, dynamics.Dynamic)
	b.UseGravity = false
	b.AngularVelocity = mgl64.Vec3{0, 1, 0}

	// Many small steps approximate a rotation of ~1 radian about Y.
	const dt = 1.0 / 600
	for i := 0; i < 600; i++ {
		w.Step(dt)
	}

	rotated := b.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{math.Cos(1), 0, -math.Sin(1)}
	if rotated.Sub(want).Len() > 1e-2 {
		t.Errorf("rotated X axis = %v, want ~%v", rotated, want)
	}
	if math.Abs(b.Rotation.Len()-1) > 1e-9 {
		t.Errorf("rotation drifted off unit length: %v", b.Rotation.Len())
	}
}

func TestSleepAndWakeCycle(t *testing.T) {
	w := quietWorld()
	ew := ecs.NewWorld()
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{}, 0.5, dynamics.Dynamic)

	const dt = 1.0 / 60
	steps := int(w.Settings.SleepTime/dt) + 2
	for i := 0; i < steps; i++ {
		w.Step(dt)
	}
	if b.IsAwake() {
		t.Fatal("motionless body never slept")
	}

	// A sleeping body ignores gravity until something wakes it.
	w.Settings.Gravity = mgl64.Vec3{0, -9.81, 0}
	w.Step(dt)
	if b.Position != (mgl64.Vec3{}) {
		t.Errorf("sleeping body moved: %v", b.Position)
	}

	b.ApplyImpulse(mgl64.Vec3{1, 0, 0})
	if !b.IsAwake() {
		t.Fatal("impulse did not wake the body")
	}
	w.Step(dt)
	if b.Position[0] <= 0 {
		t.Error("woken body did not move")
	}
}

// TestSphereDropSettles runs the canonical end-to-end scenario: a unit-ish
// sphere dropped onto a static ground plane must come to rest on the
// surface, within the allowed penetration slop, and fall asleep.
func TestSphereDropSettles(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()

	ground := dynamics.NewBody(ew.NewEntity(), 0)
	ground.SetType(dynamics.Static)
	w.AddBody(ground)
	w.AddCollider(ground.Entity, &collider.Collider{
		Shape: collider.Plane{Normal: mgl64.Vec3{0, 1, 0}},
	})

	sphere := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 2, 0}, 0.5, dynamics.Dynamic)
	sphere.CalculateSphereInertia(0.5)

	const dt = 1.0 / 60
	for i := 0; i < 300; i++ {
		w.Step(dt)
	}

	restY := 0.5
	if err := math.Abs(sphere.Position[1] - restY); err > w.Settings.AllowedPenetration*1.5 {
		t.Errorf("settled height = %v, want within slop of %v (err %v)",
			sphere.Position[1], restY, err)
	}
	if sphere.IsAwake() {
		t.Error("settled sphere never slept")
	}
	if sphere.LinearVelocity.Len() > 1e-9 {
		t.Errorf("settled sphere still moving: %v", sphere.LinearVelocity)
	}

	// More steps at rest add no energy.
	before := sphere.Position
	for i := 0; i < 60; i++ {
		w.Step(dt)
	}
	if sphere.Position.Sub(before).Len() > w.Settings.AllowedPenetration {
		t.Errorf("resting sphere drifted from %v to %v", before, sphere.Position)
	}
}

// A body sitting on the ground gains only the per-step gravity kick as
// contact velocity. That velocity must be absorbed, not bounced: with the
// default nonzero restitution the bounce-back would reset the sleep timer
// every frame and the body would jitter forever.
func TestRestingContactAbsorbsGravityKick(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()

	ground := dynamics.NewBody(ew.NewEntity(), 0)
	ground.SetType(dynamics.Static)
	w.AddBody(ground)
	w.AddCollider(ground.Entity, &collider.Collider{
		Shape: collider.Plane{Normal: mgl64.Vec3{0, 1, 0}},
	})

	sphere := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 0.5, 0}, 0.5, dynamics.Dynamic)
	sphere.CalculateSphereInertia(0.5)
	if sphere.Restitution == 0 {
		t.Fatal("test needs the default nonzero restitution")
	}

	const dt = 1.0 / 60
	for i := 0; i < 120; i++ {
		w.Step(dt)
	}

	if sphere.IsAwake() {
		t.Errorf("resting sphere never slept, v = %v", sphere.LinearVelocity)
	}
	if sphere.LinearVelocity.Len() > 1e-9 {
		t.Errorf("resting sphere still moving: %v", sphere.LinearVelocity)
	}
}

func TestBouncySphereRebounds(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()

	ground := dynamics.NewBody(ew.NewEntity(), 0)
	ground.SetType(dynamics.Static)
	w.AddBody(ground)
	w.AddCollider(ground.Entity, &collider.Collider{
		Shape: collider.Plane{Normal: mgl64.Vec3{0, 1, 0}},
	})

	sphere := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 2, 0}, 0.5, dynamics.Dynamic)
	sphere.Restitution = 1
	sphere.CalculateSphereInertia(0.5)

	// A near-elastic sphere must rebound close to its drop height.
	const dt = 1.0 / 60
	apex := 0.0
	for i := 0; i < 150; i++ {
		w.Step(dt)
		if i > 40 && sphere.Position[1] > apex {
			apex = sphere.Position[1]
		}
	}
	if apex < 1.6 || apex > 2.4 {
		t.Errorf("rebound apex = %v, want roughly the 2.0 drop height", apex)
	}
}
