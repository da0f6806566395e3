package world

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/dynamics"
)

// addSphere registers a body with a sphere collider and returns the body.
func addSphere(w *World, entity ecs.Entity, pos mgl64.Vec3, radius float64, bt dynamics.BodyType) *dynamics.RigidBody {
	b := dynamics.NewBody(entity, 1)
	b.Position = pos
	b.SetType(bt)
	w.AddBody(b)
	w.AddCollider(entity, &collider.Collider{Shape: collider.Sphere{Radius: radius}})
	return b
}

func TestAddBodyDuplicateWarns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWorld(nil)
	w.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	ew := ecs.NewWorld()
	e := ew.NewEntity()

	first := dynamics.NewBody(e, 1)
	second := dynamics.NewBody(e, 2)
	w.AddBody(first)
	got := w.AddBody(second)

	if got != first {
		t.Error("duplicate registration did not return the existing body")
	}
	if w.BodyCount() != 1 {
		t.Errorf("BodyCount = %d, want 1", w.BodyCount())
	}
	if !strings.Contains(buf.String(), "duplicate body registration ignored") {
		t.Errorf("missing warning, log output: %q", buf.String())
	}
}

func TestAddBodyCopiesSleepSettings(t *testing.T) {
	s := DefaultSettings()
	s.SleepVelocityThreshold = 0.25
	s.SleepTime = 2
	w := NewWorld(s)

	ew := ecs.NewWorld()
	b := dynamics.NewBody(ew.NewEntity(), 1)
	w.AddBody(b)

	if b.SleepVelocityThreshold != 0.25 || b.SleepTime != 2 {
		t.Errorf("sleep settings = %v/%v, want 0.25/2",
			b.SleepVelocityThreshold, b.SleepTime)
	}
}

func TestAddColliderWithoutBodyWarns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWorld(nil)
	w.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	ew := ecs.NewWorld()
	c := w.AddCollider(ew.NewEntity(), &collider.Collider{Shape: collider.Sphere{Radius: 1}})

	if c != nil {
		t.Error("collider for unregistered entity was accepted")
	}
	if w.ColliderCount() != 0 {
		t.Errorf("ColliderCount = %d, want 0", w.ColliderCount())
	}
	if !strings.Contains(buf.String(), "collider for unregistered entity ignored") {
		t.Errorf("missing warning, log output: %q", buf.String())
	}
}

func TestRemoveBodySwapIntegrity(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	e1, e2, e3 := ew.NewEntity(), ew.NewEntity(), ew.NewEntity()

	addSphere(w, e1, mgl64.Vec3{1, 0, 0}, 0.5, dynamics.Dynamic)
	b2 := addSphere(w, e2, mgl64.Vec3{2, 0, 0}, 0.5, dynamics.Dynamic)
	b3 := addSphere(w, e3, mgl64.Vec3{3, 0, 0}, 0.5, dynamics.Dynamic)

	// Removing the first slot swaps the last body into it; lookups by entity
	// must survive the reshuffle.
	w.RemoveBody(e1)

	if w.BodyCount() != 2 || w.ColliderCount() != 2 {
		t.Fatalf("count after removal: %d bodies %d colliders, want 2/2",
			w.BodyCount(), w.ColliderCount())
	}
	if w.Body(e1) != nil {
		t.Error("removed entity still resolves to a body")
	}
	if w.Body(e2) != b2 || w.Body(e3) != b3 {
		t.Error("surviving entities resolve to the wrong bodies")
	}
}

func TestRemoveBodyDetachesColliders(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()
	e := ew.NewEntity()

	b := dynamics.NewBody(e, 1)
	w.AddBody(b)
	c1 := w.AddCollider(e, &collider.Collider{Shape: collider.Sphere{Radius: 1}})
	c2 := w.AddCollider(e, &collider.Collider{Shape: collider.Sphere{Radius: 1}, Offset: mgl64.Vec3{0, 1, 0}})

	w.RemoveBody(e)

	if w.ColliderCount() != 0 {
		t.Errorf("ColliderCount = %d, want 0", w.ColliderCount())
	}
	if c1.Body != nil || c2.Body != nil {
		t.Error("removed colliders still reference the body")
	}
}

func TestBroadphaseLayerMask(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()

	a := addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 0, 0}, 1, dynamics.Dynamic)
	b := addSphere(w, ew.NewEntity(), mgl64.Vec3{1, 0, 0}, 1, dynamics.Dynamic)

	// Disjoint layers in both directions: no candidate pair.
	a.Layer, a.Mask = 0b01, 0b01
	b.Layer, b.Mask = 0b10, 0b10
	w.broadphase()
	if len(w.candidates) != 0 {
		t.Errorf("masked-out pair produced %d candidates", len(w.candidates))
	}

	// A one-directional match is enough.
	b.Mask = 0b01
	w.broadphase()
	if len(w.candidates) != 1 {
		t.Errorf("one-directional mask produced %d candidates, want 1", len(w.candidates))
	}
}

func TestBroadphaseRejections(t *testing.T) {
	w := NewWorld(nil)
	ew := ecs.NewWorld()

	// Two static bodies never pair, even when overlapping.
	addSphere(w, ew.NewEntity(), mgl64.Vec3{0, 0, 0}, 1, dynamics.Static)
	addSphere(w, ew.NewEntity(), mgl64.Vec3{1, 0, 0}, 1, dynamics.Static)
	w.broadphase()
	if len(w.candidates) != 0 {
		t.Errorf("static pair produced %d candidates", len(w.candidates))
	}

	// AABB separation rejects before the narrowphase.
	w2 := NewWorld(nil)
	addSphere(w2, ew.NewEntity(), mgl64.Vec3{0, 0, 0}, 1, dynamics.Dynamic)
	addSphere(w2, ew.NewEntity(), mgl64.Vec3{10, 0, 0}, 1, dynamics.Dynamic)
	w2.broadphase()
	if len(w2.candidates) != 0 {
		t.Errorf("distant pair produced %d candidates", len(w2.candidates))
	}

	// Two colliders on the same body never pair.
	w3 := NewWorld(nil)
	e := ew.NewEntity()
	b := dynamics.NewBody(e, 1)
	w3.AddBody(b)
	w3.AddCollider(e, &collider.Collider{Shape: collider.Sphere{Radius: 1}})
	w3.AddCollider(e, &collider.Collider{Shape: collider.Sphere{Radius: 1}})
	w3.broadphase()
	if len(w3.candidates) != 0 {
		t.Errorf("same-body pair produced %d candidates", len(w3.candidates))
	}
}
