// Package world owns all rigid bodies and colliders and runs the fixed
// ten-phase simulation step: gravity, velocity integration, broadphase,
// narrowphase, the velocity and position solvers, event bookkeeping, sleep
// management, and force clearing. It also answers ray and overlap queries.
package world

import (
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/collision"
	"github.com/pthm-cable/ballast/dynamics"
)

// StepObserver receives per-phase timings from Step. The telemetry package
// provides an implementation; a nil observer costs nothing.
type StepObserver interface {
	BeginStep()
	Phase(name string, d time.Duration)
	EndStep(total time.Duration)
}

// World is the single owner of simulation state. All mutation happens
// inside Step, which is synchronous and single-threaded; external callers
// refer to bodies through entity ids, never slot indices, because slots are
// reclaimed by swap-remove when a body is destroyed.
type World struct {
	Settings *Settings

	// Events holds the collision and trigger hooks fired during Step.
	Events Events

	bodies    []*dynamics.RigidBody
	bodySlots map[ecs.Entity]int

	colliders   []*collider.Collider
	colliderIDs map[*collider.Collider]uint64
	nextID      uint64

	// Previous frame's surviving pair set, diffed each step for
	// enter/stay/exit events. Keyed by stable collider ids rather than slot
	// indices so removals cannot resurrect stale slots.
	pairs map[pairKey]*pairState

	// Scratch buffers reused across steps.
	candidates []candidatePair
	manifolds  []collision.Manifold

	log      *slog.Logger
	observer StepObserver
}

// NewWorld creates an empty world. A nil settings uses DefaultSettings.
func NewWorld(settings *Settings) *World {
	if settings == nil {
		settings = DefaultSettings()
	}
	return &World{
		Settings:    settings,
		bodySlots:   make(map[ecs.Entity]int),
		colliderIDs: make(map[*collider.Collider]uint64),
		pairs:       make(map[pairKey]*pairState),
		log:         slog.Default(),
	}
}

// SetLogger injects the logger used for warnings, so tests can assert on
// warning conditions instead of scraping console output.
func (w *World) SetLogger(log *slog.Logger) {
	if log != nil {
		w.log = log
	}
}

// SetObserver installs a step-timing observer (nil to remove).
func (w *World) SetObserver(o StepObserver) { w.observer = o }

// AddBody registers a body under its entity id. Registering a second body
// for an entity that already has one logs a warning and is ignored; the
// existing body is kept. Sleep tuning is copied from the world settings.
func (w *World) AddBody(b *dynamics.RigidBody) *dynamics.RigidBody {
	if slot, ok := w.bodySlots[b.Entity]; ok {
		w.log.Warn("duplicate body registration ignored",
			"entity", b.Entity, "type", b.Type.String())
		return w.bodies[slot]
	}
	b.SleepVelocityThreshold = w.Settings.SleepVelocityThreshold
	b.SleepTime = w.Settings.SleepTime
	w.bodySlots[b.Entity] = len(w.bodies)
	w.bodies = append(w.bodies, b)
	return b
}

// Body returns the body registered for an entity, or nil.
func (w *World) Body(entity ecs.Entity) *dynamics.RigidBody {
	if slot, ok := w.bodySlots[entity]; ok {
		return w.bodies[slot]
	}
	return nil
}

// RemoveBody unregisters an entity's body and detaches its colliders. The
// body slot is reclaimed by swap-remove. Collision pairs referencing the
// detached colliders are pruned without firing exit events.
func (w *World) RemoveBody(entity ecs.Entity) {
	slot, ok := w.bodySlots[entity]
	if !ok {
		return
	}
	body := w.bodies[slot]

	for i := len(w.colliders) - 1; i >= 0; i-- {
		if w.colliders[i].Body == body {
			w.removeColliderAt(i)
		}
	}

	last := len(w.bodies) - 1
	w.bodies[slot] = w.bodies[last]
	w.bodies[last] = nil
	w.bodies = w.bodies[:last]
	delete(w.bodySlots, entity)
	if slot < last {
		w.bodySlots[w.bodies[slot].Entity] = slot
	}
}

// AddCollider attaches a collider to an entity's registered body. Without a
// registered body the collider is rejected with a warning.
func (w *World) AddCollider(entity ecs.Entity, c *collider.Collider) *collider.Collider {
	body := w.Body(entity)
	if body == nil {
		w.log.Warn("collider for unregistered entity ignored", "entity", entity)
		return nil
	}
	c.Body = body
	w.nextID++
	w.colliderIDs[c] = w.nextID
	w.colliders = append(w.colliders, c)
	return c
}

// RemoveCollider detaches a single collider from the world.
func (w *World) RemoveCollider(c *collider.Collider) {
	for i, other := range w.colliders {
		if other == c {
			w.removeColliderAt(i)
			return
		}
	}
}

func (w *World) removeColliderAt(i int) {
	c := w.colliders[i]
	id := w.colliderIDs[c]
	for key := range w.pairs {
		if key.a == id || key.b == id {
			delete(w.pairs, key)
		}
	}
	delete(w.colliderIDs, c)
	c.Body = nil

	last := len(w.colliders) - 1
	w.colliders[i] = w.colliders[last]
	w.colliders[last] = nil
	w.colliders = w.colliders[:last]
}

// BodyCount returns the number of registered bodies.
func (w *World) BodyCount() int { return len(w.bodies) }

// ColliderCount returns the number of registered colliders.
func (w *World) ColliderCount() int { return len(w.colliders) }

// Bodies calls fn for every registered body. Do not add or remove bodies
// from within fn.
func (w *World) Bodies(fn func(*dynamics.RigidBody)) {
	for _, b := range w.bodies {
		fn(b)
	}
}

// Colliders calls fn for every registered collider. Do not add or remove
// colliders from within fn.
func (w *World) Colliders(fn func(*collider.Collider)) {
	for _, c := range w.colliders {
		fn(c)
	}
}

// KineticEnergies appends every body's kinetic energy to dst, for telemetry
// sampling.
func (w *World) KineticEnergies(dst []float64) []float64 {
	for _, b := range w.bodies {
		dst = append(dst, b.KineticEnergy())
	}
	return dst
}
