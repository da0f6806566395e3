package world

import (
	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/collision"
	"github.com/pthm-cable/ballast/dynamics"
)

// Contact is the payload delivered to event hooks: the two bodies, the two
// colliders, and the manifold recorded when the pair last touched. Exit
// events carry the snapshot from the final overlapping frame.
type Contact struct {
	BodyA *dynamics.RigidBody
	BodyB *dynamics.RigidBody

	ColliderA *collider.Collider
	ColliderB *collider.Collider

	Manifold *collision.Manifold
}

// Events holds the optional collision and trigger hooks. Nil hooks are
// skipped. A pair fires trigger events instead of collision events when
// either of its colliders is flagged as a trigger.
type Events struct {
	CollisionEnter func(Contact)
	CollisionStay  func(Contact)
	CollisionExit  func(Contact)

	TriggerEnter func(Contact)
	TriggerExit  func(Contact)
}

// fireEvents diffs this frame's surviving pair set against the previous
// frame's: pairs newly present fire Enter, pairs present in both fire Stay,
// pairs no longer present fire Exit. Enter and Exit never fire for the same
// pair on the same transition.
func (w *World) fireEvents(current map[pairKey]*pairState) {
	for key, st := range current {
		if _, existed := w.pairs[key]; existed {
			if !st.trigger && w.Events.CollisionStay != nil {
				w.Events.CollisionStay(st.contact())
			}
			continue
		}
		if st.trigger {
			if w.Events.TriggerEnter != nil {
				w.Events.TriggerEnter(st.contact())
			}
		} else if w.Events.CollisionEnter != nil {
			w.Events.CollisionEnter(st.contact())
		}
	}

	for key, st := range w.pairs {
		if _, alive := current[key]; alive {
			continue
		}
		if st.trigger {
			if w.Events.TriggerExit != nil {
				w.Events.TriggerExit(st.contact())
			}
		} else if w.Events.CollisionExit != nil {
			w.Events.CollisionExit(st.contact())
		}
	}

	w.pairs = current
}

// contact builds the event payload from the stored pair snapshot.
func (s *pairState) contact() Contact {
	return Contact{
		BodyA:     s.manifold.BodyA,
		BodyB:     s.manifold.BodyB,
		ColliderA: s.colliderA,
		ColliderB: s.colliderB,
		Manifold:  &s.manifold,
	}
}
