package world

import (
	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/collision"
	"github.com/pthm-cable/ballast/dynamics"
)

// pairKey is the canonical unordered key for a collider pair: the lower
// stable collider id first. Ids are world-assigned and never reused, so
// keys survive swap-remove of the underlying slots.
type pairKey struct {
	a, b uint64
}

func makePairKey(ia, ib uint64) pairKey {
	if ia > ib {
		ia, ib = ib, ia
	}
	return pairKey{a: ia, b: ib}
}

// candidatePair is a broadphase survivor handed to the narrowphase.
type candidatePair struct {
	key pairKey
	a   *collider.Collider
	b   *collider.Collider
}

// pairState is the cross-frame record of one touching pair. Exit events are
// fired from this snapshot, never from live world slots, so a pair whose
// colliders were removed is pruned instead of dereferenced.
type pairState struct {
	colliderA *collider.Collider
	colliderB *collider.Collider
	manifold  collision.Manifold
	trigger   bool
}

// broadphase runs the exhaustive O(n^2) AABB pass over all registered
// colliders. A pair survives only if the colliders belong to different
// bodies, at least one body is Dynamic, the layer masks intersect in at
// least one direction, and the world AABBs overlap.
func (w *World) broadphase() {
	w.candidates = w.candidates[:0]

	n := len(w.colliders)
	if n < 2 {
		return
	}

	// AABBs are recomputed from scratch each step, never persisted.
	boxes := make([]collider.AABB, n)
	for i, c := range w.colliders {
		boxes[i] = c.AABB()
	}

	for i := 0; i < n; i++ {
		ca := w.colliders[i]
		ba := ca.Body
		for j := i + 1; j < n; j++ {
			cb := w.colliders[j]
			bb := cb.Body

			if ba == bb {
				continue
			}
			if ba.Type != dynamics.Dynamic && bb.Type != dynamics.Dynamic {
				continue
			}
			if ba.Layer&bb.Mask == 0 && bb.Layer&ba.Mask == 0 {
				continue
			}
			if !boxes[i].Overlaps(boxes[j]) {
				continue
			}
			w.candidates = append(w.candidates, candidatePair{
				key: makePairKey(w.colliderIDs[ca], w.colliderIDs[cb]),
				a:   ca,
				b:   cb,
			})
		}
	}
}

// narrowphase runs the exact shape tests on broadphase survivors and builds
// this frame's pair set. Manifolds without contact points are dropped here,
// before the solver ever sees them.
func (w *World) narrowphase() map[pairKey]*pairState {
	w.manifolds = w.manifolds[:0]
	current := make(map[pairKey]*pairState, len(w.candidates))

	for _, cand := range w.candidates {
		if _, seen := current[cand.key]; seen {
			continue
		}
		m, ok := collision.Collide(cand.a, cand.b)
		if !ok {
			continue
		}
		w.manifolds = append(w.manifolds, m)
		current[cand.key] = &pairState{
			colliderA: cand.a,
			colliderB: cand.b,
			manifold:  m,
			trigger:   cand.a.IsTrigger || cand.b.IsTrigger,
		}
	}
	return current
}
