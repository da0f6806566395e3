// Package systems contains the ECS systems bridging the entity framework
// and the physics world.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ballast/collider"
	"github.com/pthm-cable/ballast/components"
	"github.com/pthm-cable/ballast/dynamics"
	"github.com/pthm-cable/ballast/world"
)

// PhysicsSystem synchronizes entity transforms with the physics world.
// Each tick it registers new physics entities, drops dead ones, pushes
// Kinematic and Static transforms into their bodies, steps the world, and
// pulls the resulting Dynamic transforms back into components.
type PhysicsSystem struct {
	world *world.World

	filter ecs.Filter3[components.Transform, components.PhysicsBody, components.PhysicsShape]

	registered map[ecs.Entity]bool
}

// NewPhysicsSystem creates the sync system around an existing physics
// world.
func NewPhysicsSystem(w *ecs.World, pw *world.World) *PhysicsSystem {
	return &PhysicsSystem{
		world:      pw,
		filter:     *ecs.NewFilter3[components.Transform, components.PhysicsBody, components.PhysicsShape](w),
		registered: make(map[ecs.Entity]bool),
	}
}

// World returns the wrapped physics world, for queries and event hooks.
func (s *PhysicsSystem) World() *world.World { return s.world }

// Update runs one synchronized physics tick.
func (s *PhysicsSystem) Update(w *ecs.World, dt float64) {
	// Drop bodies whose entities died since last tick.
	for entity := range s.registered {
		if !w.Alive(entity) {
			s.world.RemoveBody(entity)
			delete(s.registered, entity)
		}
	}

	// Register new physics entities and push external transforms.
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		transform, bodyDesc, shapeDesc := query.Get()

		if !s.registered[entity] {
			s.register(entity, transform, bodyDesc, shapeDesc)
			continue
		}

		body := s.world.Body(entity)
		if body == nil {
			continue
		}
		// Kinematic and Static bodies are driven by their components.
		if body.Type != dynamics.Dynamic {
			body.Position = transform.Position
			body.Rotation = transform.Rotation
		}
	}

	s.world.Step(dt)

	// Pull Dynamic results back into the component store.
	query = s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		transform, _, _ := query.Get()

		body := s.world.Body(entity)
		if body == nil || body.Type != dynamics.Dynamic {
			continue
		}
		transform.Position = body.Position
		transform.Rotation = body.Rotation
	}
}

// register creates the body and collider described by an entity's
// components.
func (s *PhysicsSystem) register(entity ecs.Entity, transform *components.Transform, bodyDesc *components.PhysicsBody, shapeDesc *components.PhysicsShape) {
	body := dynamics.NewBody(entity, bodyDesc.Mass)
	body.Position = transform.Position
	body.Rotation = transform.Rotation
	body.Restitution = bodyDesc.Restitution
	body.Friction = bodyDesc.Friction
	body.LinearDamping = bodyDesc.LinearDamping
	body.AngularDamping = bodyDesc.AngularDamping
	body.UseGravity = bodyDesc.UseGravity
	body.Freeze = bodyDesc.Freeze
	if bodyDesc.Layer != 0 {
		body.Layer = bodyDesc.Layer
	}
	if bodyDesc.Mask != 0 {
		body.Mask = bodyDesc.Mask
	}
	body.SetType(bodyDesc.Type)

	// Inertia follows the collider geometry.
	switch shapeDesc.Kind {
	case collider.ShapeBox:
		body.CalculateBoxInertia(shapeDesc.HalfExtents)
	case collider.ShapeSphere, collider.ShapeCapsule:
		body.CalculateSphereInertia(shapeDesc.Radius)
	}

	s.world.AddBody(body)
	s.world.AddCollider(entity, &collider.Collider{
		Shape:     shapeDesc.Shape(),
		Offset:    shapeDesc.Offset,
		IsTrigger: shapeDesc.IsTrigger,
	})
	s.registered[entity] = true
}
