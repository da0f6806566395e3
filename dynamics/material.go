package dynamics

// Material holds surface response coefficients for a collider. Values are
// combined pairwise by the narrowphase when two colliders touch.
type Material struct {
	Restitution     float64
	StaticFriction  float64
	DynamicFriction float64
}

// DefaultMaterial is the unit material: it leaves the owning body's own
// restitution and friction coefficients unscaled.
func DefaultMaterial() Material {
	return Material{Restitution: 1, StaticFriction: 1, DynamicFriction: 1}
}
