package collider

import "github.com/go-gl/mathgl/mgl64"

// Box is an oriented box described by its half extents along each local axis.
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b Box) Type() ShapeType { return ShapeBox }

// corners returns the eight world-space corner points.
func (b Box) corners(pos mgl64.Vec3, rot mgl64.Quat) [8]mgl64.Vec3 {
	h := b.HalfExtents
	var out [8]mgl64.Vec3
	i := 0
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				local := mgl64.Vec3{sx * h[0], sy * h[1], sz * h[2]}
				out[i] = pos.Add(rot.Rotate(local))
				i++
			}
		}
	}
	return out
}

// AABB transforms all eight local corners into world space and takes min/max.
func (b Box) AABB(pos mgl64.Vec3, rot mgl64.Quat) AABB {
	c := b.corners(pos, rot)
	return AABBFromPoints(c[:]...)
}

// ClosestPoint clamps the query point in local space to the half extents.
// Points inside the box clamp to themselves.
func (b Box) ClosestPoint(pos mgl64.Vec3, rot mgl64.Quat, point mgl64.Vec3) mgl64.Vec3 {
	local := rot.Inverse().Rotate(point.Sub(pos))
	for i := 0; i < 3; i++ {
		local[i] = clamp(local[i], -b.HalfExtents[i], b.HalfExtents[i])
	}
	return pos.Add(rot.Rotate(local))
}

// Support picks the corner whose local coordinates match the sign of the
// local-space direction per axis.
func (b Box) Support(pos mgl64.Vec3, rot mgl64.Quat, dir mgl64.Vec3) mgl64.Vec3 {
	localDir := rot.Inverse().Rotate(dir)
	local := mgl64.Vec3{}
	for i := 0; i < 3; i++ {
		if localDir[i] >= 0 {
			local[i] = b.HalfExtents[i]
		} else {
			local[i] = -b.HalfExtents[i]
		}
	}
	return pos.Add(rot.Rotate(local))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
