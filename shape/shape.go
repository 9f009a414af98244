// Package shape defines the support-point oracle that the collision queries
// are generic over, along with a few reference convex shapes.
//
// Any convex shape is usable by the GJK/EPA engines as long as it can answer
// a single question: "which of your points is farthest along direction d?".
// Shapes answer in their own local frame; placement in space is described
// separately by a Transform.
package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is the support oracle every convex shape must implement.
type ShapeInterface interface {
	// Support returns the point of the shape farthest along direction,
	// expressed in the shape's local frame. The direction does not need
	// to be normalized, only its orientation matters.
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// Sphere is a sphere centered on its local origin.
type Sphere struct {
	Radius float64
}

func (s Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	length := direction.Len()
	if length < 1e-12 {
		// Any boundary point is a valid support for a zero direction
		return mgl64.Vec3{s.Radius, 0, 0}
	}

	return direction.Mul(s.Radius / length)
}

// Box is an axis-aligned box in its local frame, defined by its half-extents
// (half-width, half-height, half-depth). Orientation comes from the Transform.
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// ConvexHull is the convex hull of an explicit point cloud. The points are
// assumed to already be the hull vertices; interior points are harmless but
// waste scan time.
type ConvexHull struct {
	Points []mgl64.Vec3
}

func (h ConvexHull) Support(direction mgl64.Vec3) mgl64.Vec3 {
	var best mgl64.Vec3
	bestDot := math.Inf(-1)

	for _, p := range h.Points {
		if dot := p.Dot(direction); dot > bestDot {
			bestDot = dot
			best = p
		}
	}

	return best
}
