package gjk

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zdcgit/fcl/shape"
)

// MinkowskiDiff presents two posed convex shapes as a single virtual convex
// body, the configuration-space obstacle (CSO): the set of all points
// (a - b) with a in shape A and b in shape B. The two shapes overlap exactly
// when the CSO contains the origin.
//
// All queries are answered in shape A's local frame. Shape B's support is
// obtained by rotating the direction into B's frame, querying B, and mapping
// the result back through B's pose relative to A. The adapter is a pure
// query; it caches nothing and has no side effects.
type MinkowskiDiff struct {
	Shape0 shape.ShapeInterface
	Shape1 shape.ShapeInterface

	// ToShape1 rotates a direction from shape A's frame into shape B's frame.
	ToShape1 mgl64.Quat
	// ToShape0 is shape B's pose expressed in shape A's frame.
	ToShape0 shape.Transform
}

// NewMinkowskiDiff builds the adapter for two shapes and their world poses.
func NewMinkowskiDiff(s0 shape.ShapeInterface, tf0 shape.Transform, s1 shape.ShapeInterface, tf1 shape.Transform) MinkowskiDiff {
	return MinkowskiDiff{
		Shape0:   s0,
		Shape1:   s1,
		ToShape1: tf1.Rotation.Inverse().Mul(tf0.Rotation).Normalize(),
		ToShape0: tf0.InverseTimes(tf1),
	}
}

// Support0 is shape A's support point along d, in A's frame.
func (m MinkowskiDiff) Support0(d mgl64.Vec3) mgl64.Vec3 {
	return m.Shape0.Support(d)
}

// Support1 is shape B's support point along d (d given in A's frame),
// mapped back into A's frame.
func (m MinkowskiDiff) Support1(d mgl64.Vec3) mgl64.Vec3 {
	return m.ToShape0.Apply(m.Shape1.Support(m.ToShape1.Rotate(d)))
}

// Support is the CSO support point along d:
//
//	farthest point of A along d  -  farthest point of B along -d
//
// This single query is all GJK and EPA ever need from the shapes.
func (m MinkowskiDiff) Support(d mgl64.Vec3) mgl64.Vec3 {
	return m.Support0(d).Sub(m.Support1(d.Mul(-1)))
}
