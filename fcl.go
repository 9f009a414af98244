// Package fcl provides discrete proximity queries between pairs of convex
// shapes: the minimum separating distance when they are disjoint, and the
// penetration depth, separating normal and contact point when they overlap.
//
// The queries are generic over any shape implementing the single support
// oracle in package shape. Distance runs the GJK simplex refinement engine;
// Intersect chains it into the EPA polytope expansion engine. Every engine
// instance is local to one query, so independent queries may run concurrently
// on separate goroutines with no synchronization, as long as the shapes and
// transforms they read are not mutated during the query.
package fcl

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zdcgit/fcl/epa"
	"github.com/zdcgit/fcl/gjk"
	"github.com/zdcgit/fcl/shape"
)

// initialGuess seeds the refinement engine's first search direction. Any
// non-zero direction works; a fixed one keeps queries deterministic.
var initialGuess = mgl64.Vec3{1, 0, 0}

// Contact describes one overlap between two shapes.
type Contact struct {
	// Point is a representative contact location in world space, placed
	// midway between the two surfaces along the normal.
	Point mgl64.Vec3
	// Normal is the separating direction in world space: translating
	// shape B by Depth*Normal moves the shapes out of overlap.
	Normal mgl64.Vec3
	// Depth is the penetration depth, always >= 0.
	Depth float64
}

// Distance reports the minimum distance between two posed convex shapes.
//
// ok is false when the shapes overlap or the query is numerically
// inconclusive; in that case no separation distance exists and Intersect is
// the query to ask. An exact tangency usually lands on the overlap side of
// the classification (the refinement ray collapses onto the origin), so a
// distance of ~0 is only reported for strictly separated pairs.
func Distance(a shape.ShapeInterface, tfA shape.Transform, b shape.ShapeInterface, tfB shape.Transform) (float64, bool) {
	diff := gjk.NewMinkowskiDiff(a, tfA, b, tfB)

	solver := gjk.New()
	if solver.Evaluate(diff, initialGuess.Mul(-1)) != gjk.Valid {
		return 0, false
	}

	// Rebuild one witness point per shape from the terminal simplex: each
	// kept vertex contributes its per-shape support, weighted
	// barycentrically.
	simplex := solver.Simplex()
	var w0, w1 mgl64.Vec3
	for i := 0; i < simplex.Rank; i++ {
		p := simplex.Weights[i]
		w0 = w0.Add(diff.Support0(simplex.Verts[i].Dir).Mul(p))
		w1 = w1.Add(diff.Support1(simplex.Verts[i].Dir.Mul(-1)).Mul(p))
	}

	return w0.Sub(w1).Len(), true
}

// Intersect reports whether two posed convex shapes overlap and, when they
// do, by how much.
//
// ok is false when the shapes are disjoint, or when the expansion engine
// ends in a degeneracy status that produced no usable contact data. Pool
// exhaustion (OutOfFaces/OutOfVertices) still counts as success: the contact
// carries the best approximation found, a deliberate precision-for-
// robustness tradeoff. On deep overlaps of smooth shapes that approximation
// can be coarse in both depth and direction.
func Intersect(a shape.ShapeInterface, tfA shape.Transform, b shape.ShapeInterface, tfB shape.Transform) (Contact, bool) {
	diff := gjk.NewMinkowskiDiff(a, tfA, b, tfB)

	solver := gjk.New()
	if solver.Evaluate(diff, initialGuess.Mul(-1)) != gjk.Inside {
		return Contact{}, false
	}

	expander := epa.New()
	switch expander.Evaluate(solver, initialGuess.Mul(-1)) {
	case epa.Valid, epa.Touching, epa.AccuracyReached,
		epa.OutOfFaces, epa.OutOfVertices, epa.FallBack:
	default:
		return Contact{}, false
	}

	// Witness point on shape A's surface, in A's frame.
	var w0 mgl64.Vec3
	for i := 0; i < expander.Result.Rank; i++ {
		p := expander.Result.Weights[i]
		w0 = w0.Add(diff.Support0(expander.Result.Verts[i].Dir).Mul(p))
	}

	// Midpoint convention: step half the depth back from A's surface.
	local := w0.Sub(expander.Normal.Mul(expander.Depth * 0.5))

	return Contact{
		Point:  tfA.Apply(local),
		Normal: tfA.Rotation.Rotate(expander.Normal),
		Depth:  expander.Depth,
	}, true
}
