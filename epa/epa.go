// Package epa implements the Expanding Polytope Algorithm for computing
// penetration depth between overlapping convex shapes.
//
// EPA runs after GJK has classified a pair as overlapping. Seeded with GJK's
// origin-enclosing tetrahedron, it grows a convex polytope approximating the
// Minkowski difference boundary around the origin. The hull face nearest the
// origin is a lower bound on the penetration depth; the support point along
// that face's normal gives an upper bound. The loop expands the hull toward
// the support point until the two bounds meet, yielding the penetration
// depth, the separating normal, and the contact face.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation
//     on 3D Game Objects" (2001)
package epa

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zdcgit/fcl/gjk"
)

const (
	// Epsilon is the convergence tolerance: the run stops once the gap
	// between the depth lower and upper bounds falls below it.
	Epsilon = 1e-6

	// MaxIterations caps the expansion loop.
	MaxIterations = 255

	// MaxFaces is the fixed capacity of the face arena. Exhausting it
	// terminates the run early with the best face found so far.
	MaxFaces = 128

	// MaxVertices is the fixed capacity of the vertex arena.
	MaxVertices = 64
)

// Status is the terminal state of an expansion run.
type Status int

const (
	// Valid means the iteration budget ran out while the hull was still
	// being refined; the reported face is the best approximation found.
	Valid Status = iota
	// Touching means the run converged on a zero-depth contact.
	Touching
	// Degenerated means a hull face lost its normal (numerically singular
	// input).
	Degenerated
	// NonConvex means an expansion produced a face behind the origin: the
	// hull stopped being a convex enclosure.
	NonConvex
	// InvalidHull means the seed simplex could not form a valid
	// tetrahedron around the origin, or the horizon failed to close.
	InvalidHull
	// OutOfFaces means the face arena was exhausted mid-expansion; the
	// best face found so far is reported.
	OutOfFaces
	// OutOfVertices means the vertex arena was exhausted mid-expansion;
	// the best face found so far is reported.
	OutOfVertices
	// AccuracyReached means the depth bounds closed below Epsilon.
	AccuracyReached
	// FallBack means the seed could not enclose the origin at all; the
	// result is a crude guess-based answer.
	FallBack
	// Failed means no usable result was produced.
	Failed
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "Valid"
	case Touching:
		return "Touching"
	case Degenerated:
		return "Degenerated"
	case NonConvex:
		return "NonConvex"
	case InvalidHull:
		return "InvalidHull"
	case OutOfFaces:
		return "OutOfFaces"
	case OutOfVertices:
		return "OutOfVertices"
	case AccuracyReached:
		return "AccuracyReached"
	case FallBack:
		return "FallBack"
	case Failed:
		return "Failed"
	}
	return "Unknown"
}

// ContactFace is the winning face of the expansion: up to three simplex
// vertices with barycentric weights locating the contact on it. Rank is 3
// after a normal run and 1 on the FallBack path.
type ContactFace struct {
	Verts   [3]gjk.SimplexVertex
	Weights [3]float64
	Rank    int
}

// EPA is a single-query engine instance. Create one per query with New; it
// holds no shared state and is discarded afterwards.
type EPA struct {
	// Normal is the outward separating normal of the winning face, in
	// shape A's frame. Depth is the penetration depth along it.
	Normal mgl64.Vec3
	Depth  float64
	Result ContactFace

	// Fixed-capacity arenas. Faces live on exactly one of the two lists:
	// stock (available) or hull (forming the polytope boundary).
	verts  [MaxVertices]gjk.SimplexVertex
	nverts int
	faces  [MaxFaces]face
	hull   faceList
	stock  faceList

	status Status
}

// New creates a fresh engine instance with every face on the stock list.
func New() *EPA {
	e := &EPA{status: Failed}
	e.hull.root = nilFace
	e.stock.root = nilFace
	for i := MaxFaces - 1; i >= 0; i-- {
		e.stock.push(e.faces[:], i)
	}
	return e
}

// Status returns the terminal status of the last Evaluate run.
func (e *EPA) Status() Status {
	return e.status
}

// Evaluate expands a polytope seeded from the GJK engine's terminal simplex
// and reports the penetration depth of the underlying shape pair. The GJK
// run must have ended Inside; guess is the query's initial guess direction,
// used only by the fallback path.
//
// On OutOfFaces/OutOfVertices the best face found so far is still reported,
// trading precision for robustness rather than failing the query. That
// approximation can be coarse: on deeply overlapping smooth shapes the pools
// run out while the hull is still rough, and both the depth and the normal
// may be off by a sizable fraction of the true values.
func (e *EPA) Evaluate(g *gjk.GJK, guess mgl64.Vec3) Status {
	simplex := g.Simplex()

	if simplex.Rank > 1 && g.EncloseOrigin() {
		// EncloseOrigin may have grown the simplex to a tetrahedron
		simplex = g.Simplex()

		// Return any previous hull to stock
		for e.hull.root != nilFace {
			f := e.hull.root
			e.hull.remove(e.faces[:], f)
			e.stock.push(e.faces[:], f)
		}

		e.status = Valid
		e.nverts = 0

		// Orient the seed so its faces wind outward
		if det(
			simplex.Verts[0].Point.Sub(simplex.Verts[3].Point),
			simplex.Verts[1].Point.Sub(simplex.Verts[3].Point),
			simplex.Verts[2].Point.Sub(simplex.Verts[3].Point)) < 0 {
			simplex.Verts[0], simplex.Verts[1] = simplex.Verts[1], simplex.Verts[0]
			simplex.Weights[0], simplex.Weights[1] = simplex.Weights[1], simplex.Weights[0]
		}

		for i := 0; i < 4; i++ {
			e.verts[i] = simplex.Verts[i]
		}
		e.nverts = 4

		t0 := e.newFace(0, 1, 2, true)
		t1 := e.newFace(1, 0, 3, true)
		t2 := e.newFace(2, 1, 3, true)
		t3 := e.newFace(0, 2, 3, true)

		if e.hull.count == 4 {
			best := e.findBest()
			outer := e.faces[best]
			pass := 0

			e.bind(t0, 0, t1, 0)
			e.bind(t0, 1, t2, 0)
			e.bind(t0, 2, t3, 0)
			e.bind(t1, 1, t3, 2)
			e.bind(t1, 2, t2, 1)
			e.bind(t2, 2, t3, 1)

			e.status = Valid
			for iterations := 0; iterations < MaxIterations; iterations++ {
				if e.nverts >= MaxVertices {
					e.status = OutOfVertices
					break
				}

				h := horizon{cf: nilFace, ff: nilFace}
				w := e.nverts
				e.nverts++

				pass++
				e.faces[best].pass = pass

				// Upper bound: support distance along the best
				// face's normal. Lower bound: the face plane.
				d := e.faces[best].normal
				e.verts[w] = gjk.SimplexVertex{Dir: d, Point: g.Diff.Support(d)}
				wdist := d.Dot(e.verts[w].Point) - e.faces[best].dist
				if wdist <= Epsilon {
					e.status = AccuracyReached
					break
				}

				// Walk the faces visible from w, retiring them
				// and fanning new faces around the horizon.
				valid := true
				for j := 0; j < 3 && valid; j++ {
					valid = e.expand(pass, w,
						e.faces[best].adj[j], e.faces[best].edge[j], &h)
				}
				if !valid || h.nf < 3 {
					// Keep an exhaustion status from expand;
					// anything else is a broken hull.
					if e.status != OutOfFaces {
						e.status = InvalidHull
					}
					break
				}

				e.bind(h.cf, 1, h.ff, 2)
				e.hull.remove(e.faces[:], best)
				e.stock.push(e.faces[:], best)
				best = e.findBest()
				outer = e.faces[best]
			}

			projection := outer.normal.Mul(outer.dist)
			e.Normal = outer.normal
			e.Depth = outer.dist

			w0 := e.verts[outer.verts[0]].Point
			w1 := e.verts[outer.verts[1]].Point
			w2 := e.verts[outer.verts[2]].Point
			p0 := w1.Sub(projection).Cross(w2.Sub(projection)).Len()
			p1 := w2.Sub(projection).Cross(w0.Sub(projection)).Len()
			p2 := w0.Sub(projection).Cross(w1.Sub(projection)).Len()

			e.Result.Rank = 3
			e.Result.Verts[0] = e.verts[outer.verts[0]]
			e.Result.Verts[1] = e.verts[outer.verts[1]]
			e.Result.Verts[2] = e.verts[outer.verts[2]]
			if sum := p0 + p1 + p2; sum > 0 {
				e.Result.Weights = [3]float64{p0 / sum, p1 / sum, p2 / sum}
			} else {
				e.Result.Weights = [3]float64{1, 0, 0}
			}

			if e.status == AccuracyReached && e.Depth < Epsilon {
				e.status = Touching
			}
			return e.status
		}
	}

	// Seed could not enclose the origin: report a crude answer along the
	// guess direction rather than nothing.
	e.status = FallBack
	e.Normal = guess.Mul(-1)
	if nl := e.Normal.Len(); nl > 0 {
		e.Normal = e.Normal.Mul(1 / nl)
	} else {
		e.Normal = mgl64.Vec3{1, 0, 0}
	}
	e.Depth = 0
	e.Result.Rank = 1
	e.Result.Verts[0] = simplex.Verts[0]
	e.Result.Weights = [3]float64{1, 0, 0}

	return e.status
}

// newFace pulls a face from stock, spans it over three arena vertices and
// splices it into the hull. Degenerate triangles (no normal) and, unless
// forced, faces whose plane puts the origin outside are rejected and the
// slot returned to stock; the corresponding status is recorded and nilFace
// returned. Seed faces pass forced=true because the initial tetrahedron is
// allowed to hug the origin arbitrarily closely.
func (e *EPA) newFace(a, b, c int, forced bool) int {
	if e.stock.root == nilFace {
		e.status = OutOfFaces
		return nilFace
	}

	fi := e.stock.root
	e.stock.remove(e.faces[:], fi)
	e.hull.push(e.faces[:], fi)

	f := &e.faces[fi]
	f.pass = 0
	f.verts = [3]int{a, b, c}

	wa := e.verts[a].Point
	wb := e.verts[b].Point
	wc := e.verts[c].Point
	f.normal = wb.Sub(wa).Cross(wc.Sub(wa))
	l := f.normal.Len()

	if l > Epsilon {
		// The plane distance is wrong for faces whose closest point
		// lies on an edge rather than in the interior; edgeDist
		// catches those.
		if d, ok := e.edgeDist(f, a, b); ok {
			f.dist = d
		} else if d, ok := e.edgeDist(f, b, c); ok {
			f.dist = d
		} else if d, ok := e.edgeDist(f, c, a); ok {
			f.dist = d
		} else {
			f.dist = wa.Dot(f.normal) / l
		}
		f.normal = f.normal.Mul(1 / l)

		if forced || f.dist >= -Epsilon {
			return fi
		}
		e.status = NonConvex
	} else {
		e.status = Degenerated
	}

	e.hull.remove(e.faces[:], fi)
	e.stock.push(e.faces[:], fi)
	return nilFace
}

// edgeDist reports the distance from the origin to the edge (a,b) of the
// face, if the origin's projection onto the face plane falls outside that
// edge. ok is false when the interior (or another edge) is the closest
// feature. The face normal may still be unnormalized here; only its
// orientation is used.
func (e *EPA) edgeDist(f *face, a, b int) (float64, bool) {
	wa := e.verts[a].Point
	wb := e.verts[b].Point
	ba := wb.Sub(wa)
	nab := ba.Cross(f.normal) // outward edge normal in the face plane

	if wa.Dot(nab) >= 0 {
		return 0, false
	}

	baSq := ba.LenSqr()
	aDotBa := wa.Dot(ba)
	bDotBa := wb.Dot(ba)

	switch {
	case aDotBa > 0:
		// Closest to vertex a
		return wa.Len(), true
	case bDotBa < 0:
		// Closest to vertex b
		return wb.Len(), true
	default:
		aDotB := wa.Dot(wb)
		distSq := (wa.LenSqr()*wb.LenSqr() - aDotB*aDotB) / baSq
		return math.Sqrt(math.Max(distSq, 0)), true
	}
}

// findBest returns the hull face whose plane is nearest the origin; its
// distance is the current lower bound on the penetration depth.
func (e *EPA) findBest() int {
	minf := e.hull.root
	mind := e.faces[minf].dist * e.faces[minf].dist

	for fi := e.faces[minf].next; fi != nilFace; fi = e.faces[fi].next {
		if sqd := e.faces[fi].dist * e.faces[fi].dist; sqd < mind {
			minf = fi
			mind = sqd
		}
	}

	return minf
}

// expand walks the hull from edge `edge` of face fi, retiring faces visible
// from vertex w and fanning a new face over each horizon edge. New fan faces
// are chained to each other as they are created; the caller closes the loop.
// Returns false if the walk cannot complete (face allocation failed or the
// hull turned out non-convex).
func (e *EPA) expand(pass, w, fi, edge int, h *horizon) bool {
	if e.faces[fi].pass == pass {
		// Already visited in this pass: both sides of the entry edge
		// are visible, so the edge is interior to the removed region
		// and needs no horizon face.
		return true
	}

	e1 := nexti[edge]

	if e.faces[fi].normal.Dot(e.verts[w].Point)-e.faces[fi].dist < -Epsilon {
		// fi is not visible from w: the shared edge is a horizon
		// edge, cover it with a new face reaching to w.
		nf := e.newFace(e.faces[fi].verts[e1], e.faces[fi].verts[edge], w, false)
		if nf == nilFace {
			return false
		}

		e.bind(nf, 0, fi, edge)
		if h.cf != nilFace {
			e.bind(h.cf, 1, nf, 2)
		} else {
			h.ff = nf
		}
		h.cf = nf
		h.nf++
		return true
	}

	// fi is visible: retire it and keep walking around it.
	e2 := previ[edge]
	e.faces[fi].pass = pass
	if e.expand(pass, w, e.faces[fi].adj[e1], e.faces[fi].edge[e1], h) &&
		e.expand(pass, w, e.faces[fi].adj[e2], e.faces[fi].edge[e2], h) {
		e.hull.remove(e.faces[:], fi)
		e.stock.push(e.faces[:], fi)
		return true
	}

	return false
}

var nexti = [3]int{1, 2, 0}
var previ = [3]int{2, 0, 1}

// det is the scalar triple product a . (b x c).
func det(a, b, c mgl64.Vec3) float64 {
	return a.Dot(b.Cross(c))
}
