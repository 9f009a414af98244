// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for
// convex distance and containment queries.
//
// GJK works on the Minkowski difference of two convex shapes: it builds a
// simplex (1 to 4 points) inside that difference and refines it toward the
// point closest to the origin. If the origin ends up enclosed by a
// tetrahedron the shapes overlap; otherwise the terminal simplex is the
// closest feature and carries barycentric weights from which witness points
// on both shapes can be reconstructed.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance
//     Between Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import "github.com/go-gl/mathgl/mgl64"

const (
	// Epsilon bounds every "close enough" decision in the refinement loop:
	// duplicate support detection, progress checks and the origin-touch test.
	Epsilon = 1e-6

	// MaxIterations caps the refinement loop. Reaching it without a
	// conclusive answer classifies the run as Failed.
	MaxIterations = 128
)

// Status is the terminal state of a refinement run.
type Status int

const (
	// Valid means the origin is outside the Minkowski difference; the
	// terminal simplex is its closest feature to the origin.
	Valid Status = iota
	// Inside means the origin is enclosed: the shapes overlap.
	Inside
	// Failed means the iteration budget ran out without a conclusive
	// answer, typically due to numerical degeneracy.
	Failed
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "Valid"
	case Inside:
		return "Inside"
	case Failed:
		return "Failed"
	}
	return "Unknown"
}

// SimplexVertex pairs a support point of the Minkowski difference with the
// direction that produced it. The direction is kept because witness points
// on the original shapes are rebuilt from it after the loop.
type SimplexVertex struct {
	Dir   mgl64.Vec3 // support direction used for the query
	Point mgl64.Vec3 // resulting support point of the difference
}

// Simplex is a read-only snapshot of the engine's current simplex: up to four
// vertices with one barycentric weight each. Weights are only meaningful for
// indices below Rank.
type Simplex struct {
	Verts   [4]SimplexVertex
	Weights [4]float64
	Rank    int
}

// simplex is the engine's internal representation: vertex slots are indices
// into the arena, so reducing the rank just returns indices to the free list.
type simplex struct {
	c    [4]int
	p    [4]float64
	rank int
}

// GJK is a single-query engine instance. Create one per query with New; it
// holds no shared state and is discarded afterwards.
type GJK struct {
	Diff MinkowskiDiff

	// Ray is the vector from the simplex's closest point to the origin;
	// its length shrinks across healthy iterations.
	Ray mgl64.Vec3
	// Distance is |Ray| after a Valid run, 0 after Inside.
	Distance float64

	// Fixed-capacity vertex arena with an explicit free-index list. A
	// vertex slot belongs to exactly one live simplex at a time.
	store [4]SimplexVertex
	free  [4]int
	nfree int

	// Double-buffered simplices: each iteration reduces the current
	// simplex into the other buffer.
	simplices [2]simplex
	current   int

	status Status
}

// New creates a fresh engine instance.
func New() *GJK {
	g := &GJK{status: Failed}
	for i := range g.free {
		g.free[i] = i
	}
	g.nfree = 4
	return g
}

// Simplex returns a snapshot of the terminal simplex.
func (g *GJK) Simplex() Simplex {
	s := &g.simplices[g.current]

	var out Simplex
	out.Rank = s.rank
	for i := 0; i < s.rank; i++ {
		out.Verts[i] = g.store[s.c[i]]
		out.Weights[i] = s.p[i]
	}

	return out
}

// Status returns the terminal status of the last Evaluate run.
func (g *GJK) Status() Status {
	return g.status
}

func (g *GJK) getSupport(d mgl64.Vec3, v *SimplexVertex) {
	v.Dir = d
	v.Point = g.Diff.Support(d)
}

func (g *GJK) appendVertex(s *simplex, d mgl64.Vec3) {
	g.nfree--
	idx := g.free[g.nfree]

	s.p[s.rank] = 0
	s.c[s.rank] = idx
	g.getSupport(d, &g.store[idx])
	s.rank++
}

func (g *GJK) removeVertex(s *simplex) {
	s.rank--
	g.free[g.nfree] = s.c[s.rank]
	g.nfree++
}

// Evaluate runs the refinement loop against the given Minkowski difference,
// starting from an initial guess direction.
//
// Each iteration queries a new support point opposite the current ray. If the
// new point cannot advance past the current best approximation by more than
// Epsilon, the simplex already is the closest feature and the run ends Valid.
// Otherwise the point is appended and the simplex is reduced to the feature
// closest to the origin (projectLine/Triangle/Tetrahedron), recycling dropped
// vertex slots. A full tetrahedron whose projection reports the origin
// strictly inside ends the run Inside.
func (g *GJK) Evaluate(diff MinkowskiDiff, guess mgl64.Vec3) Status {
	g.Diff = diff

	iterations := 0
	alpha := 0.0

	// Ring buffer of recent support points: seeing one again means the
	// loop has stalled on the same feature.
	var lastw [4]mgl64.Vec3
	clastw := 0

	for i := range g.free {
		g.free[i] = i
	}
	g.nfree = 4
	g.current = 0
	g.status = Valid
	g.Distance = 0

	s := &g.simplices[0]
	s.rank = 0

	g.Ray = guess
	if g.Ray.LenSqr() > 0 {
		g.appendVertex(s, g.Ray.Mul(-1))
	} else {
		g.appendVertex(s, mgl64.Vec3{1, 0, 0})
	}
	s.p[0] = 1
	g.Ray = g.store[s.c[0]].Point
	lastw[0], lastw[1], lastw[2], lastw[3] = g.Ray, g.Ray, g.Ray, g.Ray

	for g.status == Valid {
		next := 1 - g.current
		curr := &g.simplices[g.current]
		nexts := &g.simplices[next]

		rl := g.Ray.Len()
		if rl < Epsilon {
			// The closest point collapsed onto the origin: enclosed
			g.status = Inside
			break
		}

		g.appendVertex(curr, g.Ray.Mul(-1))
		w := g.store[curr.c[curr.rank-1]].Point

		duplicate := false
		for i := 0; i < 4; i++ {
			if w.Sub(lastw[i]).LenSqr() < Epsilon {
				duplicate = true
				break
			}
		}
		if duplicate {
			g.removeVertex(curr)
			break // Valid: no new support point available
		}
		clastw = (clastw + 1) & 3
		lastw[clastw] = w

		// alpha is the best lower bound on the separation seen so far;
		// once the ray length cannot beat it the simplex is optimal.
		omega := g.Ray.Dot(w) / rl
		if omega > alpha {
			alpha = omega
		}
		if (rl-alpha)-Epsilon*rl <= 0 {
			g.removeVertex(curr)
			break // Valid: no further improvement possible
		}

		var sqdist float64
		var weights [4]float64
		var mask int
		switch curr.rank {
		case 2:
			sqdist, weights, mask = projectLine(
				g.store[curr.c[0]].Point,
				g.store[curr.c[1]].Point)
		case 3:
			sqdist, weights, mask = projectTriangle(
				g.store[curr.c[0]].Point,
				g.store[curr.c[1]].Point,
				g.store[curr.c[2]].Point)
		case 4:
			sqdist, weights, mask = projectTetrahedron(
				g.store[curr.c[0]].Point,
				g.store[curr.c[1]].Point,
				g.store[curr.c[2]].Point,
				g.store[curr.c[3]].Point)
		}

		if sqdist < 0 {
			// Degenerate projection: keep the previous simplex
			g.removeVertex(curr)
			break // Valid
		}

		// Keep only the vertices spanning the closest feature and
		// rebuild the ray from their weighted combination.
		nexts.rank = 0
		g.Ray = mgl64.Vec3{}
		g.current = next
		for i := 0; i < curr.rank; i++ {
			if mask&(1<<i) != 0 {
				nexts.c[nexts.rank] = curr.c[i]
				nexts.p[nexts.rank] = weights[i]
				nexts.rank++
				g.Ray = g.Ray.Add(g.store[curr.c[i]].Point.Mul(weights[i]))
			} else {
				g.free[g.nfree] = curr.c[i]
				g.nfree++
			}
		}
		if mask == 15 {
			g.status = Inside
		}

		iterations++
		if iterations >= MaxIterations && g.status == Valid {
			g.status = Failed
		}
	}

	switch g.status {
	case Valid:
		g.Distance = g.Ray.Len()
	case Inside:
		g.Distance = 0
	}

	return g.status
}

// EncloseOrigin forcibly grows the terminal simplex into an origin-enclosing
// tetrahedron by probing along coordinate axes (rank 1), directions
// perpendicular to the current segment (rank 2) or the triangle normal
// (rank 3). It exists for near-touching runs that ended Inside below rank 4:
// the polytope expansion engine needs a full tetrahedron as its seed.
//
// Returns false if no enclosing tetrahedron can be built (flat difference).
func (g *GJK) EncloseOrigin() bool {
	axes := [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	s := &g.simplices[g.current]

	switch s.rank {
	case 1:
		for _, axis := range axes {
			g.appendVertex(s, axis)
			if g.EncloseOrigin() {
				return true
			}
			g.removeVertex(s)

			g.appendVertex(s, axis.Mul(-1))
			if g.EncloseOrigin() {
				return true
			}
			g.removeVertex(s)
		}
	case 2:
		d := g.store[s.c[1]].Point.Sub(g.store[s.c[0]].Point)
		for _, axis := range axes {
			p := d.Cross(axis)
			if p.LenSqr() <= 0 {
				continue
			}

			g.appendVertex(s, p)
			if g.EncloseOrigin() {
				return true
			}
			g.removeVertex(s)

			g.appendVertex(s, p.Mul(-1))
			if g.EncloseOrigin() {
				return true
			}
			g.removeVertex(s)
		}
	case 3:
		n := g.store[s.c[1]].Point.Sub(g.store[s.c[0]].Point).
			Cross(g.store[s.c[2]].Point.Sub(g.store[s.c[0]].Point))
		if n.LenSqr() > 0 {
			g.appendVertex(s, n)
			if g.EncloseOrigin() {
				return true
			}
			g.removeVertex(s)

			g.appendVertex(s, n.Mul(-1))
			if g.EncloseOrigin() {
				return true
			}
			g.removeVertex(s)
		}
	case 4:
		d := g.store[s.c[3]].Point
		vol := det(
			g.store[s.c[0]].Point.Sub(d),
			g.store[s.c[1]].Point.Sub(d),
			g.store[s.c[2]].Point.Sub(d))
		if vol != 0 {
			return true
		}
	}

	return false
}
