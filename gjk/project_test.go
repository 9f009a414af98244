package gjk

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func weightsSum(w [4]float64, mask int) float64 {
	sum := 0.0
	for i := 0; i < 4; i++ {
		if mask&(1<<i) != 0 {
			sum += w[i]
		}
	}
	return sum
}

func TestProjectLine(t *testing.T) {
	t.Run("closest to first vertex", func(t *testing.T) {
		sqdist, w, mask := projectLine(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0})
		if mask != 1 {
			t.Errorf("mask = %b, want 1", mask)
		}
		if math.Abs(sqdist-1) > 1e-12 {
			t.Errorf("sqdist = %v, want 1", sqdist)
		}
		if w[0] != 1 {
			t.Errorf("w[0] = %v, want 1", w[0])
		}
	})

	t.Run("closest to second vertex", func(t *testing.T) {
		sqdist, w, mask := projectLine(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{2, 0, 0})
		if mask != 2 {
			t.Errorf("mask = %b, want 2", mask)
		}
		if math.Abs(sqdist-4) > 1e-12 {
			t.Errorf("sqdist = %v, want 4", sqdist)
		}
		if w[1] != 1 {
			t.Errorf("w[1] = %v, want 1", w[1])
		}
	})

	t.Run("closest to segment interior", func(t *testing.T) {
		sqdist, w, mask := projectLine(mgl64.Vec3{1, -1, 0}, mgl64.Vec3{1, 1, 0})
		if mask != 3 {
			t.Errorf("mask = %b, want 3", mask)
		}
		if math.Abs(sqdist-1) > 1e-12 {
			t.Errorf("sqdist = %v, want 1", sqdist)
		}
		if math.Abs(w[0]-0.5) > 1e-12 || math.Abs(w[1]-0.5) > 1e-12 {
			t.Errorf("weights = %v, want 0.5/0.5", w)
		}
	})

	t.Run("degenerate segment", func(t *testing.T) {
		sqdist, _, _ := projectLine(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1})
		if sqdist >= 0 {
			t.Errorf("sqdist = %v, want negative for coincident points", sqdist)
		}
	})
}

func TestProjectTriangle(t *testing.T) {
	t.Run("origin projects inside", func(t *testing.T) {
		sqdist, w, mask := projectTriangle(
			mgl64.Vec3{1, -1, -1}, mgl64.Vec3{1, 1, -1}, mgl64.Vec3{1, 0, 2})
		if mask != 7 {
			t.Errorf("mask = %b, want 7", mask)
		}
		if math.Abs(sqdist-1) > 1e-9 {
			t.Errorf("sqdist = %v, want 1", sqdist)
		}
		for i := 0; i < 3; i++ {
			if math.Abs(w[i]-1.0/3.0) > 1e-9 {
				t.Errorf("w[%d] = %v, want 1/3", i, w[i])
			}
		}
	})

	t.Run("origin closest to an edge", func(t *testing.T) {
		sqdist, w, mask := projectTriangle(
			mgl64.Vec3{1, -1, 0}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{2, 0, 0})
		if mask != 3 {
			t.Errorf("mask = %b, want 3 (edge ab)", mask)
		}
		if math.Abs(sqdist-1) > 1e-9 {
			t.Errorf("sqdist = %v, want 1", sqdist)
		}
		if math.Abs(weightsSum(w, mask)-1) > 1e-9 {
			t.Errorf("weights sum = %v, want 1", weightsSum(w, mask))
		}
	})

	t.Run("origin closest to a vertex", func(t *testing.T) {
		sqdist, _, mask := projectTriangle(
			mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 1, 0}, mgl64.Vec3{2, -1, 0})
		if mask != 1 {
			t.Errorf("mask = %b, want 1 (vertex a)", mask)
		}
		if math.Abs(sqdist-1) > 1e-9 {
			t.Errorf("sqdist = %v, want 1", sqdist)
		}
	})

	t.Run("degenerate collinear triangle", func(t *testing.T) {
		sqdist, _, _ := projectTriangle(
			mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{3, 0, 0})
		if sqdist >= 0 {
			t.Errorf("sqdist = %v, want negative for collinear points", sqdist)
		}
	})
}

func TestProjectTetrahedron(t *testing.T) {
	// Regular tetrahedron centered on the origin
	a := mgl64.Vec3{1, 1, 1}
	b := mgl64.Vec3{-1, -1, 1}
	c := mgl64.Vec3{-1, 1, -1}
	d := mgl64.Vec3{1, -1, -1}

	t.Run("origin strictly inside", func(t *testing.T) {
		sqdist, w, mask := projectTetrahedron(a, b, c, d)
		if mask != 15 {
			t.Errorf("mask = %b, want 15", mask)
		}
		if sqdist != 0 {
			t.Errorf("sqdist = %v, want 0", sqdist)
		}
		for i := 0; i < 4; i++ {
			if math.Abs(w[i]-0.25) > 1e-9 {
				t.Errorf("w[%d] = %v, want 0.25", i, w[i])
			}
		}
	})

	t.Run("origin outside past the apex", func(t *testing.T) {
		// Shifting the tetrahedron away from d leaves the origin in
		// vertex d's voronoi region, reachable through the faces the
		// solver tests (the three containing d).
		off := d.Mul(-1.5)
		sqdist, w, mask := projectTetrahedron(
			a.Add(off), b.Add(off), c.Add(off), d.Add(off))
		if mask != 8 {
			t.Errorf("mask = %b, want 8 (vertex d)", mask)
		}
		if math.Abs(sqdist-0.75) > 1e-9 {
			t.Errorf("sqdist = %v, want 0.75", sqdist)
		}
		if math.Abs(w[3]-1) > 1e-9 {
			t.Errorf("w[3] = %v, want 1", w[3])
		}
		if math.Abs(weightsSum(w, mask)-1) > 1e-9 {
			t.Errorf("weights sum = %v, want 1", weightsSum(w, mask))
		}
	})

	t.Run("origin beyond the base face is rejected", func(t *testing.T) {
		// The refinement loop only ever calls this with the origin on
		// d's side of face abc; anything else fails the orientation
		// check and reports degenerate input.
		off := mgl64.Vec3{5, 0, 0}
		sqdist, _, _ := projectTetrahedron(
			a.Add(off), b.Add(off), c.Add(off), d.Add(off))
		if sqdist >= 0 {
			t.Errorf("sqdist = %v, want negative for an origin beyond abc", sqdist)
		}
	})

	t.Run("degenerate flat tetrahedron", func(t *testing.T) {
		sqdist, _, _ := projectTetrahedron(
			mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, -1, 0})
		if sqdist >= 0 {
			t.Errorf("sqdist = %v, want negative for a flat input", sqdist)
		}
	})
}
