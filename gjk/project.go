package gjk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// The project functions solve the GJK sub-problem: the closest point of the
// origin to a 2/3/4 point simplex. Each returns the squared distance to that
// closest point, one barycentric weight per input vertex, and a bitmask
// telling which vertices span the closest feature (bit i set = vertex i kept).
// A negative squared distance signals a degenerate input (zero-length
// segment, zero-area triangle, zero-volume tetrahedron).
//
// The triangle and tetrahedron cases work by testing the origin against the
// Voronoi region of each sub-feature and recursing into the lower-rank
// projection for whichever boundary feature is exposed.

var nexti = [3]int{1, 2, 0}

func projectLine(a, b mgl64.Vec3) (sqdist float64, w [4]float64, mask int) {
	d := b.Sub(a)
	l := d.LenSqr()

	if l <= 0 {
		return -1, w, 0
	}

	t := -a.Dot(d) / l
	switch {
	case t >= 1:
		w[1] = 1
		return b.LenSqr(), w, 2
	case t <= 0:
		w[0] = 1
		return a.LenSqr(), w, 1
	default:
		w[0], w[1] = 1-t, t
		return a.Add(d.Mul(t)).LenSqr(), w, 3
	}
}

func projectTriangle(a, b, c mgl64.Vec3) (sqdist float64, w [4]float64, mask int) {
	vt := [3]mgl64.Vec3{a, b, c}
	dl := [3]mgl64.Vec3{a.Sub(b), b.Sub(c), c.Sub(a)}
	n := dl[0].Cross(dl[1])
	l := n.LenSqr()

	if l <= 0 {
		return -1, w, 0
	}

	// Edge Voronoi regions: project on whichever edge has the origin on
	// its outer side, keep the nearest result.
	mindist := -1.0
	for i := 0; i < 3; i++ {
		if vt[i].Dot(dl[i].Cross(n)) <= 0 {
			continue
		}

		j := nexti[i]
		subd, subw, subm := projectLine(vt[i], vt[j])
		if mindist < 0 || subd < mindist {
			mindist = subd
			mask = 0
			if subm&1 != 0 {
				mask |= 1 << i
			}
			if subm&2 != 0 {
				mask |= 1 << j
			}
			w = [4]float64{}
			w[i] = subw[0]
			w[j] = subw[1]
		}
	}

	if mindist < 0 {
		// Origin projects inside the triangle
		d := a.Dot(n)
		s := math.Sqrt(l)
		p := n.Mul(d / l)

		mindist = p.LenSqr()
		mask = 7
		w[0] = dl[1].Cross(b.Sub(p)).Len() / s
		w[1] = dl[2].Cross(c.Sub(p)).Len() / s
		w[2] = 1 - (w[0] + w[1])
	}

	return mindist, w, mask
}

func projectTetrahedron(a, b, c, d mgl64.Vec3) (sqdist float64, w [4]float64, mask int) {
	vt := [3]mgl64.Vec3{a, b, c}
	dl := [3]mgl64.Vec3{a.Sub(d), b.Sub(d), c.Sub(d)}
	vl := det(dl[0], dl[1], dl[2])

	// The sign test pairs the signed volume with the orientation of face
	// abc as seen from the origin; a mismatch means a malformed input.
	ng := vl*a.Dot(b.Sub(c).Cross(a.Sub(b))) <= 0
	if !ng || math.Abs(vl) <= 0 {
		return -1, w, 0
	}

	// Face Voronoi regions: the three faces through d. Face abc does not
	// need testing; the origin was driven past it by construction.
	mindist := -1.0
	for i := 0; i < 3; i++ {
		j := nexti[i]
		if vl*d.Dot(dl[i].Cross(dl[j])) <= 0 {
			continue
		}

		subd, subw, subm := projectTriangle(vt[i], vt[j], d)
		if mindist < 0 || subd < mindist {
			mindist = subd
			mask = 0
			if subm&1 != 0 {
				mask |= 1 << i
			}
			if subm&2 != 0 {
				mask |= 1 << j
			}
			if subm&4 != 0 {
				mask |= 8
			}
			w = [4]float64{}
			w[i] = subw[0]
			w[j] = subw[1]
			w[3] = subw[2]
		}
	}

	if mindist < 0 {
		// Origin is strictly inside the tetrahedron
		mindist = 0
		mask = 15
		w[0] = det(c, b, d) / vl
		w[1] = det(a, c, d) / vl
		w[2] = det(b, a, d) / vl
		w[3] = 1 - (w[0] + w[1] + w[2])
	}

	return mindist, w, mask
}

// det is the scalar triple product a . (b x c).
func det(a, b, c mgl64.Vec3) float64 {
	return a.Dot(b.Cross(c))
}
