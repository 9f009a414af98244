package shape

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vec3Near(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() < tol
}

func TestSphereSupport(t *testing.T) {
	s := Sphere{Radius: 2}

	t.Run("axis directions", func(t *testing.T) {
		if got := s.Support(mgl64.Vec3{1, 0, 0}); !vec3Near(got, mgl64.Vec3{2, 0, 0}, 1e-12) {
			t.Errorf("Support(+x) = %v, want (2,0,0)", got)
		}
		if got := s.Support(mgl64.Vec3{0, -1, 0}); !vec3Near(got, mgl64.Vec3{0, -2, 0}, 1e-12) {
			t.Errorf("Support(-y) = %v, want (0,-2,0)", got)
		}
	})

	t.Run("direction length does not matter", func(t *testing.T) {
		a := s.Support(mgl64.Vec3{1, 1, 0})
		b := s.Support(mgl64.Vec3{10, 10, 0})
		if !vec3Near(a, b, 1e-12) {
			t.Errorf("supports differ for scaled directions: %v vs %v", a, b)
		}
		if math.Abs(a.Len()-2) > 1e-12 {
			t.Errorf("support not on the sphere surface: |%v| = %v", a, a.Len())
		}
	})

	t.Run("zero direction still returns a boundary point", func(t *testing.T) {
		got := s.Support(mgl64.Vec3{})
		if math.Abs(got.Len()-2) > 1e-12 {
			t.Errorf("Support(0) = %v, want a point at radius 2", got)
		}
	})
}

func TestBoxSupport(t *testing.T) {
	b := Box{HalfExtents: mgl64.Vec3{1, 2, 3}}

	cases := []struct {
		name string
		dir  mgl64.Vec3
		want mgl64.Vec3
	}{
		{"all positive", mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 2, 3}},
		{"all negative", mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{-1, -2, -3}},
		{"mixed", mgl64.Vec3{-1, 1, -1}, mgl64.Vec3{-1, 2, -3}},
		{"axis", mgl64.Vec3{0, 0, -5}, mgl64.Vec3{1, 2, -3}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := b.Support(c.dir); got != c.want {
				t.Errorf("Support(%v) = %v, want %v", c.dir, got, c.want)
			}
		})
	}
}

func TestConvexHullSupport(t *testing.T) {
	h := ConvexHull{Points: []mgl64.Vec3{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}}

	if got := h.Support(mgl64.Vec3{3, 1, 0}); got != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Support picked %v, want the +x vertex", got)
	}
	if got := h.Support(mgl64.Vec3{0, 0, -1}); got != (mgl64.Vec3{0, 0, -1}) {
		t.Errorf("Support picked %v, want the -z vertex", got)
	}
}

func TestTransform(t *testing.T) {
	tf := Transform{
		Position: mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
	}

	t.Run("apply rotates then translates", func(t *testing.T) {
		got := tf.Apply(mgl64.Vec3{1, 0, 0})
		want := mgl64.Vec3{1, 3, 3} // +x rotates onto +y
		if !vec3Near(got, want, 1e-12) {
			t.Errorf("Apply = %v, want %v", got, want)
		}
	})

	t.Run("inverse round-trips", func(t *testing.T) {
		p := mgl64.Vec3{-2, 5, 0.5}
		got := tf.Inverse().Apply(tf.Apply(p))
		if !vec3Near(got, p, 1e-12) {
			t.Errorf("inverse(apply(p)) = %v, want %v", got, p)
		}
	})

	t.Run("mul composes", func(t *testing.T) {
		other := Transform{
			Position: mgl64.Vec3{0, 0, 1},
			Rotation: mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{1, 0, 0}),
		}
		p := mgl64.Vec3{1, 1, 1}
		got := tf.Mul(other).Apply(p)
		want := tf.Apply(other.Apply(p))
		if !vec3Near(got, want, 1e-12) {
			t.Errorf("Mul(o).Apply = %v, want %v", got, want)
		}
	})

	t.Run("inverseTimes is the relative transform", func(t *testing.T) {
		other := Transform{
			Position: mgl64.Vec3{4, -1, 2},
			Rotation: mgl64.QuatRotate(1.1, mgl64.Vec3{0, 1, 0}),
		}
		p := mgl64.Vec3{0.5, 0.5, -3}
		got := tf.Mul(tf.InverseTimes(other)).Apply(p)
		want := other.Apply(p)
		if !vec3Near(got, want, 1e-12) {
			t.Errorf("tf * (tf^-1 * other) != other: %v vs %v", got, want)
		}
	})

	t.Run("identity does nothing", func(t *testing.T) {
		p := mgl64.Vec3{7, -8, 9}
		if got := NewTransform().Apply(p); !vec3Near(got, p, 1e-15) {
			t.Errorf("identity.Apply(%v) = %v", p, got)
		}
	})
}
