package shape

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid placement in 3D space: a rotation followed by a
// translation. It carries no scale or shear, so distances are preserved.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform.
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// Apply maps a point from the transform's local frame to the parent frame.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(p).Add(t.Position)
}

// Mul composes two transforms: (t.Mul(o)).Apply(p) == t.Apply(o.Apply(p)).
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Position: t.Apply(o.Position),
		Rotation: t.Rotation.Mul(o.Rotation).Normalize(),
	}
}

// Inverse returns the transform mapping the parent frame back to the local frame.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Inverse()

	return Transform{
		Position: inv.Rotate(t.Position).Mul(-1),
		Rotation: inv,
	}
}

// InverseTimes returns o expressed relative to t, i.e. t.Inverse().Mul(o).
// For two body poses this is the pose of o's frame as seen from t's frame.
func (t Transform) InverseTimes(o Transform) Transform {
	inv := t.Rotation.Inverse()

	return Transform{
		Position: inv.Rotate(o.Position.Sub(t.Position)),
		Rotation: inv.Mul(o.Rotation).Normalize(),
	}
}
