// Command queries runs a few proximity queries and prints their results.
package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zdcgit/fcl"
	"github.com/zdcgit/fcl/shape"
)

func poseAt(pos mgl64.Vec3) shape.Transform {
	tf := shape.NewTransform()
	tf.Position = pos
	return tf
}

func main() {
	sphere := shape.Sphere{Radius: 1}
	cube := shape.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}

	// Two disjoint spheres: a definite separation distance.
	if d, ok := fcl.Distance(sphere, poseAt(mgl64.Vec3{0, 0, 0}), sphere, poseAt(mgl64.Vec3{3, 0, 0})); ok {
		fmt.Printf("spheres at distance %.4f\n", d)
	}

	// Two overlapping cubes: penetration depth, normal and contact point.
	if c, ok := fcl.Intersect(cube, poseAt(mgl64.Vec3{0, 0, 0}), cube, poseAt(mgl64.Vec3{0.5, 0.5, 0.5})); ok {
		fmt.Printf("cubes overlap: depth %.4f along %v, contact at %v\n", c.Depth, c.Normal, c.Point)
	}

	// A rotated box near a sphere.
	tilted := poseAt(mgl64.Vec3{0, 2.5, 0})
	tilted.Rotation = mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1})
	if d, ok := fcl.Distance(sphere, poseAt(mgl64.Vec3{0, 0, 0}), cube, tilted); ok {
		fmt.Printf("sphere to tilted cube: %.4f\n", d)
	}
}
