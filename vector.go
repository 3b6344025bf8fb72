// Package physics2d implements a real-time impulse-based 2D rigid-body
// simulator: a hierarchical quad-grid broadphase, a SAT narrowphase with
// contact manifold clipping, and a barrier-synchronized parallel step
// pipeline. The package is a pure computational core — no rendering, no
// input, no wire protocol — meant to be driven by a headless harness
// through the API surface documented on World and Engine.
package physics2d

import "math"

// Vec2 is a 2D vector of 32-bit floats with pure (non-mutating) operations.
type Vec2 struct {
	X, Y float32
}

func V(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float32) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Neg() Vec2 { return Vec2{-a.X, -a.Y} }

// Perp rotates a vector 90 degrees counter-clockwise: (x,y) -> (-y,x).
func (a Vec2) Perp() Vec2 { return Vec2{-a.Y, a.X} }

func Dot(a, b Vec2) float32 { return a.X*b.X + a.Y*b.Y }

// Cross is the 2D scalar cross product a.x*b.y - a.y*b.x.
func Cross(a, b Vec2) float32 { return a.X*b.Y - a.Y*b.X }

func (a Vec2) LenSq() float32 { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Len() float32   { return float32(math.Sqrt(float64(a.LenSq()))) }

// Normalized returns the unit vector, or the zero vector if a is zero-length.
func (a Vec2) Normalized() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	inv := 1.0 / l
	return Vec2{a.X * inv, a.Y * inv}
}

// Rotate rotates v by the angle whose cosine/sine are ct/st.
func Rotate(v Vec2, ct, st float32) Vec2 {
	return Vec2{v.X*ct - v.Y*st, v.X*st + v.Y*ct}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func VMin(a, b Vec2) Vec2 { return Vec2{minf(a.X, b.X), minf(a.Y, b.Y)} }
func VMax(a, b Vec2) Vec2 { return Vec2{maxf(a.X, b.X), maxf(a.Y, b.Y)} }

// AABB is an axis-aligned bounding box. The invariant Min.X <= Max.X &&
// Min.Y <= Max.Y is maintained by every constructor in this package.
type AABB struct {
	Min, Max Vec2
}

// Overlaps reports non-strict AABB overlap.
func (a AABB) Overlaps(b AABB) bool {
	return !(a.Max.X < b.Min.X || a.Min.X > b.Max.X ||
		a.Max.Y < b.Min.Y || a.Min.Y > b.Max.Y)
}

func (a AABB) Width() float32  { return a.Max.X - a.Min.X }
func (a AABB) Height() float32 { return a.Max.Y - a.Min.Y }

// LongestSide returns max(width, height); the broadphase uses this to pick
// a QuadGrid level for the owning body.
func (a AABB) LongestSide() float32 {
	return maxf(a.Width(), a.Height())
}
