package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a 2D vector. It shares its layout with r2.Vec so the gonum
// helpers operate on it through plain conversions.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2(r2.Add(r2.Vec(v), r2.Vec(o))) }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2(r2.Sub(r2.Vec(v), r2.Vec(o))) }

func (v Vec2) Scale(f float64) Vec2 { return Vec2(r2.Scale(f, r2.Vec(v))) }

func (v Vec2) Dot(o Vec2) float64 { return r2.Dot(r2.Vec(v), r2.Vec(o)) }

// Length is sqrt(x²+y²). r2.Norm uses math.Hypot, which rounds differently.
func (v Vec2) Length() float64 {
	return math.Sqrt(r2.Norm2(r2.Vec(v)))
}

// Normalize returns the unit vector along v, or the zero vector when v has
// zero length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Length()
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
