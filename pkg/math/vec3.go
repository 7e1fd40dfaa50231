// Package math provides the vector and rotation types stored in map files.
//
// Evil Islands maps are Z-up: X and Y span the ground plane and Z is height.
package math

import (
	"fmt"
	"math"
)

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Distance2D returns the distance to another point on the ground plane.
func (v Vec3) Distance2D(other Vec3) float32 {
	dx, dy := v.X-other.X, v.Y-other.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// String formats the vector as "(x, y, z)".
func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// ParseVec3 parses "x,y,z" (spaces and parentheses allowed).
func ParseVec3(s string) (Vec3, error) {
	var v Vec3
	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ' ', '(', ')':
		case ',':
			clean = append(clean, ' ')
		default:
			clean = append(clean, c)
		}
	}
	n, err := fmt.Sscan(string(clean), &v.X, &v.Y, &v.Z)
	if err != nil || n != 3 {
		return Vec3{}, fmt.Errorf("invalid vector %q: want x,y,z", s)
	}
	return v, nil
}
