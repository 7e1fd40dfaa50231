package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
	if !q.IsUnit(1e-6) {
		t.Error("Identity quaternion should be unit length")
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	if math.Abs(float64(n.Length()-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", n.Length())
	}
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("Zero quaternion should normalize to identity, got %v", got)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Z axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 0, Z: 1}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedZ := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Z-expectedZ)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Z: expected %v, got %v", expectedZ, q.Z)
	}
}

func TestQuatEulerYawMatchesAxisAngle(t *testing.T) {
	yaw := float32(math.Pi / 3)
	a := QuatFromEuler(0, 0, yaw)
	b := QuatFromAxisAngle(Vec3{Z: 1}, yaw)
	if math.Abs(float64(a.Dot(b))) < 0.9999 {
		t.Errorf("QuatFromEuler(0,0,yaw) = %v, want %v", a, b)
	}
}

func TestQuatEulerRoundTrip(t *testing.T) {
	tests := []struct {
		name             string
		roll, pitch, yaw float32
	}{
		{"zero", 0, 0, 0},
		{"yaw only", 0, 0, 1.2},
		{"pitch only", 0, -0.7, 0},
		{"roll only", 2.5, 0, 0},
		{"mixed", 0.3, 0.4, -1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromEuler(tt.roll, tt.pitch, tt.yaw)
			if !q.IsUnit(1e-5) {
				t.Fatalf("QuatFromEuler produced non-unit %v", q)
			}
			r, p, y := q.Euler()
			const eps = 1e-4
			if math.Abs(float64(r-tt.roll)) > eps || math.Abs(float64(p-tt.pitch)) > eps || math.Abs(float64(y-tt.yaw)) > eps {
				t.Errorf("Euler() = (%v, %v, %v), want (%v, %v, %v)", r, p, y, tt.roll, tt.pitch, tt.yaw)
			}
		})
	}
}

func TestQuatMulIdentity(t *testing.T) {
	q := QuatFromEuler(0.1, 0.2, 0.3)
	if got := q.Mul(QuatIdentity()); got != q {
		t.Errorf("q * identity = %v, want %v", got, q)
	}
}

func TestDegreesRadians(t *testing.T) {
	if got := Degrees(math.Pi); math.Abs(float64(got-180)) > 1e-4 {
		t.Errorf("Degrees(pi) = %v, want 180", got)
	}
	if got := Radians(90); math.Abs(float64(got-math.Pi/2)) > 1e-6 {
		t.Errorf("Radians(90) = %v, want pi/2", got)
	}
}

func TestQuatString(t *testing.T) {
	if got := QuatIdentity().String(); got != "(0, 0, 0, 1)" {
		t.Errorf("String() = %q", got)
	}
}
