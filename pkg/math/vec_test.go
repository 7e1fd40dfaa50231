package math

import (
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{3, 4, 12}
	if got := a.Distance(b); got != 13 {
		t.Errorf("Vec3.Distance() = %v, want 13", got)
	}
	if got := a.Distance2D(b); got != 5 {
		t.Errorf("Vec3.Distance2D() = %v, want 5", got)
	}
}

func TestVec3String(t *testing.T) {
	got := Vec3{1.5, -2, 0}.String()
	if got != "(1.5, -2, 0)" {
		t.Errorf("Vec3.String() = %q", got)
	}
}

func TestParseVec3(t *testing.T) {
	tests := []struct {
		in      string
		want    Vec3
		wantErr bool
	}{
		{"1,2,3", Vec3{1, 2, 3}, false},
		{"(1.5, -2, 0)", Vec3{1.5, -2, 0}, false},
		{" 10 , 20 , 30 ", Vec3{10, 20, 30}, false},
		{"1,2", Vec3{}, true},
		{"a,b,c", Vec3{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVec3(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVec3(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVec3(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
