package shape

import (
	"math"
	"testing"
)

func TestVertexInterpolate(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 4, 8, RoleVertex)

	mid := a.Interpolate(b, 0.5, RoleMidpoint)
	if mid.X != 2 || mid.Y != 4 {
		t.Errorf("midpoint = (%v,%v), want (2,4)", mid.X, mid.Y)
	}
	if mid.Role != RoleMidpoint {
		t.Errorf("role = %q, want %q", mid.Role, RoleMidpoint)
	}
	if mid.ID() <= b.ID() {
		t.Errorf("interpolated vertex id %d not freshly allocated", mid.ID())
	}
}

func TestVertexDistanceAndPixels(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 3, 4, RoleVertex)
	if d := a.DistanceTo(b); math.Abs(d-5) > 1e-12 {
		t.Errorf("distance = %v, want 5", d)
	}

	v := NewVertex(s, 1.6, 2.4, RoleVertex)
	if v.PX() != 2 || v.PY() != 2 {
		t.Errorf("pixel coords = (%d,%d), want (2,2)", v.PX(), v.PY())
	}
}

func TestVertexEquals(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 1, 1, RoleVertex)
	b := NewVertex(s, 1+1e-9, 1-1e-9, RoleMidpoint)
	c := NewVertex(s, 1.001, 1, RoleVertex)

	if !a.Equals(b) {
		t.Error("near-identical coordinates must compare equal")
	}
	if a.Equals(c) {
		t.Error("coordinates beyond tolerance must not compare equal")
	}
	if a.Equals(nil) {
		t.Error("nil must never compare equal")
	}
}

func TestVertexCopyNeverAliases(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 2, 3, RoleControl)
	b := a.Copy()

	if b == a {
		t.Fatal("copy aliases the original")
	}
	if b.ID() == a.ID() {
		t.Error("copy shares the original's id")
	}
	if !a.Equals(b) || b.Role != a.Role {
		t.Error("copy changed coordinates or role")
	}

	b.MoveTo(9, 9)
	if a.X != 2 || a.Y != 3 {
		t.Error("moving the copy moved the original")
	}
}
