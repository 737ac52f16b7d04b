package shape

import "testing"

func TestRectCanonicalLayout(t *testing.T) {
	s := NewSession()
	r := NewRect(s, 10, 20, 4, 2)

	want := [8][2]float64{
		{10, 20}, {12, 20}, {14, 20}, {14, 21},
		{14, 22}, {12, 22}, {10, 22}, {10, 21},
	}
	for i, w := range want {
		h := r.Handle(i)
		if h.X != w[0] || h.Y != w[1] {
			t.Errorf("handle %d = (%v,%v), want (%v,%v)", i, h.X, h.Y, w[0], w[1])
		}
	}
	for i := 0; i < 8; i += 2 {
		if r.Handle(i).Role != RoleVertex {
			t.Errorf("handle %d role = %q, want corner", i, r.Handle(i).Role)
		}
		if r.Handle(i+1).Role != RoleMidpoint {
			t.Errorf("handle %d role = %q, want midpoint", i+1, r.Handle(i+1).Role)
		}
	}
}

func TestRectHandleWrapsModularly(t *testing.T) {
	s := NewSession()
	r := NewRect(s, 0, 0, 2, 2)

	if r.Handle(8) != r.Handle(0) || r.Handle(-1) != r.Handle(7) {
		t.Error("handle index must wrap modulo 8")
	}
}

func TestRectOppositeHandle(t *testing.T) {
	s := NewSession()
	r := NewRect(s, 0, 0, 2, 2)

	cases := [][2]int{{0, 4}, {1, 5}, {4, 0}, {7, 3}}
	for _, c := range cases {
		if got := r.OppositeHandle(c[0]); got != c[1] {
			t.Errorf("OppositeHandle(%d) = %d, want %d", c[0], got, c[1])
		}
	}
}

func TestRectMidpointsFollowCorners(t *testing.T) {
	s := NewSession()
	r := NewRect(s, 0, 0, 2, 2)

	// Drag the bottom-right corner and resync.
	r.Handle(4).MoveTo(6, 4)
	r.RefreshMidpoints()

	if m := r.Handle(3); m.X != 4 || m.Y != 2 {
		t.Errorf("right midpoint = (%v,%v), want (4,2)", m.X, m.Y)
	}
	if m := r.Handle(5); m.X != 3 || m.Y != 3 {
		t.Errorf("bottom midpoint = (%v,%v), want (3,3)", m.X, m.Y)
	}
	if r.W() != 6 || r.H() != 4 {
		t.Errorf("size = %vx%v, want 6x4", r.W(), r.H())
	}
}

func TestRectCopyIsDisjoint(t *testing.T) {
	s := NewSession()
	r := NewRect(s, 1, 2, 3, 4)
	c := r.Copy()

	if !r.Equals(c) {
		t.Fatal("copy does not compare equal")
	}
	if c.ID() == r.ID() {
		t.Error("copy shares the source id")
	}
	for i := 0; i < 8; i++ {
		if r.Handle(i) == c.Handle(i) {
			t.Fatalf("copy aliases handle %d", i)
		}
	}
	c.SetRect(9, 9, 1, 1)
	if r.X() != 1 {
		t.Error("mutating the copy reached the source")
	}
}
