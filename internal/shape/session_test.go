package shape

import "testing"

func TestSessionAutoIDsAreStrictlyIncreasing(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 1, 1, RoleVertex)
	if a.ID() != 1 || b.ID() != 2 {
		t.Fatalf("got ids %d, %d, want 1, 2", a.ID(), b.ID())
	}
	if s.MaxID() != 2 {
		t.Errorf("MaxID = %d, want 2", s.MaxID())
	}
}

func TestSessionExplicitIDRaisesWatermark(t *testing.T) {
	s := NewSession()
	NewVertexWithID(s, 0, 0, RoleVertex, 40)
	v := NewVertex(s, 1, 1, RoleVertex)
	if v.ID() != 41 {
		t.Errorf("auto id after explicit 40 = %d, want 41", v.ID())
	}
}

func TestSessionTemporaryIDsBypassRegistry(t *testing.T) {
	s := NewSession()
	NewVertexWithID(s, 0, 0, RoleVertex, -1)
	NewVertexWithID(s, 0, 0, RoleVertex, 0)
	if s.MaxID() != 0 {
		t.Errorf("MaxID = %d, want 0", s.MaxID())
	}
	if s.Has(-1) || s.Has(0) {
		t.Error("temporary entities must stay invisible to the registry")
	}
}

func TestSessionCollisionResolution(t *testing.T) {
	s := NewSession()
	first := NewVertexWithID(s, 0, 0, RoleVertex, 7)
	second := NewVertexWithID(s, 1, 1, RoleVertex, 7)

	got, ok := s.Lookup(7)
	if !ok || got != Entity(first) {
		t.Fatal("original registration must survive a collision")
	}

	s.ResolveCollisions()
	if second.ID() != 8 {
		t.Errorf("colliding entity resolved to id %d, want 8", second.ID())
	}
	if got, _ := s.Lookup(8); got != Entity(second) {
		t.Error("resolved entity not registered under its new id")
	}

	// Resolution runs once; the queue must be empty afterwards.
	s.ResolveCollisions()
	if s.MaxID() != 8 {
		t.Errorf("MaxID = %d after no-op resolution, want 8", s.MaxID())
	}
}

func TestSessionUnregisterAndReset(t *testing.T) {
	s := NewSession()
	v := NewVertex(s, 0, 0, RoleVertex)
	s.Unregister(v.ID())
	if s.Has(v.ID()) {
		t.Error("unregistered id still present")
	}
	// Freed ids are not reissued.
	if next := NewVertex(s, 0, 0, RoleVertex); next.ID() != 2 {
		t.Errorf("id after unregister = %d, want 2", next.ID())
	}

	s.Reset()
	if s.MaxID() != 0 {
		t.Errorf("MaxID after reset = %d, want 0", s.MaxID())
	}
	if v := NewVertex(s, 0, 0, RoleVertex); v.ID() != 1 {
		t.Errorf("first id after reset = %d, want 1", v.ID())
	}
}
