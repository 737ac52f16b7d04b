package shape

import "testing"

func buildPath(s *Session, coords ...[2]float64) *Path {
	p := NewPath(s)
	for i, c := range coords {
		p.InsertVertexAt(i, NewVertex(s, c[0], c[1], RoleVertex))
	}
	return p
}

func checkAligned(t *testing.T, p *Polyline) {
	t.Helper()
	n := len(p.Vertices())
	for i, e := range p.Edges() {
		if e.Src != p.Vertices()[i] {
			t.Errorf("edge %d source misaligned", i)
		}
		if e.Dst != p.Vertices()[(i+1)%n] {
			t.Errorf("edge %d destination misaligned", i)
		}
	}
}

func TestPathInsertBuildsChain(t *testing.T) {
	s := NewSession()
	p := buildPath(s, [2]float64{0, 0}, [2]float64{2, 2})

	p.InsertVertexAt(1, NewVertex(s, 1, 1, RoleVertex))

	if p.Len() != 3 || len(p.Edges()) != 2 {
		t.Fatalf("got %d vertices, %d edges, want 3, 2", p.Len(), len(p.Edges()))
	}
	want := [][2]float64{{0, 0}, {1, 1}, {2, 2}}
	for i, w := range want {
		v := p.Vertices()[i]
		if v.X != w[0] || v.Y != w[1] {
			t.Errorf("vertex %d = (%v,%v), want (%v,%v)", i, v.X, v.Y, w[0], w[1])
		}
	}
	for i, e := range p.Edges() {
		if e.Kind() != EdgeLine {
			t.Errorf("edge %d kind = %q, want line", i, e.Kind())
		}
		mid := e.ControlPoints()[0]
		wantX := (e.Src.X + e.Dst.X) / 2
		wantY := (e.Src.Y + e.Dst.Y) / 2
		if mid.X != wantX || mid.Y != wantY {
			t.Errorf("edge %d midpoint = (%v,%v), want (%v,%v)", i, mid.X, mid.Y, wantX, wantY)
		}
	}
	checkAligned(t, &p.Polyline)
}

func TestPathInsertAtEnds(t *testing.T) {
	s := NewSession()
	p := buildPath(s, [2]float64{1, 0}, [2]float64{2, 0})

	p.InsertVertexAt(0, NewVertex(s, 0, 0, RoleVertex))
	p.InsertVertexAt(3, NewVertex(s, 3, 0, RoleVertex))

	if p.Len() != 4 || len(p.Edges()) != 3 {
		t.Fatalf("got %d vertices, %d edges, want 4, 3", p.Len(), len(p.Edges()))
	}
	checkAligned(t, &p.Polyline)
	if p.Vertices()[0].X != 0 || p.Vertices()[3].X != 3 {
		t.Error("boundary insertion out of order")
	}
}

func TestPathInsertOutOfRangeIsNoOp(t *testing.T) {
	s := NewSession()
	p := buildPath(s, [2]float64{0, 0}, [2]float64{1, 1})

	p.InsertVertexAt(-1, NewVertex(s, 9, 9, RoleVertex))
	p.InsertVertexAt(5, NewVertex(s, 9, 9, RoleVertex))
	if p.Len() != 2 {
		t.Errorf("out-of-range insert changed the path: %d vertices", p.Len())
	}
	p.DeleteVertexAt(7)
	p.DeleteVertexAt(-2)
	if p.Len() != 2 {
		t.Errorf("out-of-range delete changed the path: %d vertices", p.Len())
	}
}

func TestPathDeleteInteriorMergesToLine(t *testing.T) {
	s := NewSession()
	p := buildPath(s, [2]float64{0, 0}, [2]float64{1, 1}, [2]float64{2, 0})
	p.Edges()[0].SetKind(EdgeBezier)
	p.Edges()[1].SetKind(EdgeBezier)

	p.DeleteVertexAt(1)

	if p.Len() != 2 || len(p.Edges()) != 1 {
		t.Fatalf("got %d vertices, %d edges, want 2, 1", p.Len(), len(p.Edges()))
	}
	bridge := p.Edges()[0]
	if bridge.Kind() != EdgeLine {
		t.Errorf("bridge kind = %q, curvature merge must degrade to line", bridge.Kind())
	}
	if bridge.Src.X != 0 || bridge.Dst.X != 2 {
		t.Error("bridge does not connect the former neighbors")
	}
}

func TestPathDeleteBoundaryAndLast(t *testing.T) {
	s := NewSession()
	p := buildPath(s, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{2, 0})

	p.DeleteVertexAt(0)
	if p.Len() != 2 || len(p.Edges()) != 1 {
		t.Fatalf("after front delete: %d vertices, %d edges", p.Len(), len(p.Edges()))
	}
	p.DeleteVertexAt(1)
	if p.Len() != 1 || len(p.Edges()) != 0 {
		t.Fatalf("after back delete: %d vertices, %d edges", p.Len(), len(p.Edges()))
	}
	p.DeleteVertexAt(0)
	if p.Len() != 0 {
		t.Fatal("path not empty after deleting the last vertex")
	}
}

func TestPathReverseRealigns(t *testing.T) {
	s := NewSession()
	p := buildPath(s, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{2, 1})

	p.Reverse()
	if p.Vertices()[0].X != 2 || p.Vertices()[2].X != 0 {
		t.Error("vertex order not reversed")
	}
	checkAligned(t, &p.Polyline)
}

func TestPathEqualsIsPure(t *testing.T) {
	s := NewSession()
	a := buildPath(s, [2]float64{0, 0}, [2]float64{1, 1}, [2]float64{2, 0})
	b := buildPath(s, [2]float64{2, 0}, [2]float64{1, 1}, [2]float64{0, 0})

	if !a.Equals(b) {
		t.Error("reversed path must compare equal")
	}
	// Equality must not have reversed b as a side effect.
	if b.Vertices()[0].X != 2 {
		t.Error("Equals mutated its argument")
	}

	c := buildPath(s, [2]float64{0, 0}, [2]float64{1, 2}, [2]float64{2, 0})
	if a.Equals(c) {
		t.Error("different geometry must not compare equal")
	}
}

func TestPathSelfIntersection(t *testing.T) {
	s := NewSession()
	straight := buildPath(s, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{2, 0})
	if straight.IsSelfIntersecting() {
		t.Error("straight chain reported self-intersecting")
	}
	if !straight.IsValid() {
		t.Error("straight chain reported invalid")
	}

	crossed := buildPath(s,
		[2]float64{0, 0}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 2})
	if !crossed.IsSelfIntersecting() {
		t.Error("crossing chain not reported self-intersecting")
	}
	if crossed.IsValid() {
		t.Error("crossing chain reported valid")
	}
}

func TestPathCopyIsDisjoint(t *testing.T) {
	s := NewSession()
	p := buildPath(s, [2]float64{0, 0}, [2]float64{1, 1}, [2]float64{2, 0})
	p.Edges()[0].SetKind(EdgeBezier)

	c := p.Copy()
	if !p.Equals(c) {
		t.Fatal("copy does not compare equal to the source")
	}
	for i, v := range c.Vertices() {
		if v == p.Vertices()[i] {
			t.Fatalf("copy aliases vertex %d", i)
		}
		if v.ID() == p.Vertices()[i].ID() {
			t.Errorf("copy shares id of vertex %d", i)
		}
	}
	c.Vertices()[0].MoveTo(50, 50)
	if p.Vertices()[0].X != 0 {
		t.Error("mutating the copy reached the source graph")
	}
}

func TestPathCentroidAndBounds(t *testing.T) {
	s := NewSession()
	p := buildPath(s, [2]float64{0, 0}, [2]float64{2, 0}, [2]float64{1, 3})

	cx, cy := p.Centroid()
	if cx != 1 || cy != 1 {
		t.Errorf("centroid = (%v,%v), want (1,1)", cx, cy)
	}
	b := p.Bounds()
	if b.X != 0 || b.Y != 0 || b.Width != 2 || b.Height != 3 {
		t.Errorf("bounds = %+v", b)
	}
}
