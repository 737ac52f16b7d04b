package shape

import (
	"math"
	"testing"
)

func TestLineEdgeMidpointTracksEndpoints(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 2, 2, RoleVertex)
	e := NewEdge(s, a, b, EdgeLine)

	points := e.ControlPoints()
	if len(points) != 1 {
		t.Fatalf("line edge has %d auxiliary points, want 1", len(points))
	}
	if points[0].X != 1 || points[0].Y != 1 {
		t.Errorf("midpoint = (%v,%v), want (1,1)", points[0].X, points[0].Y)
	}
	if points[0].ID() > 0 {
		t.Error("derived midpoint must be temporary")
	}

	b.MoveTo(4, 0)
	points = e.ControlPoints()
	if points[0].X != 2 || points[0].Y != 0 {
		t.Errorf("midpoint after endpoint move = (%v,%v), want (2,0)", points[0].X, points[0].Y)
	}
}

func TestBezierControlPointsAtThirds(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 3, 0, RoleVertex)
	e := NewEdge(s, a, b, EdgeLine)

	e.SetKind(EdgeBezier)
	points := e.ControlPoints()
	if len(points) != 2 {
		t.Fatalf("bezier edge has %d control points, want 2", len(points))
	}
	if points[0].X != 1 || points[0].Y != 0 || points[1].X != 2 || points[1].Y != 0 {
		t.Errorf("control points = (%v,%v),(%v,%v), want (1,0),(2,0)",
			points[0].X, points[0].Y, points[1].X, points[1].Y)
	}
	if points[0].Role != RoleControl {
		t.Errorf("control point role = %q, want %q", points[0].Role, RoleControl)
	}

	// Unlike the derived midpoint, user-owned control points do not move
	// when an endpoint moves.
	b.MoveTo(30, 0)
	if got := e.ControlPoints()[0]; got.X != 1 {
		t.Errorf("control point moved to x=%v after endpoint edit", got.X)
	}
}

func TestEdgeConvertWithPointsKeepsCurvature(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 3, 0, RoleVertex)
	e := NewEdge(s, a, b, EdgeLine)

	c1 := NewVertex(s, 0.5, 2, RoleControl)
	c2 := NewVertex(s, 2.5, 2, RoleControl)
	e.ConvertWithPoints(EdgeBezier, c1, c2)

	points := e.ControlPoints()
	if points[0] != c1 || points[1] != c2 {
		t.Error("explicit control points were regenerated")
	}
	if e.Size() != 3 {
		t.Errorf("bezier Size = %d, want 3", e.Size())
	}

	e.SetKind(EdgeLine)
	if e.Size() != 2 {
		t.Errorf("line Size = %d, want 2", e.Size())
	}
	if s.Has(c1.ID()) || s.Has(c2.ID()) {
		t.Error("discarded control points still registered")
	}
}

func TestEdgeReverse(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 3, 0, RoleVertex)
	e := NewEdge(s, a, b, EdgeBezier)

	e.Reverse()
	if e.Src != b || e.Dst != a {
		t.Error("endpoints not swapped")
	}
	points := e.ControlPoints()
	if points[0].X != 2 || points[1].X != 1 {
		t.Errorf("control order = %v,%v, want 2,1", points[0].X, points[1].X)
	}
}

func TestEdgeLength(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 6, 0, RoleVertex)

	line := NewEdge(s, a, b, EdgeLine)
	if got := line.Length(); math.Abs(got-6) > 1e-12 {
		t.Errorf("line length = %v, want 6", got)
	}

	bez := NewEdge(s, a, b, EdgeBezier)
	// Control polygon through the thirds is the chord itself.
	if got := bez.Length(); math.Abs(got-6) > 1e-9 {
		t.Errorf("bezier control-polygon length = %v, want 6", got)
	}
}

func TestEdgeContains(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 2, 0, RoleVertex)
	e := NewEdge(s, a, b, EdgeLine)

	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"interior", 1, 0, true},
		{"source endpoint", 0, 0, false},
		{"destination endpoint", 2, 0, false},
		{"off the line", 1, 1, false},
		{"collinear beyond", 3, 0, false},
	}
	for _, tc := range cases {
		p := NewVertexWithID(s, tc.x, tc.y, RoleVertex, temporaryID)
		if got := e.Contains(p); got != tc.want {
			t.Errorf("%s: Contains(%v,%v) = %v, want %v", tc.name, tc.x, tc.y, got, tc.want)
		}
	}
}

func TestEdgeIntersectWith(t *testing.T) {
	s := NewSession()
	edge := func(x1, y1, x2, y2 float64) *Edge {
		a := NewVertexWithID(s, x1, y1, RoleVertex, temporaryID)
		b := NewVertexWithID(s, x2, y2, RoleVertex, temporaryID)
		return NewEdgeWithID(s, a, b, EdgeLine, temporaryID)
	}

	cases := []struct {
		name string
		a, b *Edge
		want bool
	}{
		{"interior crossing", edge(0, 0, 2, 2), edge(0, 2, 2, 0), true},
		{"shared endpoint only", edge(0, 0, 2, 0), edge(2, 0, 3, 1), false},
		{"collinear overlap", edge(0, 0, 2, 0), edge(1, 0, 3, 0), true},
		{"collinear touching at endpoint", edge(0, 0, 2, 0), edge(2, 0, 4, 0), false},
		{"parallel apart", edge(0, 0, 2, 0), edge(0, 1, 2, 1), false},
		{"structurally equal", edge(0, 0, 2, 0), edge(2, 0, 0, 0), true},
		{"disjoint", edge(0, 0, 1, 0), edge(5, 5, 6, 6), false},
	}
	for _, tc := range cases {
		if got := tc.a.IntersectWith(tc.b); got != tc.want {
			t.Errorf("%s: IntersectWith = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.b.IntersectWith(tc.a); got != tc.want {
			t.Errorf("%s (flipped): IntersectWith = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEdgeEquals(t *testing.T) {
	s := NewSession()
	a := NewVertex(s, 0, 0, RoleVertex)
	b := NewVertex(s, 3, 0, RoleVertex)
	c := NewVertex(s, 0, 0, RoleVertex)
	d := NewVertex(s, 3, 0, RoleVertex)

	forward := NewEdge(s, a, b, EdgeBezier)
	backward := NewEdge(s, d, c, EdgeBezier)
	if !forward.Equals(backward) {
		t.Error("undirected equality must match reversed endpoint order")
	}

	line := NewEdge(s, a, b, EdgeLine)
	if forward.Equals(line) {
		t.Error("different kinds must not compare equal")
	}

	skewed := NewEdgeWithID(s, c, d, EdgeBezier, s.NextID(),
		NewVertex(s, 1, 5, RoleControl), NewVertex(s, 2, 5, RoleControl))
	if forward.Equals(skewed) {
		t.Error("differing control points must not compare equal")
	}
}
