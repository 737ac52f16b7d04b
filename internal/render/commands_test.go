package render

import (
	"testing"

	"github.com/annotato/annotato/backend-go/internal/shape"
)

func TestCompilePathCommands(t *testing.T) {
	s := shape.NewSession()
	p := shape.NewPath(s)
	p.InsertVertexAt(0, shape.NewVertex(s, 0, 0, shape.RoleVertex))
	p.InsertVertexAt(1, shape.NewVertex(s, 4, 0, shape.RoleVertex))
	p.InsertVertexAt(2, shape.NewVertex(s, 4, 3, shape.RoleVertex))
	p.Edges()[1].SetKind(shape.EdgeBezier)

	ds := CompileShape(p)
	if ds.Type != shape.ShapePath {
		t.Fatalf("type = %q", ds.Type)
	}
	if len(ds.Commands) != 3 {
		t.Fatalf("commands = %d, want 3", len(ds.Commands))
	}
	if ds.Commands[0][0] != "M" || ds.Commands[1][0] != "L" || ds.Commands[2][0] != "C" {
		t.Fatalf("command ops = %v %v %v", ds.Commands[0][0], ds.Commands[1][0], ds.Commands[2][0])
	}
	// 3 vertices + 1 line midpoint + 2 bezier control points
	if len(ds.Handles) != 6 {
		t.Fatalf("handles = %d, want 6", len(ds.Handles))
	}
}

func TestCompilePolygonCloses(t *testing.T) {
	s := shape.NewSession()
	p := shape.NewPolygon(s)
	p.InsertVertexAt(0, shape.NewVertex(s, 0, 0, shape.RoleVertex))
	p.InsertVertexAt(1, shape.NewVertex(s, 2, 0, shape.RoleVertex))
	p.InsertVertexAt(2, shape.NewVertex(s, 2, 2, shape.RoleVertex))

	ds := CompileShape(p)
	last := ds.Commands[len(ds.Commands)-1]
	if last[0] != "Z" {
		t.Fatalf("last command = %v, want Z", last[0])
	}
	// M + 3 cycle edges + Z
	if len(ds.Commands) != 5 {
		t.Fatalf("commands = %d, want 5", len(ds.Commands))
	}
}

func TestCompileRect(t *testing.T) {
	s := shape.NewSession()
	r := shape.NewRect(s, 10, 20, 4, 2)

	ds := CompileShape(r)
	if len(ds.Commands) != 5 {
		t.Fatalf("commands = %d, want 5", len(ds.Commands))
	}
	if len(ds.Handles) != 8 {
		t.Fatalf("handles = %d, want 8", len(ds.Handles))
	}
	if ds.Handles[0] != [2]float64{10, 20} || ds.Handles[4] != [2]float64{14, 22} {
		t.Fatalf("corner handles wrong: %v %v", ds.Handles[0], ds.Handles[4])
	}
}

func TestHitTestTopmost(t *testing.T) {
	s := shape.NewSession()
	bottom := shape.NewRect(s, 0, 0, 10, 10)
	top := shape.NewRect(s, 4, 4, 2, 2)

	shapes := []shape.Shape{bottom, top}
	if got := HitTest(shapes, 5, 5); got != top.ID() {
		t.Fatalf("hit = %d, want %d", got, top.ID())
	}
	if got := HitTest(shapes, 1, 1); got != bottom.ID() {
		t.Fatalf("hit = %d, want %d", got, bottom.ID())
	}
	if got := HitTest(shapes, 50, 50); got != 0 {
		t.Fatalf("hit = %d, want 0", got)
	}
}
