package render

import (
	"encoding/json"

	"github.com/annotato/annotato/backend-go/internal/shape"
)

// PathCommand is a single path segment for the canvas frontend.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

// DrawShape is the render-ready form of one shape: path commands in draw
// order, the drag handles the UI exposes, and the hit-test bounds.
type DrawShape struct {
	ID       int             `json:"id"`
	Type     shape.ShapeType `json:"type"`
	Commands []PathCommand   `json:"commands"`
	Handles  [][2]float64    `json:"handles"`
	Bounds   shape.Box       `json:"bounds"`
}

// CompileShape flattens one shape into draw commands. Edge directions are
// realigned before reading, so the commands always walk the boundary in
// vertex order.
func CompileShape(sh shape.Shape) DrawShape {
	out := DrawShape{ID: sh.ID(), Type: sh.Type(), Bounds: sh.Bounds()}
	switch s := sh.(type) {
	case *shape.Path:
		out.Commands, out.Handles = compilePolyline(&s.Polyline)
	case *shape.Polygon:
		out.Commands, out.Handles = compilePolyline(&s.Polyline)
	case *shape.Rect:
		out.Commands, out.Handles = compileRect(s)
	}
	return out
}

func compilePolyline(p *shape.Polyline) ([]PathCommand, [][2]float64) {
	p.AlignEdges()
	var commands []PathCommand
	var handles [][2]float64

	for _, v := range p.Vertices() {
		handles = append(handles, [2]float64{v.X, v.Y})
	}
	if p.Len() == 0 {
		return commands, handles
	}

	first := p.Vertices()[0]
	commands = append(commands, PathCommand{"M", first.X, first.Y})
	for _, e := range p.Edges() {
		switch e.Kind() {
		case shape.EdgeBezier:
			cp := e.ControlPoints()
			commands = append(commands, PathCommand{
				"C", cp[0].X, cp[0].Y, cp[1].X, cp[1].Y, e.Dst.X, e.Dst.Y,
			})
			handles = append(handles, [2]float64{cp[0].X, cp[0].Y}, [2]float64{cp[1].X, cp[1].Y})
		default:
			commands = append(commands, PathCommand{"L", e.Dst.X, e.Dst.Y})
			mid := e.ControlPoints()[0]
			handles = append(handles, [2]float64{mid.X, mid.Y})
		}
	}
	if p.Closed() && p.Len() >= 2 {
		commands = append(commands, PathCommand{"Z"})
	}
	return commands, handles
}

func compileRect(r *shape.Rect) ([]PathCommand, [][2]float64) {
	commands := []PathCommand{
		{"M", r.Handle(0).X, r.Handle(0).Y},
		{"L", r.Handle(2).X, r.Handle(2).Y},
		{"L", r.Handle(4).X, r.Handle(4).Y},
		{"L", r.Handle(6).X, r.Handle(6).Y},
		{"Z"},
	}
	handles := make([][2]float64, 8)
	for i := range handles {
		h := r.Handle(i)
		handles[i] = [2]float64{h.X, h.Y}
	}
	return commands, handles
}

// CompileShapes compiles a document's live shapes in draw order.
func CompileShapes(shapes []shape.Shape) []DrawShape {
	out := make([]DrawShape, 0, len(shapes))
	for _, sh := range shapes {
		out = append(out, CompileShape(sh))
	}
	return out
}

// HitTest returns the id of the topmost shape whose bounds contain the
// point, or 0. Later shapes draw on top.
func HitTest(shapes []shape.Shape, x, y float64) int {
	hit := 0
	for _, sh := range shapes {
		if sh.Bounds().Contains(x, y) {
			hit = sh.ID()
		}
	}
	return hit
}

// ToJSON serializes compiled draw shapes for the wire.
func ToJSON(shapes []DrawShape) (string, error) {
	data, err := json.Marshal(shapes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
