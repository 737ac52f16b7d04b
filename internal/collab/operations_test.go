package collab

import (
	"testing"

	"github.com/annotato/annotato/backend-go/internal/document"
	"github.com/annotato/annotato/backend-go/internal/shape"
)

func newTestState(t *testing.T) *DocumentState {
	t.Helper()
	doc := document.NewEmptyDocument("task_1", "proj_1", "test", []string{"car"})
	doc.AddItem(document.Item{ID: "item_1", URL: "img/frame.jpg", Width: 1280, Height: 720})
	ds, err := NewDocumentState(doc)
	if err != nil {
		t.Fatalf("NewDocumentState: %v", err)
	}
	return ds
}

func pathRecord(id int, coords ...[2]float64) *shape.ShapeRecord {
	rec := &shape.PolylineRecord{ID: id}
	base := id * 100
	for i, c := range coords {
		rec.Vertices = append(rec.Vertices, shape.VertexRecord{
			ID: base + i, Role: shape.RoleVertex, X: c[0], Y: c[1],
		})
	}
	for i := 0; i < len(coords)-1; i++ {
		rec.Edges = append(rec.Edges, shape.EdgeRecord{
			ID: base + 50 + i, Src: base + i, Dst: base + i + 1, Kind: shape.EdgeLine,
		})
	}
	return &shape.ShapeRecord{Type: shape.ShapePath, Path: rec}
}

func createLabel(t *testing.T, ds *DocumentState, labelID string, rec *shape.ShapeRecord) int {
	t.Helper()
	_, shapeID, err := ds.ApplyOperation(Operation{
		Type:     OpLabelCreate,
		LabelID:  labelID,
		ItemID:   "item_1",
		Category: "car",
		Record:   rec,
	})
	if err != nil {
		t.Fatalf("label.create: %v", err)
	}
	return shapeID
}

func TestLabelCreateAndDelete(t *testing.T) {
	ds := newTestState(t)

	rec := &shape.ShapeRecord{
		Type: shape.ShapeRect,
		Rect: &shape.RectRecord{ID: 7, X: 10, Y: 20, W: 4, H: 2},
	}
	shapeID := createLabel(t, ds, "label_1", rec)
	if shapeID != 7 {
		t.Fatalf("shape id = %d, want 7", shapeID)
	}
	if len(ds.doc.Shapes) != 1 {
		t.Fatalf("records = %d, want 1", len(ds.doc.Shapes))
	}
	if got := ds.doc.Items["item_1"].Labels; len(got) != 1 || got[0] != "label_1" {
		t.Fatalf("item labels = %v", got)
	}

	if _, _, err := ds.ApplyOperation(Operation{Type: OpLabelDelete, LabelID: "label_1"}); err != nil {
		t.Fatalf("label.delete: %v", err)
	}
	if len(ds.doc.Shapes) != 0 {
		t.Fatalf("records after delete = %d", len(ds.doc.Shapes))
	}
	if ds.Shape(shapeID) != nil {
		t.Fatal("shape still live after label delete")
	}
}

func TestLabelCreateRenumbersCollision(t *testing.T) {
	ds := newTestState(t)

	first := &shape.ShapeRecord{
		Type: shape.ShapeRect,
		Rect: &shape.RectRecord{ID: 5, X: 0, Y: 0, W: 1, H: 1},
	}
	createLabel(t, ds, "label_1", first)

	// Same id from a second client gets renumbered on import.
	second := &shape.ShapeRecord{
		Type: shape.ShapeRect,
		Rect: &shape.RectRecord{ID: 5, X: 9, Y: 9, W: 1, H: 1},
	}
	shapeID := createLabel(t, ds, "label_2", second)
	if shapeID == 5 {
		t.Fatal("colliding shape id was not renumbered")
	}
	if len(ds.doc.Shapes) != 2 {
		t.Fatalf("records = %d, want 2", len(ds.doc.Shapes))
	}
}

func TestVertexOperations(t *testing.T) {
	ds := newTestState(t)
	shapeID := createLabel(t, ds, "label_1", pathRecord(1, [2]float64{0, 0}, [2]float64{4, 0}))

	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpInsertVertex, ShapeID: shapeID, Index: 1, X: 2, Y: 2,
	}); err != nil {
		t.Fatalf("insertVertex: %v", err)
	}

	p := ds.Shape(shapeID).(*shape.Path)
	if p.Len() != 3 {
		t.Fatalf("len = %d, want 3", p.Len())
	}

	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpMoveVertex, ShapeID: shapeID, Index: 1, X: 2, Y: 5,
	}); err != nil {
		t.Fatalf("moveVertex: %v", err)
	}
	if v := p.Vertices()[1]; v.X != 2 || v.Y != 5 {
		t.Fatalf("vertex at (%v, %v)", v.X, v.Y)
	}

	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpDeleteVertex, ShapeID: shapeID, Index: 1,
	}); err != nil {
		t.Fatalf("deleteVertex: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("len after delete = %d, want 2", p.Len())
	}

	// Records follow the live graph.
	if got := len(ds.doc.Shapes[0].Path.Vertices); got != 2 {
		t.Fatalf("record vertices = %d, want 2", got)
	}
}

func TestConvertEdgeWithExplicitControls(t *testing.T) {
	ds := newTestState(t)
	shapeID := createLabel(t, ds, "label_1", pathRecord(1, [2]float64{0, 0}, [2]float64{3, 0}))

	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpConvertEdge, ShapeID: shapeID, EdgeIndex: 0,
		Kind:          shape.EdgeBezier,
		ControlPoints: [][2]float64{{1, 1}, {2, 1}},
	}); err != nil {
		t.Fatalf("convertEdge: %v", err)
	}

	p := ds.Shape(shapeID).(*shape.Path)
	e := p.Edges()[0]
	if e.Kind() != shape.EdgeBezier {
		t.Fatalf("kind = %q", e.Kind())
	}
	cp := e.ControlPoints()
	if cp[0].Y != 1 || cp[1].Y != 1 {
		t.Fatalf("control points = (%v,%v) (%v,%v)", cp[0].X, cp[0].Y, cp[1].X, cp[1].Y)
	}

	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpConvertEdge, ShapeID: shapeID, EdgeIndex: 0, Kind: shape.EdgeLine,
	}); err != nil {
		t.Fatalf("convert back to line: %v", err)
	}
	if e.Kind() != shape.EdgeLine {
		t.Fatalf("kind = %q", e.Kind())
	}
}

func TestRectSetAndMoveHandle(t *testing.T) {
	ds := newTestState(t)
	rec := &shape.ShapeRecord{
		Type: shape.ShapeRect,
		Rect: &shape.RectRecord{ID: 3, X: 0, Y: 0, W: 10, H: 10},
	}
	shapeID := createLabel(t, ds, "label_1", rec)

	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpRectSet, ShapeID: shapeID, X: 5, Y: 5, W: 20, H: 8,
	}); err != nil {
		t.Fatalf("rect.set: %v", err)
	}

	r := ds.Shape(shapeID).(*shape.Rect)
	if r.X() != 5 || r.Y() != 5 || r.W() != 20 || r.H() != 8 {
		t.Fatalf("rect = (%v, %v, %v, %v)", r.X(), r.Y(), r.W(), r.H())
	}

	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpRectSet, ShapeID: shapeID, X: 0, Y: 0, W: -1, H: 5,
	}); err == nil {
		t.Fatal("negative size accepted")
	}
}

func TestPushPathBetweenPolygons(t *testing.T) {
	ds := newTestState(t)

	square := &shape.PolylineRecord{
		ID: 1,
		Vertices: []shape.VertexRecord{
			{ID: 10, Role: shape.RoleVertex, X: 0, Y: 0},
			{ID: 11, Role: shape.RoleVertex, X: 2, Y: 0},
			{ID: 12, Role: shape.RoleVertex, X: 2, Y: 2},
			{ID: 13, Role: shape.RoleVertex, X: 0, Y: 2},
		},
		Edges: []shape.EdgeRecord{
			{ID: 20, Src: 10, Dst: 11, Kind: shape.EdgeLine},
			{ID: 21, Src: 11, Dst: 12, Kind: shape.EdgeLine},
			{ID: 22, Src: 12, Dst: 13, Kind: shape.EdgeLine},
			{ID: 23, Src: 13, Dst: 10, Kind: shape.EdgeLine},
		},
	}
	sourceID := createLabel(t, ds, "label_src", &shape.ShapeRecord{Type: shape.ShapePolygon, Polygon: square})

	stub := &shape.PolylineRecord{
		ID: 2,
		Vertices: []shape.VertexRecord{
			{ID: 30, Role: shape.RoleVertex, X: 0, Y: 0},
			{ID: 31, Role: shape.RoleVertex, X: 2, Y: 0},
		},
		Edges: []shape.EdgeRecord{
			{ID: 40, Src: 30, Dst: 31, Kind: shape.EdgeLine},
			{ID: 41, Src: 31, Dst: 30, Kind: shape.EdgeLine},
		},
	}
	targetID := createLabel(t, ds, "label_dst", &shape.ShapeRecord{Type: shape.ShapePolygon, Polygon: stub})

	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpPushPath, ShapeID: targetID, SourceID: sourceID,
		StartID: 11, EndID: 10, UseLong: true,
	}); err != nil {
		t.Fatalf("pushPath: %v", err)
	}

	target := ds.Shape(targetID).(*shape.Polygon)
	if target.Len() != 4 {
		t.Fatalf("target vertices = %d, want 4", target.Len())
	}
}

func TestUnknownShapeRejected(t *testing.T) {
	ds := newTestState(t)
	if _, _, err := ds.ApplyOperation(Operation{
		Type: OpMoveVertex, ShapeID: 99, Index: 0, X: 1, Y: 1,
	}); err == nil {
		t.Fatal("operation on missing shape accepted")
	}
	if ds.Dirty() {
		t.Fatal("failed operation marked document dirty")
	}
}
