package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/annotato/annotato/backend-go/internal/document"
	"github.com/annotato/annotato/backend-go/internal/shape"
)

// DocumentState holds the authoritative annotation state for a room. The
// shape graph lives in a single session; the document's shape records are
// regenerated from the live graph after every mutation.
type DocumentState struct {
	mu        sync.RWMutex
	doc       *document.TaskDocument
	sess      *shape.Session
	shapes    map[int]shape.Shape
	order     []int // shape ids in draw order
	serverSeq int64
	opLog     []Operation
	dirty     bool
}

// NewDocumentState rebuilds the live shape graph from a persisted document.
func NewDocumentState(doc *document.TaskDocument) (*DocumentState, error) {
	sess := shape.NewSession()
	live, err := shape.ImportShapes(sess, doc.Shapes)
	if err != nil {
		return nil, fmt.Errorf("import shapes: %w", err)
	}

	ds := &DocumentState{
		doc:    doc,
		sess:   sess,
		shapes: make(map[int]shape.Shape, len(live)),
		opLog:  make([]Operation, 0),
	}
	for _, sh := range live {
		ds.shapes[sh.ID()] = sh
		ds.order = append(ds.order, sh.ID())
	}
	return ds, nil
}

// Snapshot marshals the current document.
func (ds *DocumentState) Snapshot() (json.RawMessage, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return json.Marshal(ds.doc)
}

func (ds *DocumentState) ServerSeq() int64 {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.serverSeq
}

// Dirty reports whether the document changed since the last save.
func (ds *DocumentState) Dirty() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.dirty
}

func (ds *DocumentState) MarkSaved() {
	ds.mu.Lock()
	ds.dirty = false
	ds.mu.Unlock()
}

// Shape returns the live shape with the given id, or nil.
func (ds *DocumentState) Shape(id int) shape.Shape {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.shapes[id]
}

// Shapes returns the live shapes in draw order.
func (ds *DocumentState) Shapes() []shape.Shape {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	out := make([]shape.Shape, 0, len(ds.order))
	for _, id := range ds.order {
		if sh, ok := ds.shapes[id]; ok {
			out = append(out, sh)
		}
	}
	return out
}

// ApplyOperation applies a mutation and returns the server sequence plus
// the id of the shape the operation ended up touching (relevant for
// label.create, where a colliding id is renumbered on import).
func (ds *DocumentState) ApplyOperation(op Operation) (int64, int, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	shapeID, err := ds.applyOperationLocked(op)
	if err != nil {
		return 0, 0, err
	}

	ds.syncRecordsLocked()
	ds.serverSeq++
	ds.opLog = append(ds.opLog, op)
	ds.dirty = true

	return ds.serverSeq, shapeID, nil
}

func (ds *DocumentState) applyOperationLocked(op Operation) (int, error) {
	switch op.Type {
	case OpLabelCreate:
		return ds.applyLabelCreate(op)
	case OpLabelDelete:
		return 0, ds.applyLabelDelete(op)
	case OpInsertVertex:
		return op.ShapeID, ds.applyInsertVertex(op)
	case OpDeleteVertex:
		return op.ShapeID, ds.applyDeleteVertex(op)
	case OpMoveVertex:
		return op.ShapeID, ds.applyMoveVertex(op)
	case OpConvertEdge:
		return op.ShapeID, ds.applyConvertEdge(op)
	case OpReverse:
		return op.ShapeID, ds.applyReverse(op)
	case OpPushPath:
		return op.ShapeID, ds.applyPushPath(op)
	case OpRectSet:
		return op.ShapeID, ds.applyRectSet(op)
	default:
		return 0, fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (ds *DocumentState) applyLabelCreate(op Operation) (int, error) {
	if op.Record == nil {
		return 0, fmt.Errorf("label.create requires a shape record")
	}
	if _, ok := ds.doc.Items[op.ItemID]; !ok {
		return 0, fmt.Errorf("item not found: %s", op.ItemID)
	}

	sh, err := shape.ImportShape(ds.sess, *op.Record)
	if err != nil {
		return 0, fmt.Errorf("import shape: %w", err)
	}
	// Colliding ids sit in the session queue until resolved.
	ds.sess.ResolveCollisions()

	ds.shapes[sh.ID()] = sh
	ds.order = append(ds.order, sh.ID())

	label := document.Label{
		ID:         op.LabelID,
		ItemID:     op.ItemID,
		Category:   op.Category,
		Attributes: map[string]string{},
		ShapeIDs:   []int{sh.ID()},
	}
	ds.doc.Labels[label.ID] = label

	item := ds.doc.Items[op.ItemID]
	item.Labels = append(item.Labels, label.ID)
	ds.doc.Items[op.ItemID] = item

	return sh.ID(), nil
}

func (ds *DocumentState) applyLabelDelete(op Operation) error {
	label, ok := ds.doc.Labels[op.LabelID]
	if !ok {
		return fmt.Errorf("label not found: %s", op.LabelID)
	}

	for _, id := range label.ShapeIDs {
		sh, ok := ds.shapes[id]
		if !ok {
			continue
		}
		sh.Discard()
		delete(ds.shapes, id)
		for i, ordered := range ds.order {
			if ordered == id {
				ds.order = append(ds.order[:i], ds.order[i+1:]...)
				break
			}
		}
	}

	if item, ok := ds.doc.Items[label.ItemID]; ok {
		kept := item.Labels[:0]
		for _, lid := range item.Labels {
			if lid != label.ID {
				kept = append(kept, lid)
			}
		}
		item.Labels = kept
		ds.doc.Items[label.ItemID] = item
	}

	delete(ds.doc.Labels, label.ID)
	return nil
}

func (ds *DocumentState) applyInsertVertex(op Operation) error {
	sh, ok := ds.shapes[op.ShapeID]
	if !ok {
		return fmt.Errorf("shape not found: %d", op.ShapeID)
	}

	v := shape.NewVertex(ds.sess, op.X, op.Y, shape.RoleVertex)
	switch s := sh.(type) {
	case *shape.Path:
		s.InsertVertexAt(op.Index, v)
	case *shape.Polygon:
		s.InsertVertexAt(op.Index, v)
	default:
		return fmt.Errorf("shape %d does not support vertex insertion", op.ShapeID)
	}
	return nil
}

func (ds *DocumentState) applyDeleteVertex(op Operation) error {
	sh, ok := ds.shapes[op.ShapeID]
	if !ok {
		return fmt.Errorf("shape not found: %d", op.ShapeID)
	}

	switch s := sh.(type) {
	case *shape.Path:
		s.DeleteVertexAt(op.Index)
	case *shape.Polygon:
		s.DeleteVertexAt(op.Index)
	default:
		return fmt.Errorf("shape %d does not support vertex deletion", op.ShapeID)
	}
	return nil
}

func (ds *DocumentState) applyMoveVertex(op Operation) error {
	sh, ok := ds.shapes[op.ShapeID]
	if !ok {
		return fmt.Errorf("shape not found: %d", op.ShapeID)
	}

	switch s := sh.(type) {
	case *shape.Path:
		return moveVertex(&s.Polyline, op)
	case *shape.Polygon:
		return moveVertex(&s.Polyline, op)
	case *shape.Rect:
		h := s.Handle(op.Index)
		h.MoveTo(op.X, op.Y)
		s.RefreshMidpoints()
		return nil
	default:
		return fmt.Errorf("shape %d has no movable vertices", op.ShapeID)
	}
}

func moveVertex(p *shape.Polyline, op Operation) error {
	if op.Index < 0 || op.Index >= p.Len() {
		return fmt.Errorf("vertex index out of range: %d", op.Index)
	}
	p.Vertices()[op.Index].MoveTo(op.X, op.Y)
	return nil
}

func (ds *DocumentState) applyConvertEdge(op Operation) error {
	sh, ok := ds.shapes[op.ShapeID]
	if !ok {
		return fmt.Errorf("shape not found: %d", op.ShapeID)
	}

	var edges []*shape.Edge
	switch s := sh.(type) {
	case *shape.Path:
		edges = s.Edges()
	case *shape.Polygon:
		edges = s.Edges()
	default:
		return fmt.Errorf("shape %d has no edges", op.ShapeID)
	}

	if op.EdgeIndex < 0 || op.EdgeIndex >= len(edges) {
		return fmt.Errorf("edge index out of range: %d", op.EdgeIndex)
	}
	e := edges[op.EdgeIndex]

	if op.Kind == shape.EdgeBezier && len(op.ControlPoints) == 2 {
		c1 := shape.NewVertex(ds.sess, op.ControlPoints[0][0], op.ControlPoints[0][1], shape.RoleControl)
		c2 := shape.NewVertex(ds.sess, op.ControlPoints[1][0], op.ControlPoints[1][1], shape.RoleControl)
		e.ConvertWithPoints(shape.EdgeBezier, c1, c2)
		return nil
	}

	switch op.Kind {
	case shape.EdgeLine, shape.EdgeBezier:
		e.SetKind(op.Kind)
		return nil
	default:
		return fmt.Errorf("unknown edge kind: %s", op.Kind)
	}
}

func (ds *DocumentState) applyReverse(op Operation) error {
	sh, ok := ds.shapes[op.ShapeID]
	if !ok {
		return fmt.Errorf("shape not found: %d", op.ShapeID)
	}

	switch s := sh.(type) {
	case *shape.Path:
		s.Reverse()
	case *shape.Polygon:
		s.Reverse()
	default:
		return fmt.Errorf("shape %d cannot be reversed", op.ShapeID)
	}
	return nil
}

func (ds *DocumentState) applyPushPath(op Operation) error {
	target, ok := ds.shapes[op.ShapeID].(*shape.Polygon)
	if !ok {
		return fmt.Errorf("target polygon not found: %d", op.ShapeID)
	}
	source, ok := ds.shapes[op.SourceID].(*shape.Polygon)
	if !ok {
		return fmt.Errorf("source polygon not found: %d", op.SourceID)
	}

	vStart := vertexByID(source, op.StartID)
	vEnd := vertexByID(source, op.EndID)
	if vStart == nil || vEnd == nil {
		return fmt.Errorf("splice endpoints not on source polygon")
	}

	target.PushPath(source, vStart, vEnd, op.UseLong, false)
	return nil
}

func (ds *DocumentState) applyRectSet(op Operation) error {
	r, ok := ds.shapes[op.ShapeID].(*shape.Rect)
	if !ok {
		return fmt.Errorf("rect not found: %d", op.ShapeID)
	}
	if op.W < 0 || op.H < 0 {
		return fmt.Errorf("negative rect size")
	}

	r.SetRect(op.X, op.Y, op.W, op.H)
	return nil
}

func vertexByID(p *shape.Polygon, id int) *shape.Vertex {
	for _, v := range p.Vertices() {
		if v.ID() == id {
			return v
		}
	}
	return nil
}

// syncRecordsLocked regenerates the persisted shape records from the live
// graph, preserving draw order.
func (ds *DocumentState) syncRecordsLocked() {
	recs := make([]shape.ShapeRecord, 0, len(ds.order))
	for _, id := range ds.order {
		if sh, ok := ds.shapes[id]; ok {
			recs = append(recs, sh.Record())
		}
	}
	ds.doc.Shapes = recs
}

// GetServerTimestamp returns the current server timestamp.
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
