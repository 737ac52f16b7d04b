package shape

import "fmt"

// ShapeType discriminates the closed set of top-level shape variants.
type ShapeType string

const (
	ShapePath    ShapeType = "path"
	ShapePolygon ShapeType = "polygon"
	ShapeRect    ShapeType = "rect"
)

// Shape is a top-level annotatable geometry: Path, Polygon or Rect.
type Shape interface {
	Entity
	Type() ShapeType
	Bounds() Box
	Record() ShapeRecord
	// Discard removes the shape and everything it owns from the registry.
	Discard()
}

// VertexRecord is the persisted form of a vertex.
type VertexRecord struct {
	ID   int     `json:"id"`
	Role Role    `json:"role"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// EdgeRecord is the persisted form of an edge. Control points are present
// only for bezier edges; a line edge's midpoint is derived, never stored.
type EdgeRecord struct {
	ID            int            `json:"id"`
	Src           int            `json:"src"`
	Dst           int            `json:"dst"`
	Kind          EdgeKind       `json:"kind"`
	ControlPoints []VertexRecord `json:"controlPoints,omitempty"`
}

// PolylineRecord is the persisted form of a path or polygon body.
type PolylineRecord struct {
	ID       int            `json:"id"`
	Vertices []VertexRecord `json:"vertices"`
	Edges    []EdgeRecord   `json:"edges"`
}

// RectRecord is the persisted form of a rect.
type RectRecord struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

// ShapeRecord is the tagged union stored in documents. Exactly the variant
// named by Type is populated; decode validates this and fails the whole
// document rather than producing a partially-initialized shape.
type ShapeRecord struct {
	Type    ShapeType       `json:"type"`
	Path    *PolylineRecord `json:"path,omitempty"`
	Polygon *PolylineRecord `json:"polygon,omitempty"`
	Rect    *RectRecord     `json:"rect,omitempty"`
}

// --- export ---

// Record exports the vertex.
func (v *Vertex) Record() VertexRecord {
	return VertexRecord{ID: v.id, Role: v.Role, X: v.X, Y: v.Y}
}

// Record exports the edge. Endpoints are stored by id.
func (e *Edge) Record() EdgeRecord {
	rec := EdgeRecord{ID: e.id, Src: e.Src.ID(), Dst: e.Dst.ID(), Kind: e.kind}
	if e.kind == EdgeBezier {
		for _, p := range e.points {
			rec.ControlPoints = append(rec.ControlPoints, p.Record())
		}
	}
	return rec
}

// record exports the shared polyline body with realigned edge directions.
// Only committed geometry is serialized; a live preview splice contributes
// nothing.
func (p *Polyline) record() PolylineRecord {
	p.AlignEdges()
	vs, es := p.committedGeometry()
	rec := PolylineRecord{ID: p.id}
	for _, v := range vs {
		rec.Vertices = append(rec.Vertices, v.Record())
	}
	for _, e := range es {
		rec.Edges = append(rec.Edges, e.Record())
	}
	return rec
}

// Record exports the path as a tagged shape record.
func (p *Path) Record() ShapeRecord {
	body := p.record()
	return ShapeRecord{Type: ShapePath, Path: &body}
}

// Record exports the polygon as a tagged shape record.
func (p *Polygon) Record() ShapeRecord {
	body := p.record()
	return ShapeRecord{Type: ShapePolygon, Polygon: &body}
}

// Record exports the rect as a tagged shape record.
func (r *Rect) Record() ShapeRecord {
	body := RectRecord{ID: r.id, X: r.X(), Y: r.Y(), W: r.W(), H: r.H()}
	return ShapeRecord{Type: ShapeRect, Rect: &body}
}

// Discard removes the shape graph from the registry.
func (p *Polyline) Discard() { p.unregisterGraph() }

// Discard removes the rect and its handles from the registry.
func (r *Rect) Discard() { r.unregisterGraph() }

// --- import ---

// ImportVertex builds a vertex from its record. If a vertex with the same
// id, role and coordinates is already registered it is reused, so re-import
// is idempotent; otherwise a new vertex is constructed subject to collision
// queuing.
func ImportVertex(s *Session, rec VertexRecord) (*Vertex, error) {
	switch rec.Role {
	case RoleVertex, RoleMidpoint, RoleControl:
	default:
		return nil, fmt.Errorf("vertex %d: unknown role %q", rec.ID, rec.Role)
	}
	if existing := s.vertexByID(rec.ID); existing != nil &&
		existing.Role == rec.Role &&
		existing.Equals(&Vertex{X: rec.X, Y: rec.Y}) {
		return existing, nil
	}
	return NewVertexWithID(s, rec.X, rec.Y, rec.Role, rec.ID), nil
}

// ImportEdge builds an edge from its record, resolving the endpoints through
// the registry. The referenced vertices must already be imported; an
// unresolved endpoint is a hard failure since the document is malformed.
func ImportEdge(s *Session, rec EdgeRecord) (*Edge, error) {
	return importEdge(s, rec, nil)
}

// importEdge resolves endpoints against local first (the vertices declared
// by the same document, which may still be queued as colliding) and falls
// back to the registry.
func importEdge(s *Session, rec EdgeRecord, local map[int]*Vertex) (*Edge, error) {
	resolve := func(id int) *Vertex {
		if v, ok := local[id]; ok {
			return v
		}
		return s.vertexByID(id)
	}

	src := resolve(rec.Src)
	if src == nil {
		return nil, fmt.Errorf("edge %d: unresolved vertex %d", rec.ID, rec.Src)
	}
	dst := resolve(rec.Dst)
	if dst == nil {
		return nil, fmt.Errorf("edge %d: unresolved vertex %d", rec.ID, rec.Dst)
	}

	switch rec.Kind {
	case EdgeLine:
		if len(rec.ControlPoints) != 0 {
			return nil, fmt.Errorf("edge %d: line edges carry no control points", rec.ID)
		}
		return NewEdgeWithID(s, src, dst, EdgeLine, rec.ID), nil
	case EdgeBezier:
		if len(rec.ControlPoints) != 2 {
			return nil, fmt.Errorf("edge %d: bezier edge needs 2 control points, got %d", rec.ID, len(rec.ControlPoints))
		}
		points := make([]*Vertex, 2)
		for i, crec := range rec.ControlPoints {
			c, err := ImportVertex(s, crec)
			if err != nil {
				return nil, fmt.Errorf("edge %d: %w", rec.ID, err)
			}
			points[i] = c
		}
		return NewEdgeWithID(s, src, dst, EdgeBezier, rec.ID, points...), nil
	default:
		return nil, fmt.Errorf("edge %d: unknown kind %q", rec.ID, rec.Kind)
	}
}

// importPolyline rebuilds the shared body into p: vertices first, then
// edges, always.
func importPolyline(p *Polyline, rec PolylineRecord) error {
	wantEdges := 0
	switch {
	case p.closed && len(rec.Vertices) >= 2:
		wantEdges = len(rec.Vertices)
	case !p.closed && len(rec.Vertices) >= 2:
		wantEdges = len(rec.Vertices) - 1
	}
	if len(rec.Edges) != wantEdges {
		return fmt.Errorf("shape %d: %d vertices cannot carry %d edges", rec.ID, len(rec.Vertices), len(rec.Edges))
	}

	local := make(map[int]*Vertex, len(rec.Vertices))
	for _, vrec := range rec.Vertices {
		v, err := ImportVertex(p.sess, vrec)
		if err != nil {
			return fmt.Errorf("shape %d: %w", rec.ID, err)
		}
		local[vrec.ID] = v
		p.vertices = append(p.vertices, v)
	}
	for _, erec := range rec.Edges {
		e, err := importEdge(p.sess, erec, local)
		if err != nil {
			return fmt.Errorf("shape %d: %w", rec.ID, err)
		}
		p.edges = append(p.edges, e)
	}
	p.AlignEdges()
	// Loaded shapes are assumed complete.
	p.ended = true
	return nil
}

// ImportPath rebuilds an open path from its record.
func ImportPath(s *Session, rec PolylineRecord) (*Path, error) {
	p := NewPathWithID(s, rec.ID)
	if err := importPolyline(&p.Polyline, rec); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportPolygon rebuilds a closed polygon from its record.
func ImportPolygon(s *Session, rec PolylineRecord) (*Polygon, error) {
	p := NewPolygonWithID(s, rec.ID)
	if err := importPolyline(&p.Polyline, rec); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportRect rebuilds a rect from its record.
func ImportRect(s *Session, rec RectRecord) *Rect {
	return NewRectWithID(s, rec.X, rec.Y, rec.W, rec.H, rec.ID)
}

// ImportShape decodes one tagged shape record, validating that exactly the
// variant named by the tag is present.
func ImportShape(s *Session, rec ShapeRecord) (Shape, error) {
	switch rec.Type {
	case ShapePath:
		if rec.Path == nil {
			return nil, fmt.Errorf("shape record tagged %q without path body", rec.Type)
		}
		return ImportPath(s, *rec.Path)
	case ShapePolygon:
		if rec.Polygon == nil {
			return nil, fmt.Errorf("shape record tagged %q without polygon body", rec.Type)
		}
		return ImportPolygon(s, *rec.Polygon)
	case ShapeRect:
		if rec.Rect == nil {
			return nil, fmt.Errorf("shape record tagged %q without rect body", rec.Type)
		}
		return ImportRect(s, *rec.Rect), nil
	default:
		return nil, fmt.Errorf("unknown shape type %q", rec.Type)
	}
}

// ImportShapes loads a whole document worth of shape records, then resolves
// identifier collisions in one batch so original ids survive wherever
// possible. Any malformed record fails the whole load.
func ImportShapes(s *Session, recs []ShapeRecord) ([]Shape, error) {
	shapes := make([]Shape, 0, len(recs))
	for _, rec := range recs {
		sh, err := ImportShape(s, rec)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, sh)
	}
	s.ResolveCollisions()
	return shapes, nil
}
