package shape

import "math"

// EdgeKind selects the connector type between two vertices.
type EdgeKind string

const (
	EdgeLine   EdgeKind = "line"
	EdgeBezier EdgeKind = "bezier"
)

// intersectTolerance is the strict-interior margin for the parametric
// segment intersection test. Endpoints touching within this margin do not
// count as an intersection.
const intersectTolerance = 0.01

// Edge is a directed connector between two vertices. The edge references its
// endpoints but does not own them; the enclosing polyline does. A line edge
// derives a single midpoint on every read so it tracks moving endpoints; a
// bezier edge owns two persisted control points that are never silently
// recomputed once created.
type Edge struct {
	Src *Vertex
	Dst *Vertex

	// Marker tags edges belonging to a temporary preview sub-path, keyed by
	// the source shape id. Zero means committed.
	Marker int

	kind   EdgeKind
	points []*Vertex
	id     int
	sess   *Session
}

// NewEdge creates an edge between two existing vertices with a freshly
// allocated id and derived auxiliary points.
func NewEdge(s *Session, src, dst *Vertex, kind EdgeKind) *Edge {
	return NewEdgeWithID(s, src, dst, kind, s.NextID())
}

// NewEdgeWithID creates an edge under an explicit id. Optional explicit
// auxiliary points replace the derived ones: two control points for a bezier
// edge. Ids <= 0 mark a temporary edge whose derived points are temporary
// too.
func NewEdgeWithID(s *Session, src, dst *Vertex, kind EdgeKind, id int, points ...*Vertex) *Edge {
	e := &Edge{Src: src, Dst: dst, kind: kind, id: id, sess: s}
	s.add(e)
	if len(points) > 0 {
		e.points = points
	} else if kind == EdgeBezier {
		e.initControlPoints()
	}
	return e
}

func (e *Edge) ID() int      { return e.id }
func (e *Edge) setID(id int) { e.id = id }

// Kind returns the edge type.
func (e *Edge) Kind() EdgeKind { return e.kind }

// initControlPoints places the two bezier control points at one and two
// thirds of the chord.
func (e *Edge) initControlPoints() {
	if e.id <= 0 {
		e.points = []*Vertex{
			e.Src.InterpolateWithID(e.Dst, 1.0/3.0, RoleControl, temporaryID),
			e.Src.InterpolateWithID(e.Dst, 2.0/3.0, RoleControl, temporaryID),
		}
		return
	}
	e.points = []*Vertex{
		e.Src.Interpolate(e.Dst, 1.0/3.0, RoleControl),
		e.Src.Interpolate(e.Dst, 2.0/3.0, RoleControl),
	}
}

// ControlPoints returns the auxiliary points: a single derived midpoint for
// a line edge (recomputed on every read), or the two persisted control
// points for a bezier edge.
func (e *Edge) ControlPoints() []*Vertex {
	if e.kind == EdgeLine {
		return []*Vertex{e.Src.InterpolateWithID(e.Dst, 0.5, RoleMidpoint, temporaryID)}
	}
	return e.points
}

// SetKind changes the edge type and regenerates the auxiliary points for the
// new kind, discarding the old ones.
func (e *Edge) SetKind(kind EdgeKind) {
	if e.kind == kind {
		return
	}
	e.dropControlPoints()
	e.kind = kind
	e.points = nil
	if kind == EdgeBezier {
		e.initControlPoints()
	}
}

// ConvertWithPoints changes the edge type using caller-supplied auxiliary
// points, preserving curvature that already exists elsewhere (a midpoint
// promoted to a vertex, for example) instead of regenerating defaults.
// A line edge keeps deriving its midpoint, so supplied points are only
// meaningful for bezier conversion.
func (e *Edge) ConvertWithPoints(kind EdgeKind, points ...*Vertex) {
	e.dropControlPoints()
	e.kind = kind
	if kind == EdgeBezier {
		e.points = points
	} else {
		e.points = nil
	}
}

// dropControlPoints unregisters any persisted auxiliary points.
func (e *Edge) dropControlPoints() {
	for _, p := range e.points {
		if p.ID() > 0 {
			e.sess.Unregister(p.ID())
		}
	}
}

// Reverse swaps the endpoints and reverses the auxiliary point order.
func (e *Edge) Reverse() {
	e.Src, e.Dst = e.Dst, e.Src
	e.reversePoints()
}

// reversePoints flips only the persisted auxiliary point order.
func (e *Edge) reversePoints() {
	for i, j := 0, len(e.points)-1; i < j; i, j = i+1, j-1 {
		e.points[i], e.points[j] = e.points[j], e.points[i]
	}
}

// Size is the number of drag handles the edge exposes: endpoints share one
// handle, so 2 for a line edge and 3 for a bezier edge.
func (e *Edge) Size() int {
	return 1 + len(e.ControlPoints())
}

// Length returns the edge length. Bezier edges are approximated by their
// control polygon.
func (e *Edge) Length() float64 {
	if e.kind == EdgeLine {
		return e.Src.DistanceTo(e.Dst)
	}
	total := 0.0
	prev := e.Src
	for _, p := range e.points {
		total += prev.DistanceTo(p)
		prev = p
	}
	return total + prev.DistanceTo(e.Dst)
}

// Contains reports whether p lies on the open segment between the endpoints:
// collinear within tolerance and strictly between them. The endpoints
// themselves are excluded. Only meaningful for line edges.
func (e *Edge) Contains(p *Vertex) bool {
	dx := e.Dst.X - e.Src.X
	dy := e.Dst.Y - e.Src.Y
	px := p.X - e.Src.X
	py := p.Y - e.Src.Y

	length := math.Hypot(dx, dy)
	if length < coordTolerance {
		return false
	}
	// Perpendicular distance from the carrier line.
	if math.Abs(dx*py-dy*px)/length > intersectTolerance {
		return false
	}
	t := (px*dx + py*dy) / (length * length)
	return t > intersectTolerance && t < 1-intersectTolerance
}

// IntersectWith reports whether the two edges cross. Structurally equal
// edges intersect trivially. Parallel or collinear segments intersect iff
// either edge's interior covers an endpoint of the other. Otherwise both
// parametric coefficients must fall strictly inside the segments; endpoints
// touching do not count. Bezier curvature is ignored: the test treats every
// edge as its chord, an approximation rather than exact curve intersection.
func (e *Edge) IntersectWith(other *Edge) bool {
	if e.Equals(other) {
		return true
	}

	rx := e.Dst.X - e.Src.X
	ry := e.Dst.Y - e.Src.Y
	sx := other.Dst.X - other.Src.X
	sy := other.Dst.Y - other.Src.Y

	denom := rx*sy - ry*sx
	if math.Abs(denom) < coordTolerance {
		return e.Contains(other.Src) || e.Contains(other.Dst) ||
			other.Contains(e.Src) || other.Contains(e.Dst)
	}

	qpx := other.Src.X - e.Src.X
	qpy := other.Src.Y - e.Src.Y
	t := (qpx*sy - qpy*sx) / denom
	u := (qpx*ry - qpy*rx) / denom

	return t > intersectTolerance && t < 1-intersectTolerance &&
		u > intersectTolerance && u < 1-intersectTolerance
}

// Equals reports structural equality: same endpoint pair in either
// direction, same kind, and pairwise-matching auxiliary points (in reversed
// order when the reversed endpoint pairing matched).
func (e *Edge) Equals(other *Edge) bool {
	if other == nil || e.kind != other.kind {
		return false
	}

	forward := e.Src.Equals(other.Src) && e.Dst.Equals(other.Dst)
	reversed := !forward && e.Src.Equals(other.Dst) && e.Dst.Equals(other.Src)
	if !forward && !reversed {
		return false
	}

	mine := e.ControlPoints()
	theirs := other.ControlPoints()
	if len(mine) != len(theirs) {
		return false
	}
	for i, p := range mine {
		q := theirs[i]
		if reversed {
			q = theirs[len(theirs)-1-i]
		}
		if !p.Equals(q) {
			return false
		}
	}
	return true
}

// copyInto clones the edge between already-copied endpoints, duplicating
// persisted control points so the copy shares nothing with the source graph.
// When temporary is set the clone and its points stay out of the registry.
func (e *Edge) copyInto(src, dst *Vertex, temporary bool) *Edge {
	if e.kind == EdgeLine {
		if temporary {
			return NewEdgeWithID(e.sess, src, dst, EdgeLine, temporaryID)
		}
		return NewEdge(e.sess, src, dst, EdgeLine)
	}
	points := make([]*Vertex, len(e.points))
	for i, p := range e.points {
		if temporary {
			points[i] = p.CopyWithID(temporaryID)
		} else {
			points[i] = p.Copy()
		}
	}
	if temporary {
		return NewEdgeWithID(e.sess, src, dst, EdgeBezier, temporaryID, points...)
	}
	return NewEdgeWithID(e.sess, src, dst, EdgeBezier, e.sess.NextID(), points...)
}
