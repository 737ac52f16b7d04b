package shape

import "math"

// VertexEditor is the capability shared by shapes whose vertex topology can
// be edited in place. Path and Polygon implement it with open-chain and
// cyclic index arithmetic respectively.
type VertexEditor interface {
	InsertVertexAt(i int, v *Vertex)
	DeleteVertexAt(i int)
}

// Polyline holds the vertex/edge graph shared by Path and Polygon: an
// ordered vertex sequence and a parallel edge sequence where edges[i]
// connects vertices[i] to vertices[i+1] (mod N when closed). Individual edge
// direction may be left scrambled by mutations; AlignEdges restores it and
// must run before any direction-sensitive read.
type Polyline struct {
	vertices []*Vertex
	edges    []*Edge
	closed   bool
	ended    bool
	id       int
	sess     *Session

	// previewClosing holds the closing edge displaced by a live preview
	// splice. It stays registered so the committed ring remains exportable
	// until the preview is committed or the shape is discarded.
	previewClosing *Edge
}

func (p *Polyline) ID() int      { return p.id }
func (p *Polyline) setID(id int) { p.id = id }

// Vertices returns the primary vertex sequence. Callers must treat it as
// read-only.
func (p *Polyline) Vertices() []*Vertex { return p.vertices }

// Edges returns the edge sequence parallel to Vertices. Callers must treat
// it as read-only.
func (p *Polyline) Edges() []*Edge { return p.edges }

// Len returns the number of primary vertices.
func (p *Polyline) Len() int { return len(p.vertices) }

// Closed reports whether the sequence is cyclic.
func (p *Polyline) Closed() bool { return p.closed }

// Ended reports whether interactive construction has completed.
func (p *Polyline) Ended() bool { return p.ended }

// SetEnded marks construction complete (or reopens it).
func (p *Polyline) SetEnded(ended bool) { p.ended = ended }

// Session returns the identity session this shape belongs to.
func (p *Polyline) Session() *Session { return p.sess }

// AlignEdges reverses every edge whose stored direction disagrees with the
// vertex order, restoring the invariant that edges[i] runs from vertices[i]
// to vertices[i+1 mod N]. Mutations that splice edges do not maintain
// direction eagerly, so this runs before any geometry-sensitive read.
func (p *Polyline) AlignEdges() {
	for i, e := range p.edges {
		if i < len(p.vertices) && e.Src != p.vertices[i] {
			e.Reverse()
		}
	}
}

// IsSelfIntersecting reports whether any two edges cross. The check is a
// plain O(E^2) pairwise test; edge counts are interactive-editing scale.
func (p *Polyline) IsSelfIntersecting() bool {
	for i := 0; i < len(p.edges); i++ {
		for j := i + 1; j < len(p.edges); j++ {
			if p.edges[i].IntersectWith(p.edges[j]) {
				return true
			}
		}
	}
	return false
}

// IsValid reports whether the shape has at least two vertices and no
// self-intersection.
func (p *Polyline) IsValid() bool {
	return len(p.vertices) >= 2 && !p.IsSelfIntersecting()
}

// Centroid returns the arithmetic mean of the vertex coordinates. The result
// is NaN for an empty shape; callers guard.
func (p *Polyline) Centroid() (float64, float64) {
	var sx, sy float64
	for _, v := range p.vertices {
		sx += v.X
		sy += v.Y
	}
	n := float64(len(p.vertices))
	return sx / n, sy / n
}

// Length returns the total edge length after realignment.
func (p *Polyline) Length() float64 {
	p.AlignEdges()
	total := 0.0
	for _, e := range p.edges {
		total += e.Length()
	}
	return total
}

// Bounds returns the axis-aligned bounding box over the vertices and any
// persisted control points.
func (p *Polyline) Bounds() Box {
	if len(p.vertices) == 0 {
		return Box{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(v *Vertex) {
		minX = min(minX, v.X)
		minY = min(minY, v.Y)
		maxX = max(maxX, v.X)
		maxY = max(maxY, v.Y)
	}
	for _, v := range p.vertices {
		grow(v)
	}
	for _, e := range p.edges {
		if e.Kind() == EdgeBezier {
			for _, c := range e.ControlPoints() {
				grow(c)
			}
		}
	}
	return boxAround(minX, minY, maxX, maxY)
}

// IndexOf returns the index of the first vertex equal to v under tolerance
// equality, or -1.
func (p *Polyline) IndexOf(v *Vertex) int {
	for i, u := range p.vertices {
		if u.Equals(v) {
			return i
		}
	}
	return -1
}

// committedGeometry returns the persisted subset of the graph. While a
// preview splice is live the temporary vertices and marker edges are
// filtered out and the displaced closing edge takes its old slot back; with
// no preview active the graph is returned as is.
func (p *Polyline) committedGeometry() ([]*Vertex, []*Edge) {
	preview := p.previewClosing != nil
	if !preview {
		for _, e := range p.edges {
			if e.Marker != 0 {
				preview = true
				break
			}
		}
	}
	if !preview {
		return p.vertices, p.edges
	}

	var vs []*Vertex
	for _, v := range p.vertices {
		if v.ID() > 0 {
			vs = append(vs, v)
		}
	}
	var es []*Edge
	for _, e := range p.edges {
		if e.Marker == 0 && e.ID() > 0 {
			es = append(es, e)
		}
	}
	if p.previewClosing != nil {
		es = append(es, p.previewClosing)
	}
	return vs, es
}

// CommitPreview turns a preview splice into committed geometry: every
// temporary vertex, control point and edge is registered under a fresh id,
// markers are cleared, and the displaced closing edge is removed for good.
func (p *Polyline) CommitPreview() {
	for _, v := range p.vertices {
		if v.ID() <= 0 {
			p.sess.register(v)
		}
	}
	for _, e := range p.edges {
		if e.Marker == 0 {
			continue
		}
		for _, c := range e.points {
			if c.ID() <= 0 {
				p.sess.register(c)
			}
		}
		if e.ID() <= 0 {
			p.sess.register(e)
		}
		e.Marker = 0
	}
	if p.previewClosing != nil {
		p.removeEdge(p.previewClosing)
		p.previewClosing = nil
	}
}

// unregisterGraph removes the shape and every vertex and edge it owns from
// the session registry. Called when the shape is deleted from a document.
func (p *Polyline) unregisterGraph() {
	for _, v := range p.vertices {
		if v.ID() > 0 {
			p.sess.Unregister(v.ID())
		}
	}
	for _, e := range p.edges {
		e.dropControlPoints()
		if e.ID() > 0 {
			p.sess.Unregister(e.ID())
		}
	}
	if p.previewClosing != nil {
		p.removeEdge(p.previewClosing)
		p.previewClosing = nil
	}
	if p.id > 0 {
		p.sess.Unregister(p.id)
	}
}

// removeEdge unregisters a single edge and its persisted points.
func (p *Polyline) removeEdge(e *Edge) {
	e.dropControlPoints()
	if e.ID() > 0 {
		p.sess.Unregister(e.ID())
	}
}

// removeVertex unregisters a single primary vertex.
func (p *Polyline) removeVertex(v *Vertex) {
	if v.ID() > 0 {
		p.sess.Unregister(v.ID())
	}
}
