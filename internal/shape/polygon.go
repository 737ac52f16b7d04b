package shape

// Polygon is a closed polyline: a cyclic vertex sequence with N edges, the
// last one closing the boundary back to vertex 0.
type Polygon struct {
	Polyline
}

// Arc is a contiguous run of vertices and edges between two vertices on a
// polygon boundary. Edges are listed in traversal order but keep their
// stored direction; Length is the total edge length.
type Arc struct {
	Vertices []*Vertex
	Edges    []*Edge
	Length   float64
}

// NewPolygon creates an empty polygon with a freshly allocated id.
func NewPolygon(s *Session) *Polygon {
	return NewPolygonWithID(s, s.NextID())
}

// NewPolygonWithID creates an empty polygon under an explicit id.
func NewPolygonWithID(s *Session, id int) *Polygon {
	p := &Polygon{Polyline{closed: true, id: id, sess: s}}
	s.add(p)
	return p
}

// InsertVertexAt splices v into the cycle at index i (0 <= i <= Len); an
// out-of-range index is a silent no-op. Neighbor indices wrap, so unlike the
// open path there is no end special case: every insertion re-targets the
// boundary edge arriving at position i and creates one new edge onward.
func (p *Polygon) InsertVertexAt(i int, v *Vertex) {
	n := len(p.vertices)
	if i < 0 || i > n {
		return
	}
	switch n {
	case 0:
		p.vertices = append(p.vertices, v)
		return
	case 1:
		// Second vertex closes the cycle in both directions.
		v0 := p.vertices[0]
		if i == 0 {
			p.vertices = []*Vertex{v, v0}
		} else {
			p.vertices = append(p.vertices, v)
		}
		a, b := p.vertices[0], p.vertices[1]
		p.edges = []*Edge{
			NewEdge(p.sess, a, b, EdgeLine),
			NewEdge(p.sess, b, a, EdgeLine),
		}
		return
	}
	p.AlignEdges()

	prev := (i - 1 + n) % n
	succ := i % n
	p.edges[prev].Dst = v
	e := NewEdge(p.sess, v, p.vertices[succ], EdgeLine)

	p.edges = append(p.edges, nil)
	copy(p.edges[i+1:], p.edges[i:])
	p.edges[i] = e
	p.vertices = append(p.vertices, nil)
	copy(p.vertices[i+1:], p.vertices[i:])
	p.vertices[i] = v
}

// DeleteVertexAt removes the vertex at index i; an out-of-range index is a
// silent no-op. The two boundary edges meeting at the vertex merge into one
// new line edge bridging its neighbors (curvature is discarded). Deleting
// down to a single vertex clears all edges.
func (p *Polygon) DeleteVertexAt(i int) {
	n := len(p.vertices)
	if i < 0 || i >= n {
		return
	}

	victim := p.vertices[i]
	if n <= 2 {
		for _, e := range p.edges {
			p.removeEdge(e)
		}
		p.edges = nil
		p.vertices = append(p.vertices[:i], p.vertices[i+1:]...)
		p.removeVertex(victim)
		return
	}
	p.AlignEdges()

	prev := (i - 1 + n) % n
	next := (i + 1) % n
	bridge := NewEdge(p.sess, p.vertices[prev], p.vertices[next], EdgeLine)
	p.removeEdge(p.edges[prev])
	p.removeEdge(p.edges[i])
	p.edges[prev] = bridge
	p.edges = append(p.edges[:i], p.edges[i+1:]...)
	p.vertices = append(p.vertices[:i], p.vertices[i+1:]...)
	p.removeVertex(victim)
}

// Reverse flips the traversal direction of the cycle. The vertex list is
// reversed and then rotated so the anchor vertex stays at index 0, which
// keeps "vertex 0" stable for callers that track it.
func (p *Polygon) Reverse() {
	n := len(p.vertices)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
	}
	if n > 1 {
		last := p.vertices[n-1]
		copy(p.vertices[1:], p.vertices[:n-1])
		p.vertices[0] = last
	}
	for i, j := 0, len(p.edges)-1; i < j; i, j = i+1, j-1 {
		p.edges[i], p.edges[j] = p.edges[j], p.edges[i]
	}
	p.AlignEdges()
}

// PathBetween returns the two arcs between vStart and vEnd, one walking the
// cycle forward and one backward. The shorter arc (by total edge length)
// comes first; on a tie the forward arc wins. If either vertex is absent
// both arcs are empty; if they are the same vertex both arcs degenerate to
// that single vertex.
func (p *Polygon) PathBetween(vStart, vEnd *Vertex) (short, long Arc) {
	i1 := p.IndexOf(vStart)
	i2 := p.IndexOf(vEnd)
	if i1 < 0 || i2 < 0 {
		return Arc{}, Arc{}
	}
	if i1 == i2 {
		single := Arc{Vertices: []*Vertex{p.vertices[i1]}}
		return single, single
	}
	p.AlignEdges()

	n := len(p.vertices)
	forward := Arc{}
	for k := i1; ; k = (k + 1) % n {
		forward.Vertices = append(forward.Vertices, p.vertices[k])
		if k == i2 {
			break
		}
		e := p.edges[k]
		forward.Edges = append(forward.Edges, e)
		forward.Length += e.Length()
	}

	backward := Arc{}
	for k := i1; ; k = (k - 1 + n) % n {
		backward.Vertices = append(backward.Vertices, p.vertices[k])
		if k == i2 {
			break
		}
		e := p.edges[(k-1+n)%n]
		backward.Edges = append(backward.Edges, e)
		backward.Length += e.Length()
	}

	if forward.Length <= backward.Length {
		return forward, backward
	}
	return backward, forward
}

// PushPath splices an arc of src between vStart and vEnd onto this polygon:
// the dangling closing edge is removed, shared endpoints are deduplicated,
// the arc's vertices and edges are deep-copied in (primary sequences are
// never shared between shapes), and a fresh closing edge is rebuilt back to
// vertex 0. An arc that does not start on the boundary end gets a connector
// edge so edge slots stay parallel to the vertex sequence. With temporary
// set, everything created is tagged with src's id as sub-shape marker and
// stays out of the registry; the displaced closing edge is held aside so
// records keep exporting the committed ring until CommitPreview runs.
func (p *Polygon) PushPath(src *Polygon, vStart, vEnd *Vertex, useLong, temporary bool) {
	shortArc, longArc := src.PathBetween(vStart, vEnd)
	arc := shortArc
	if useLong {
		arc = longArc
	}
	if len(arc.Vertices) == 0 {
		return
	}

	p.AlignEdges()
	if n := len(p.vertices); n > 0 && len(p.edges) == n {
		closing := p.edges[n-1]
		if temporary {
			p.previewClosing = closing
		} else {
			p.removeEdge(closing)
		}
		p.edges = p.edges[:n-1]
	}

	marker := 0
	if temporary {
		marker = src.ID()
	}

	// Map arc vertices onto local ones, reusing boundary endpoints that
	// already coincide.
	local := make([]*Vertex, len(arc.Vertices))
	start, end := 0, len(arc.Vertices)
	if n := len(p.vertices); n > 0 && p.vertices[n-1].Equals(arc.Vertices[0]) {
		local[0] = p.vertices[n-1]
		start = 1
	}
	closedByArc := false
	if len(p.vertices) > 0 && end > start && p.vertices[0].Equals(arc.Vertices[end-1]) {
		local[end-1] = p.vertices[0]
		end--
		closedByArc = true
	}

	// When the arc starts away from the boundary end, a connector bridges
	// the old last vertex to the arc's first.
	var bridgeFrom *Vertex
	if n := len(p.vertices); n > 0 && start == 0 {
		bridgeFrom = p.vertices[n-1]
	}

	for k := start; k < end; k++ {
		if temporary {
			local[k] = arc.Vertices[k].CopyWithID(temporaryID)
		} else {
			local[k] = arc.Vertices[k].Copy()
		}
		p.vertices = append(p.vertices, local[k])
	}

	if bridgeFrom != nil {
		var bridge *Edge
		if temporary {
			bridge = NewEdgeWithID(p.sess, bridgeFrom, local[0], EdgeLine, temporaryID)
		} else {
			bridge = NewEdge(p.sess, bridgeFrom, local[0], EdgeLine)
		}
		bridge.Marker = marker
		p.edges = append(p.edges, bridge)
	}

	for k := 0; k+1 < len(arc.Vertices); k++ {
		srcEdge := arc.Edges[k]
		e := srcEdge.copyInto(local[k], local[k+1], temporary)
		if srcEdge.Src != arc.Vertices[k] {
			// The backward arc traverses edges against their stored
			// direction; the copy's control points follow the arc.
			e.reversePoints()
		}
		e.Marker = marker
		p.edges = append(p.edges, e)
	}

	// Fresh closing edge back to vertex 0, unless the spliced arc already
	// landed there.
	if !closedByArc && len(p.vertices) >= 2 {
		last := p.vertices[len(p.vertices)-1]
		var closing *Edge
		if temporary {
			closing = NewEdgeWithID(p.sess, last, p.vertices[0], EdgeLine, temporaryID)
		} else {
			closing = NewEdge(p.sess, last, p.vertices[0], EdgeLine)
		}
		closing.Marker = marker
		p.edges = append(p.edges, closing)
	}
}

// Equals reports structural equality invariant to the starting vertex and to
// traversal direction: vertex 0 of p is located inside other, the direction
// is inferred from vertex 1's neighbor, and every vertex and edge is
// compared at the corresponding rotated (and possibly reflected) index.
func (p *Polygon) Equals(other *Polygon) bool {
	if other == nil {
		return false
	}
	n := len(p.vertices)
	if n != len(other.vertices) || len(p.edges) != len(other.edges) {
		return false
	}
	if n == 0 {
		return true
	}

	j := other.IndexOf(p.vertices[0])
	if j < 0 {
		return false
	}
	if n == 1 {
		return true
	}

	if p.vertices[1].Equals(other.vertices[(j+1)%n]) {
		for k := 0; k < n; k++ {
			if !p.vertices[k].Equals(other.vertices[(j+k)%n]) {
				return false
			}
		}
		for k := 0; k < len(p.edges); k++ {
			if !p.edges[k].Equals(other.edges[(j+k)%n]) {
				return false
			}
		}
		return true
	}

	if !p.vertices[1].Equals(other.vertices[(j-1+n)%n]) {
		return false
	}
	for k := 0; k < n; k++ {
		if !p.vertices[k].Equals(other.vertices[(j-k+n)%n]) {
			return false
		}
	}
	// p.edges[k] connects positions k and k+1, which map to other's
	// positions j-k and j-k-1; that is other's edge j-k-1.
	for k := 0; k < len(p.edges); k++ {
		if !p.edges[k].Equals(other.edges[(j-k-1+2*n)%n]) {
			return false
		}
	}
	return true
}

// Copy deep-copies the whole graph under fresh ids. Nothing in the copy
// aliases the source.
func (p *Polygon) Copy() *Polygon {
	out := NewPolygon(p.sess)
	out.ended = p.ended
	p.AlignEdges()
	n := len(p.vertices)
	for _, v := range p.vertices {
		out.vertices = append(out.vertices, v.Copy())
	}
	for i, e := range p.edges {
		out.edges = append(out.edges, e.copyInto(out.vertices[i], out.vertices[(i+1)%n], false))
	}
	return out
}

// Type identifies the shape variant for serialization.
func (p *Polygon) Type() ShapeType { return ShapePolygon }
