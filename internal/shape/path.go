package shape

// Path is an open polyline: a linear vertex chain with two free ends and
// N-1 edges.
type Path struct {
	Polyline
}

// NewPath creates an empty open path with a freshly allocated id.
func NewPath(s *Session) *Path {
	return NewPathWithID(s, s.NextID())
}

// NewPathWithID creates an empty open path under an explicit id.
func NewPathWithID(s *Session, id int) *Path {
	p := &Path{Polyline{id: id, sess: s}}
	s.add(p)
	return p
}

// InsertVertexAt splices v into the chain at index i (0 <= i <= Len). An
// out-of-range index is a silent no-op. Inserting at either end creates one
// new boundary edge; inserting strictly inside re-targets the edge that now
// ends at the new vertex and creates one new edge onward. The very first
// vertex creates no edge.
func (p *Path) InsertVertexAt(i int, v *Vertex) {
	n := len(p.vertices)
	if i < 0 || i > n {
		return
	}
	if n == 0 {
		p.vertices = append(p.vertices, v)
		return
	}
	p.AlignEdges()

	switch {
	case i == 0:
		e := NewEdge(p.sess, v, p.vertices[0], EdgeLine)
		p.edges = append([]*Edge{e}, p.edges...)
		p.vertices = append([]*Vertex{v}, p.vertices...)
	case i == n:
		e := NewEdge(p.sess, p.vertices[n-1], v, EdgeLine)
		p.edges = append(p.edges, e)
		p.vertices = append(p.vertices, v)
	default:
		// edges[i-1] ran vertices[i-1] -> vertices[i]; it now ends at v and
		// a fresh edge continues to the old successor.
		next := p.vertices[i]
		p.edges[i-1].Dst = v
		e := NewEdge(p.sess, v, next, EdgeLine)
		p.edges = append(p.edges, nil)
		copy(p.edges[i+1:], p.edges[i:])
		p.edges[i] = e
		p.vertices = append(p.vertices, nil)
		copy(p.vertices[i+1:], p.vertices[i:])
		p.vertices[i] = v
	}
}

// DeleteVertexAt removes the vertex at index i. An out-of-range index is a
// silent no-op. Interior deletion merges the two adjacent edges into one new
// line edge bridging the former neighbors, discarding any curvature those
// edges carried. Boundary deletion drops the adjacent edge; deleting down to
// a single vertex clears all edges.
func (p *Path) DeleteVertexAt(i int) {
	n := len(p.vertices)
	if i < 0 || i >= n {
		return
	}
	p.AlignEdges()

	victim := p.vertices[i]
	switch {
	case n == 1:
		p.vertices = nil
		p.edges = nil
	case i == 0:
		p.removeEdge(p.edges[0])
		p.edges = p.edges[1:]
		p.vertices = p.vertices[1:]
	case i == n-1:
		p.removeEdge(p.edges[n-2])
		p.edges = p.edges[:n-2]
		p.vertices = p.vertices[:n-1]
	default:
		bridge := NewEdge(p.sess, p.vertices[i-1], p.vertices[i+1], EdgeLine)
		p.removeEdge(p.edges[i-1])
		p.removeEdge(p.edges[i])
		p.edges[i-1] = bridge
		p.edges = append(p.edges[:i], p.edges[i+1:]...)
		p.vertices = append(p.vertices[:i], p.vertices[i+1:]...)
	}
	p.removeVertex(victim)
}

// Reverse flips the traversal direction of the whole chain.
func (p *Path) Reverse() {
	for i, j := 0, len(p.vertices)-1; i < j; i, j = i+1, j-1 {
		p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
	}
	for i, j := 0, len(p.edges)-1; i < j; i, j = i+1, j-1 {
		p.edges[i], p.edges[j] = p.edges[j], p.edges[i]
	}
	p.AlignEdges()
}

// Equals reports structural equality in either traversal direction. Unlike
// the usual identity checks this is pure: neither operand is mutated while
// the reversed orientation is tried.
func (p *Path) Equals(other *Path) bool {
	if other == nil {
		return false
	}
	if len(p.vertices) != len(other.vertices) || len(p.edges) != len(other.edges) {
		return false
	}
	n := len(p.vertices)
	if n == 0 {
		return true
	}

	forward := true
	for i := 0; i < n && forward; i++ {
		forward = p.vertices[i].Equals(other.vertices[i])
	}
	for i := 0; i < len(p.edges) && forward; i++ {
		forward = p.edges[i].Equals(other.edges[i])
	}
	if forward {
		return true
	}

	// Try the reversed orientation of other without reversing it.
	for i := 0; i < n; i++ {
		if !p.vertices[i].Equals(other.vertices[n-1-i]) {
			return false
		}
	}
	for i := 0; i < len(p.edges); i++ {
		if !p.edges[i].Equals(other.edges[len(p.edges)-1-i]) {
			return false
		}
	}
	return true
}

// Copy deep-copies the whole graph under fresh ids. Nothing in the copy
// aliases the source.
func (p *Path) Copy() *Path {
	out := NewPath(p.sess)
	out.ended = p.ended
	p.AlignEdges()
	for _, v := range p.vertices {
		out.vertices = append(out.vertices, v.Copy())
	}
	for i, e := range p.edges {
		out.edges = append(out.edges, e.copyInto(out.vertices[i], out.vertices[i+1], false))
	}
	return out
}

// Type identifies the shape variant for serialization.
func (p *Path) Type() ShapeType { return ShapePath }
