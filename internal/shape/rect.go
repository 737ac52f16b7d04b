package shape

// Rect is an axis-aligned box for direct manipulation, represented as eight
// handle vertices in fixed canonical order starting at the top-left corner
// and proceeding clockwise: corner, midpoint, corner, midpoint, and so on.
// Corners sit at even indices (opposite pairs at 0/4 and 2/6); odd indices
// are midpoints, always recomputed as the average of their neighboring
// corners. There is no edge graph; all geometry derives from the corners.
type Rect struct {
	handles [8]*Vertex
	id      int
	sess    *Session
}

// NewRect creates a rect with a freshly allocated id.
func NewRect(s *Session, x, y, w, h float64) *Rect {
	return NewRectWithID(s, x, y, w, h, s.NextID())
}

// NewRectWithID creates a rect under an explicit id. Ids <= 0 mark a
// temporary rect whose handles stay out of the registry.
func NewRectWithID(s *Session, x, y, w, h float64, id int) *Rect {
	r := &Rect{id: id, sess: s}
	s.add(r)
	for i := range r.handles {
		role := RoleVertex
		if i%2 == 1 {
			role = RoleMidpoint
		}
		if id <= 0 {
			r.handles[i] = NewVertexWithID(s, 0, 0, role, temporaryID)
		} else {
			r.handles[i] = NewVertex(s, 0, 0, role)
		}
	}
	r.SetRect(x, y, w, h)
	return r
}

func (r *Rect) ID() int      { return r.id }
func (r *Rect) setID(id int) { r.id = id }

// SetRect positions the four corners from the top-left origin and size, then
// recomputes the midpoints. Call after any corner mutation.
func (r *Rect) SetRect(x, y, w, h float64) {
	r.handles[0].MoveTo(x, y)
	r.handles[2].MoveTo(x+w, y)
	r.handles[4].MoveTo(x+w, y+h)
	r.handles[6].MoveTo(x, y+h)
	r.RefreshMidpoints()
}

// RefreshMidpoints recomputes every odd handle as the average of its two
// neighboring corners.
func (r *Rect) RefreshMidpoints() {
	for i := 1; i < 8; i += 2 {
		a := r.handles[(i-1+8)%8]
		b := r.handles[(i+1)%8]
		r.handles[i].MoveTo((a.X+b.X)/2, (a.Y+b.Y)/2)
	}
}

// Handle returns the handle vertex at the given index, wrapping modulo 8.
func (r *Rect) Handle(i int) *Vertex {
	return r.handles[((i%8)+8)%8]
}

// OppositeHandle returns the index of the diagonally opposite handle, the
// fixed point when resizing by dragging a corner.
func (r *Rect) OppositeHandle(i int) int {
	return (i + 4) % 8
}

// X returns the left edge coordinate.
func (r *Rect) X() float64 { return r.handles[0].X }

// Y returns the top edge coordinate.
func (r *Rect) Y() float64 { return r.handles[0].Y }

// W returns the width.
func (r *Rect) W() float64 { return r.handles[4].X - r.handles[0].X }

// H returns the height.
func (r *Rect) H() float64 { return r.handles[4].Y - r.handles[0].Y }

// Bounds returns the box spanned by the corner pair.
func (r *Rect) Bounds() Box {
	return Box{X: r.X(), Y: r.Y(), Width: r.W(), Height: r.H()}
}

// Copy constructs a new rect with the same geometry under a fresh id; no
// handle vertex is shared with the original.
func (r *Rect) Copy() *Rect {
	return NewRect(r.sess, r.X(), r.Y(), r.W(), r.H())
}

// CopyWithID is Copy under an explicit id.
func (r *Rect) CopyWithID(id int) *Rect {
	return NewRectWithID(r.sess, r.X(), r.Y(), r.W(), r.H(), id)
}

// Equals reports geometric equality within coordinate tolerance.
func (r *Rect) Equals(other *Rect) bool {
	if other == nil {
		return false
	}
	for i := range r.handles {
		if !r.handles[i].Equals(other.handles[i]) {
			return false
		}
	}
	return true
}

// unregisterGraph removes the rect and its handles from the registry.
func (r *Rect) unregisterGraph() {
	for _, h := range r.handles {
		if h.ID() > 0 {
			r.sess.Unregister(h.ID())
		}
	}
	if r.id > 0 {
		r.sess.Unregister(r.id)
	}
}

// Type identifies the shape variant for serialization.
func (r *Rect) Type() ShapeType { return ShapeRect }
