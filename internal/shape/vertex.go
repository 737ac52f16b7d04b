package shape

import "math"

// Role describes what a vertex is for: an ordinary polyline vertex, the
// derived midpoint of a line edge, or a bezier control point.
type Role string

const (
	RoleVertex   Role = "vertex"
	RoleMidpoint Role = "midpoint"
	RoleControl  Role = "control_point"
)

// coordTolerance is the coordinate-wise tolerance for vertex equality.
const coordTolerance = 1e-6

// temporaryID marks entities that never enter the session registry.
const temporaryID = -1

// Vertex is a 2D point in image coordinate space.
type Vertex struct {
	X    float64
	Y    float64
	Role Role

	id   int
	sess *Session
}

// NewVertex creates a vertex with a freshly allocated persistent id.
func NewVertex(s *Session, x, y float64, role Role) *Vertex {
	return NewVertexWithID(s, x, y, role, s.NextID())
}

// NewVertexWithID creates a vertex under an explicit id. Ids <= 0 mark a
// temporary vertex invisible to the session registry; a positive id that is
// already taken queues the vertex for collision resolution.
func NewVertexWithID(s *Session, x, y float64, role Role, id int) *Vertex {
	v := &Vertex{X: x, Y: y, Role: role, id: id, sess: s}
	s.add(v)
	return v
}

func (v *Vertex) ID() int      { return v.id }
func (v *Vertex) setID(id int) { v.id = id }

// PX returns the x coordinate rounded to the nearest pixel.
func (v *Vertex) PX() int { return int(math.Round(v.X)) }

// PY returns the y coordinate rounded to the nearest pixel.
func (v *Vertex) PY() int { return int(math.Round(v.Y)) }

// MoveTo repositions the vertex.
func (v *Vertex) MoveTo(x, y float64) {
	v.X = x
	v.Y = y
}

// Interpolate returns a new vertex at the linear blend point between v and
// target, with a freshly allocated id.
func (v *Vertex) Interpolate(target *Vertex, t float64, role Role) *Vertex {
	return v.InterpolateWithID(target, t, role, v.sess.NextID())
}

// InterpolateWithID is Interpolate with an explicit id, used for temporary
// points such as the derived midpoint of a line edge.
func (v *Vertex) InterpolateWithID(target *Vertex, t float64, role Role, id int) *Vertex {
	x := v.X + (target.X-v.X)*t
	y := v.Y + (target.Y-v.Y)*t
	return NewVertexWithID(v.sess, x, y, role, id)
}

// DistanceTo returns the Euclidean distance to other.
func (v *Vertex) DistanceTo(other *Vertex) float64 {
	return math.Hypot(other.X-v.X, other.Y-v.Y)
}

// Equals reports coordinate-wise approximate equality. A nil other never
// matches.
func (v *Vertex) Equals(other *Vertex) bool {
	if other == nil {
		return false
	}
	return math.Abs(v.X-other.X) < coordTolerance && math.Abs(v.Y-other.Y) < coordTolerance
}

// Copy returns a new vertex with the same coordinates and role under a fresh
// id. The copy never aliases the original.
func (v *Vertex) Copy() *Vertex {
	return NewVertex(v.sess, v.X, v.Y, v.Role)
}

// CopyWithID is Copy under an explicit id.
func (v *Vertex) CopyWithID(id int) *Vertex {
	return NewVertexWithID(v.sess, v.X, v.Y, v.Role, id)
}
