package shape

// Entity is anything tracked by a Session: vertices, edges, paths, polygons
// and rects all carry a document-unique integer id. Positive ids are
// persisted; ids <= 0 mark temporary entities (drag previews) that never
// enter the registry.
type Entity interface {
	ID() int
	setID(id int)
}

// Session owns the identity registry for one editing session. It is the only
// shared mutable state in the package; all access is single-threaded by
// contract. A new top-level document load constructs a fresh Session rather
// than resetting a global.
type Session struct {
	entities  map[int]Entity
	colliding []Entity
	maxID     int
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		entities: make(map[int]Entity),
	}
}

// NextID returns the next free persistent id. The caller is expected to
// register an entity under it immediately.
func (s *Session) NextID() int {
	return s.maxID + 1
}

// add registers an entity under its current id. Ids <= 0 bypass the registry
// entirely. If the id is already taken the entity is queued as colliding and
// stays unregistered until ResolveCollisions runs.
func (s *Session) add(e Entity) {
	id := e.ID()
	if id <= 0 {
		return
	}
	if _, taken := s.entities[id]; taken {
		s.colliding = append(s.colliding, e)
		return
	}
	s.entities[id] = e
	if id > s.maxID {
		s.maxID = id
	}
}

// register promotes a temporary entity: it gets the next free id and enters
// the registry.
func (s *Session) register(e Entity) {
	e.setID(s.NextID())
	s.add(e)
}

// ResolveCollisions assigns a fresh id to every queued colliding entity and
// registers it. Run once per completed document load so that entities keep
// their original ids wherever possible and only true conflicts renumber.
func (s *Session) ResolveCollisions() {
	for _, e := range s.colliding {
		id := s.NextID()
		e.setID(id)
		s.entities[id] = e
		s.maxID = id
	}
	s.colliding = nil
}

// Lookup returns the entity registered under id.
func (s *Session) Lookup(id int) (Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Has reports whether an entity is registered under id.
func (s *Session) Has(id int) bool {
	_, ok := s.entities[id]
	return ok
}

// Unregister removes the entry for id, if any. Used when a shape is deleted.
// The max-id watermark is not lowered, so freed ids are never reissued.
func (s *Session) Unregister(id int) {
	delete(s.entities, id)
}

// MaxID returns the highest id ever registered in this session.
func (s *Session) MaxID() int {
	return s.maxID
}

// Reset clears all registrations, the collision queue and the max-id
// watermark. Equivalent to starting a new session.
func (s *Session) Reset() {
	s.entities = make(map[int]Entity)
	s.colliding = nil
	s.maxID = 0
}

// vertexByID resolves a registered vertex, or nil if the id is unknown or
// names a different entity kind.
func (s *Session) vertexByID(id int) *Vertex {
	e, ok := s.entities[id]
	if !ok {
		return nil
	}
	v, _ := e.(*Vertex)
	return v
}
