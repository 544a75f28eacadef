package tagger

// Store is the authoritative session state. Only the tagging cycle and
// Reset write to it.
type Store struct {
	assignment *Assignment
	query      Query
	matches    []int
	full       bool
	markers    []Marker
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset clears the query, assignment, match set, completeness flag and
// markers. Calling it repeatedly is harmless.
func (s *Store) Reset() {
	s.assignment = EmptyAssignment()
	s.query = Query{}
	s.matches = nil
	s.full = true
	s.markers = nil
}

func (s *Store) commit(q Query, matches []int, a *Assignment, full bool) {
	s.query = q
	s.matches = matches
	s.assignment = a
	s.full = full
	s.markers = a.Markers(q)
}

func (s *Store) Assignment() *Assignment { return s.assignment }
func (s *Store) Query() Query            { return s.query }
func (s *Store) Full() bool              { return s.full }

// Matches returns a copy of the refined match set.
func (s *Store) Matches() []int {
	return append([]int(nil), s.matches...)
}

// Markers returns a copy of the markers last sent to the renderer.
func (s *Store) Markers() []Marker {
	return append([]Marker(nil), s.markers...)
}
