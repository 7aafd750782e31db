package fixture

import "fmt"

// Record is a created test entity: an identifier plus an opaque row
// payload. Different creation calls may produce different concrete row
// types, so Row is stored untyped.
type Record[K comparable] struct {
	ID  K
	Row any
}

// Store is an insertion-ordered mapping from identifier to record payload.
//
// Records live in an explicit append-only slice so insertion order is a
// structural property, not a map-iteration accident. "The last record"
// always means the most recently inserted entry, never the maximum key.
//
// A Store is exclusively owned by one Service and is not safe for
// concurrent use.
type Store[K comparable] struct {
	records []Record[K]
	index   map[K]int // key -> position in records
}

// NewStore creates an empty store.
func NewStore[K comparable]() *Store[K] {
	return &Store[K]{index: make(map[K]int)}
}

// Insert appends id→row, preserving insertion order.
// Inserting a key that is already present is a caller error and returns
// a DUPLICATE_KEY StateError without modifying the store.
func (s *Store[K]) Insert(id K, row any) error {
	if _, exists := s.index[id]; exists {
		return NewDuplicateKeyError("store.insert", fmt.Sprintf("%v", id))
	}
	s.index[id] = len(s.records)
	s.records = append(s.records, Record[K]{ID: id, Row: row})
	return nil
}

// Any returns true iff at least one record exists.
func (s *Store[K]) Any() bool {
	return len(s.records) > 0
}

// Count returns the number of records.
func (s *Store[K]) Count() int {
	return len(s.records)
}

// Last returns the most recently inserted record.
// Returns a precondition StateError when the store is empty.
func (s *Store[K]) Last() (Record[K], error) {
	if len(s.records) == 0 {
		return Record[K]{}, NewPreconditionError("store.last", "store is empty")
	}
	return s.records[len(s.records)-1], nil
}

// Keys returns all identifiers in insertion order.
// The returned slice is a copy; callers may mutate it freely.
func (s *Store[K]) Keys() []K {
	keys := make([]K, len(s.records))
	for i, r := range s.records {
		keys[i] = r.ID
	}
	return keys
}

// Records returns an ordered snapshot of all records.
// The returned slice is a copy; row payloads are shared.
func (s *Store[K]) Records() []Record[K] {
	out := make([]Record[K], len(s.records))
	copy(out, s.records)
	return out
}
