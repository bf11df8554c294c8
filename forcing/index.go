package forcing

import (
	"fmt"

	"github.com/google/btree"
)

// Index stations ordered by id
type Index struct {
	t *btree.BTreeG[*Station]
}

// NewIndex constructor
func NewIndex() *Index {
	return &Index{t: btree.NewG(8, func(a, b *Station) bool { return a.ID < b.ID })}
}

// Insert adds s, failing if its id is already taken
func (x *Index) Insert(s *Station) error {
	if o, ok := x.t.Get(s); ok {
		return fmt.Errorf("%w: stations %s and %s share index %d", ErrConfig, o.Name, s.Name, s.ID)
	}
	x.t.ReplaceOrInsert(s)
	return nil
}

// Lookup returns the station of id. A missing id is an error only when
// required, otherwise nil is returned.
func (x *Index) Lookup(id int, required bool) (*Station, error) {
	if s, ok := x.t.Get(&Station{ID: id}); ok {
		return s, nil
	}
	if required {
		return nil, fmt.Errorf("%w: id %d", ErrLookup, id)
	}
	return nil, nil
}

// Ascend visits stations in id order until fn returns false
func (x *Index) Ascend(fn func(s *Station) bool) { x.t.Ascend(fn) }

// Len number of stations
func (x *Index) Len() int { return x.t.Len() }
