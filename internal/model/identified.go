package model

import "encoding/json"

// Identified is an ordered, identifier-keyed collection of entities.
//
// INVARIANTS:
//   - identifiers are unique within the collection
//   - insertion order is preserved; there is no reorder operation
//   - a value is never modified after construction; Upsert and Remove
//     return new collections and leave the receiver untouched
//
// The zero value is an empty collection.
type Identified[E Entity] struct {
	items []E
	index map[ID]int
}

// NewIdentified builds a collection from items in order. When an ID
// appears more than once the first occurrence wins.
func NewIdentified[E Entity](items ...E) Identified[E] {
	c := Identified[E]{
		items: make([]E, 0, len(items)),
		index: make(map[ID]int, len(items)),
	}
	for _, item := range items {
		id := item.EntityID()
		if _, dup := c.index[id]; dup {
			continue
		}
		c.index[id] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

// Len returns the number of entities.
func (c Identified[E]) Len() int { return len(c.items) }

// Items returns a copy of the entities in order.
func (c Identified[E]) Items() []E {
	out := make([]E, len(c.items))
	copy(out, c.items)
	return out
}

// At returns the entity at position i. Panics if i is out of range.
func (c Identified[E]) At(i int) E { return c.items[i] }

// IDs returns the identifiers in order.
func (c Identified[E]) IDs() []ID {
	out := make([]ID, len(c.items))
	for i, item := range c.items {
		out[i] = item.EntityID()
	}
	return out
}

// Get returns the entity with the given id.
func (c Identified[E]) Get(id ID) (E, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero E
		return zero, false
	}
	return c.items[i], true
}

// Contains reports whether an entity with id is a member.
func (c Identified[E]) Contains(id ID) bool {
	_, ok := c.index[id]
	return ok
}

// Index returns the position of id, or -1.
func (c Identified[E]) Index(id ID) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Upsert replaces the entity with the same id in place, or appends it.
func (c Identified[E]) Upsert(e E) Identified[E] {
	items := c.Items()
	if i, ok := c.index[e.EntityID()]; ok {
		items[i] = e
		return Identified[E]{items: items, index: c.cloneIndex()}
	}
	index := c.cloneIndex()
	index[e.EntityID()] = len(items)
	return Identified[E]{items: append(items, e), index: index}
}

// Remove drops the entity with id. The boolean reports whether anything
// was removed; when it is false the receiver is returned unchanged.
func (c Identified[E]) Remove(id ID) (Identified[E], bool) {
	i, ok := c.index[id]
	if !ok {
		return c, false
	}
	items := make([]E, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return NewIdentified(items...), true
}

// Filter returns the entities for which keep returns true, in order.
func (c Identified[E]) Filter(keep func(E) bool) []E {
	var out []E
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c Identified[E]) cloneIndex() map[ID]int {
	index := make(map[ID]int, len(c.index)+1)
	for k, v := range c.index {
		index[k] = v
	}
	return index
}

// MarshalJSON encodes the collection as an ordered array.
func (c Identified[E]) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON decodes an ordered array.
func (c *Identified[E]) UnmarshalJSON(data []byte) error {
	var items []E
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = NewIdentified(items...)
	return nil
}
