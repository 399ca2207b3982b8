package iteratable

// Set is a destructive, iterable set of arbitrary comparable values.
// "Destructive" means the boolean-algebra operations (Intersect, Union,
// Subtract) mutate the receiver in place and return it, rather than
// allocating a new set.
type Set struct {
	items map[interface{}]struct{}
	iter  []interface{} // snapshot taken by IterateOnce, consumed by Next/Item
	pos   int
}

// NewSet creates an empty set, optionally pre-populated with items.
func NewSet(items ...interface{}) *Set {
	s := &Set{items: make(map[interface{}]struct{}, len(items))}
	for _, it := range items {
		s.items[it] = struct{}{}
	}
	return s
}

// Size returns the number of items in the set.
func (s *Set) Size() int {
	return len(s.items)
}

// Empty returns true if the set has no items.
func (s *Set) Empty() bool {
	return len(s.items) == 0
}

// Add inserts an item into the set. Returns the set for chaining.
func (s *Set) Add(item interface{}) *Set {
	s.items[item] = struct{}{}
	return s
}

// Remove deletes an item from the set, if present.
func (s *Set) Remove(item interface{}) *Set {
	delete(s.items, item)
	return s
}

// Contains reports whether item is a member of the set.
func (s *Set) Contains(item interface{}) bool {
	_, ok := s.items[item]
	return ok
}

// Intersect destructively reduces the receiver to the intersection with
// other, and returns the receiver.
func (s *Set) Intersect(other *Set) *Set {
	for item := range s.items {
		if !other.Contains(item) {
			delete(s.items, item)
		}
	}
	return s
}

// Union destructively adds every item of other into the receiver, and
// returns the receiver.
func (s *Set) Union(other *Set) *Set {
	for item := range other.items {
		s.items[item] = struct{}{}
	}
	return s
}

// Subtract destructively removes every item of other from the receiver, and
// returns the receiver.
func (s *Set) Subtract(other *Set) *Set {
	for item := range other.items {
		delete(s.items, item)
	}
	return s
}

// Copy returns a shallow, independent copy of the set.
func (s *Set) Copy() *Set {
	c := NewSet()
	for item := range s.items {
		c.items[item] = struct{}{}
	}
	return c
}

// IterateOnce prepares the set for a single pass of Next/Item. The set may
// safely be mutated by the caller's own Add/Remove calls during a previous
// finished iteration, but not while an iteration is in progress.
func (s *Set) IterateOnce() {
	s.iter = make([]interface{}, 0, len(s.items))
	for item := range s.items {
		s.iter = append(s.iter, item)
	}
	s.pos = -1
}

// Next advances the iteration started by IterateOnce. Returns false once
// exhausted.
func (s *Set) Next() bool {
	s.pos++
	return s.pos < len(s.iter)
}

// Item returns the current item of an iteration started by IterateOnce.
func (s *Set) Item() interface{} {
	if s.pos < 0 || s.pos >= len(s.iter) {
		return nil
	}
	return s.iter[s.pos]
}

// Each calls f once for every item of the set, in unspecified order.
func (s *Set) Each(f func(item interface{})) {
	for item := range s.items {
		f(item)
	}
}
