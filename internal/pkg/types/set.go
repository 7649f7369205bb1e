package types

// Set is a generic hash set implementation for comparable types.
//
// It provides efficient membership tests and insertion using a
// map[T]struct{} internally. This type is mutable: Add modifies the set
// in place.
type Set[T comparable] map[T]struct{}

// NewSet creates a new Set and optionally inserts the provided elements.
//
// Parameters:
//   - data: zero or more elements to initialize the set with.
//
// Returns:
//   - A Set containing the provided elements.
func NewSet[T comparable](data ...T) Set[T] {
	set := make(Set[T])
	for _, d := range data {
		set[d] = struct{}{}
	}
	return set
}

// Add inserts one or more elements into the set.
//
// This method modifies the Set in place.
//
// Parameters:
//   - values: elements to add to the set.
func (s Set[T]) Add(values ...T) {
	for _, val := range values {
		s[val] = struct{}{}
	}
}

// Has reports whether value is a member of the set.
func (s Set[T]) Has(value T) bool {
	_, ok := s[value]
	return ok
}
