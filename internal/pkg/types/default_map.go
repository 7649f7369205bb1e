package types

// DefaultMap is a map that creates missing values on first access and
// remembers the order in which keys were first seen.
//
//	groups := NewDefaultMap[string, []int](func() []int { return nil })
//	groups.Set("a", append(groups.Get("a"), 1))
//	for _, k := range groups.Keys() { ... } // first-seen order
type DefaultMap[K comparable, V any] struct {
	data        map[K]V
	order       []K
	defaultFunc func() V
}

// NewDefaultMap creates an empty DefaultMap whose missing entries are produced by defaultFunc.
func NewDefaultMap[K comparable, V any](defaultFunc func() V) DefaultMap[K, V] {
	return DefaultMap[K, V]{
		data:        make(map[K]V),
		defaultFunc: defaultFunc,
	}
}

// Get returns the value stored under key. If key is absent, a value from the
// default function is stored and returned.
func (d *DefaultMap[K, V]) Get(key K) V {
	val, ok := d.data[key]
	if ok {
		return val
	}

	val = d.defaultFunc()
	d.store(key, val)
	return val
}

// Set assigns val to key.
func (d *DefaultMap[K, V]) Set(key K, val V) {
	d.store(key, val)
}

func (d *DefaultMap[K, V]) store(key K, val V) {
	if _, ok := d.data[key]; !ok {
		d.order = append(d.order, key)
	}
	d.data[key] = val
}

// Keys returns the keys in the order they were first stored.
func (d *DefaultMap[K, V]) Keys() []K {
	keys := make([]K, len(d.order))
	copy(keys, d.order)
	return keys
}

// ToMap returns the underlying map.
func (d *DefaultMap[K, V]) ToMap() map[K]V {
	return d.data
}
