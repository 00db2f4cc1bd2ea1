package specfile

import (
	"iter"
	"slices"
)

// Bag holds content the parser did not recognize, keyed by marker token.
// Keys and the payloads under each key keep their insertion order.
// The zero value is ready to use.
type Bag struct {
	keys   []string
	values map[string][]string
}

// Add appends payload under key.
func (b *Bag) Add(key, payload string) {
	if b.values == nil {
		b.values = make(map[string][]string)
	}

	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}

	b.values[key] = append(b.values[key], payload)
}

// Get returns the payloads recorded under key.
func (b *Bag) Get(key string) []string {
	if b == nil {
		return nil
	}

	return b.values[key]
}

// Len returns the number of distinct keys.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}

	return len(b.keys)
}

// Keys returns the keys in insertion order.
func (b *Bag) Keys() []string {
	if b == nil {
		return nil
	}

	return slices.Clone(b.keys)
}

// All returns an iterator over keys and their payloads in insertion order.
func (b *Bag) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if b == nil {
			return
		}

		for _, k := range b.keys {
			if !yield(k, b.values[k]) {
				return
			}
		}
	}
}
