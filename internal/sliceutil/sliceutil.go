// Package sliceutil holds the small generic helpers the calculator builds on:
// stable multi-key sorting, linear search and slice/map conversion.
package sliceutil

import "slices"

// Key is one sort key. Compare returns a negative number when a sorts before b.
type Key[T any] struct {
	Compare func(a, b T) int
	Desc    bool
}

// Asc returns an ascending key.
func Asc[T any](compare func(a, b T) int) Key[T] {
	return Key[T]{Compare: compare}
}

// Desc returns a descending key.
func Desc[T any](compare func(a, b T) int) Key[T] {
	return Key[T]{Compare: compare, Desc: true}
}

// SortStable sorts items in place by keys, left to right. Items equal on every
// key keep their input order. It returns items for chaining.
func SortStable[T any](items []T, keys ...Key[T]) []T {
	slices.SortStableFunc(items, func(a, b T) int {
		for _, k := range keys {
			c := k.Compare(a, b)
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return items
}

// Find returns the first item matching pred.
func Find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, item := range items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// ToMap indexes items by key. Later items overwrite earlier ones with the same key.
func ToMap[K comparable, T any](items []T, key func(T) K) map[K]T {
	m := make(map[K]T, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}

// Values returns the values of m in unspecified order; sort the result if order matters.
func Values[K comparable, T any](m map[K]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
