// Package rank provides the dense-ranking and rank-to-points utilities
// shared by every scoring dimension.
package rank

// Ranked pairs an item with its 1-based dense rank.
type Ranked[T any] struct {
	Item T
	Rank int
}

// Dense assigns dense ranks over items the caller has already sorted.
// Items whose key equals the previous item's key share its rank; the next
// distinct key gets the previous rank plus one, so ranks never skip.
// Scores [10 10 7 5 5] sorted descending rank to [1 1 2 3 3].
func Dense[T any, K comparable](items []T, key func(T) K) []Ranked[T] {
	out := make([]Ranked[T], len(items))
	rank := 0
	var prev K
	for i, item := range items {
		k := key(item)
		if i == 0 || k != prev {
			rank++
			prev = k
		}
		out[i] = Ranked[T]{Item: item, Rank: rank}
	}
	return out
}
