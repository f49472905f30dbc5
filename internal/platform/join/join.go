// Package join combines rows fetched from two tables in memory, the way a
// relational join would on the server.
package join

// Pair is one joined row. Right is nil when a left join found no match.
type Pair[L, R any] struct {
	Left  L
	Right *R
}

// Result holds the joined pairs. Unmatched counts left rows that had no
// right-side match, whether they were dropped (Inner) or kept (Left).
type Result[L, R any] struct {
	Pairs     []Pair[L, R]
	Unmatched int
}

// Inner pairs each left row with the first right row sharing its key and
// drops left rows with no match.
func Inner[L, R any, K comparable](left []L, right []R, leftKey func(L) K, rightKey func(R) K) Result[L, R] {
	return run(left, right, leftKey, rightKey, false)
}

// Left pairs each left row with the first right row sharing its key and keeps
// unmatched left rows with a nil Right.
func Left[L, R any, K comparable](left []L, right []R, leftKey func(L) K, rightKey func(R) K) Result[L, R] {
	return run(left, right, leftKey, rightKey, true)
}

func run[L, R any, K comparable](left []L, right []R, leftKey func(L) K, rightKey func(R) K, keep bool) Result[L, R] {
	index := make(map[K]int, len(right))
	for i, r := range right {
		k := rightKey(r)
		if _, seen := index[k]; !seen {
			index[k] = i
		}
	}

	res := Result[L, R]{Pairs: make([]Pair[L, R], 0, len(left))}
	for _, l := range left {
		i, ok := index[leftKey(l)]
		if !ok {
			res.Unmatched++
			if keep {
				res.Pairs = append(res.Pairs, Pair[L, R]{Left: l})
			}
			continue
		}
		r := right[i]
		res.Pairs = append(res.Pairs, Pair[L, R]{Left: l, Right: &r})
	}
	return res
}
