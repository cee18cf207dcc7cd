package rulebook

import "iter"

// Chunks yields fixed-size slices of items for incremental consumption,
// so UI callers can populate progressively without waiting on the full
// dataset. It is a view over an already-loaded slice, not a fetch
// strategy; the final chunk may be short. A non-positive size yields the
// whole slice at once.
func Chunks[T any](items []T, size int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if len(items) == 0 {
			return
		}
		if size <= 0 {
			yield(items)
			return
		}
		for start := 0; start < len(items); start += size {
			end := min(start+size, len(items))
			if !yield(items[start:end]) {
				return
			}
		}
	}
}
