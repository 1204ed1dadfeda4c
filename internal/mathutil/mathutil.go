// Package mathutil holds small numeric helpers shared by dialogs and feeds.
package mathutil

import "cmp"

// Clamp limits val to the closed range [low, high].
func Clamp[T cmp.Ordered](val, low, high T) T {
	return min(max(val, low), high)
}

// Wrap maps i onto 0..n-1, wrapping negative values from the end. It
// returns 0 when n is not positive.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
