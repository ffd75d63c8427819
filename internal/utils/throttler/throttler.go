// Package throttler decides whether a repeated event is worth reporting.
package throttler

// Throttle reports whether the count-th occurrence of an event should be
// suppressed. The first limit occurrences are always reported, after that
// only every power-of-two occurrence is.
func Throttle(count, limit uint64) bool {
	if count <= limit {
		return false
	}
	return !isPowerOfTwo(count)
}

func isPowerOfTwo(value uint64) bool {
	return value != 0 && (value&(value-1)) == 0
}
