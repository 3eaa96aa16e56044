package vars

// FirstNonZero picks the first set value, so sources are listed by precedence:
// flag, environment, config file, default.
func FirstNonZero[T comparable](values ...T) (ret T) {
	var zero T
	for _, ret = range values {
		if ret != zero {
			return
		}
	}
	return zero
}
