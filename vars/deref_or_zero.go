package vars

// DerefOrZero reads an optional value, such as a field omitted from a fixture.
func DerefOrZero[T any](ptr *T) (ret T) {
	if ptr != nil {
		ret = *ptr
	}
	return
}
