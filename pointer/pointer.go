package pointer

func FromAny[T any](v T) *T {
	return &v
}
