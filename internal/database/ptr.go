package database

// Ptr returns a pointer to v. Callers building UpdateStudentParams use it
// to mark a field as supplied.
func Ptr[T any](v T) *T {
	return &v
}
