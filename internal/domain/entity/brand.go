package entity

// Brand marca de perfumes. El nombre es único.
type Brand struct {
	ID   int64
	Name string
}
