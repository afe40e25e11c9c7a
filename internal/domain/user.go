package domain

// User is an API account. Password is stored as a bcrypt hash only.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

// Preferences holds the source and category identifiers a user opted into.
// Empty slices mean "no restriction" on that axis.
type Preferences struct {
	SourceIDs   []int64
	CategoryIDs []int64
}
