package user

// User is the single persisted entity. ID is assigned by storage on insert
// and never changes afterwards.
type User struct {
	ID    int64
	Name  string
	Email string // unique across all users
}
