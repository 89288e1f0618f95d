package user

// CreateUserRequest is the input for creating a user. A nil field means the
// client did not send it.
type CreateUserRequest struct {
	Name  *string `validate:"required,min=1"`
	Email *string `validate:"required,min=1"`
}

// CreateUserResponse carries the id assigned by storage.
type CreateUserResponse struct {
	ID int64
}

// UpdateUserRequest is the input for overwriting a user's name and email.
type UpdateUserRequest struct {
	ID    int64
	Name  *string `validate:"required,min=1"`
	Email *string `validate:"required,min=1"`
}

// DeleteUserRequest identifies the user to delete.
type DeleteUserRequest struct {
	ID int64
}

// GetUserRequest identifies the user to fetch.
type GetUserRequest struct {
	ID int64
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User
}

// ListUsersResponse holds all users, most recently created first.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    int64
	Name  string
	Email string
}
