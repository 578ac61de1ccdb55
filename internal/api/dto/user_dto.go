package dto

// UserCreateRequest payload for new users.
type UserCreateRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UserUpdateRequest payload for partial user updates. Blank fields keep the stored value; the
// merged email is validated by the user service.
type UserUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
