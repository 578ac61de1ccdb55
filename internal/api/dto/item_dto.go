package dto

// ItemCreateRequest payload for listing an item.
type ItemCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"request_id" validate:"omitempty,gt=0"`
}

// ItemUpdateRequest payload for partial item updates.
type ItemUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemResponse is the plain view of an item.
type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

// ItemDetailResponse is an item with booking and comment decoration.
type ItemDetailResponse struct {
	ItemResponse
	LastBooking *ShortBookingResponse `json:"last_booking"`
	NextBooking *ShortBookingResponse `json:"next_booking"`
	Comments    []CommentResponse     `json:"comments"`
}

// CommentCreateRequest payload for a comment.
type CommentCreateRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID         int64         `json:"id"`
	Text       string        `json:"text"`
	AuthorName string        `json:"author_name"`
	Created    LocalDateTime `json:"created"`
}
