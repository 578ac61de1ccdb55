package dto

// ItemRequestCreateRequest payload for asking for an item.
type ItemRequestCreateRequest struct {
	Description string `json:"description" validate:"required"`
}

// ItemRequestResponse is a request with the items offered for it.
type ItemRequestResponse struct {
	ID          int64          `json:"id"`
	Description string         `json:"description"`
	Created     LocalDateTime  `json:"created"`
	Items       []ItemResponse `json:"items"`
}
