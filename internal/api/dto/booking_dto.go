package dto

// BookingCreateRequest payload for booking an item.
type BookingCreateRequest struct {
	ItemID int64          `json:"item_id" validate:"required,gt=0"`
	Start  *LocalDateTime `json:"start" validate:"required"`
	End    *LocalDateTime `json:"end" validate:"required"`
}

// BookingResponse is the full view of a booking.
type BookingResponse struct {
	ID     int64         `json:"id"`
	Start  LocalDateTime `json:"start"`
	End    LocalDateTime `json:"end"`
	Status string        `json:"status"`
	Item   ItemResponse  `json:"item"`
	Booker UserResponse  `json:"booker"`
}

// ShortBookingResponse is the booking projection attached to items.
type ShortBookingResponse struct {
	ID       int64         `json:"id"`
	BookerID int64         `json:"booker_id"`
	Start    LocalDateTime `json:"start"`
	End      LocalDateTime `json:"end"`
}
