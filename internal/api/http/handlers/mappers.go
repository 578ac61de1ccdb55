package handlers

import (
	"github.com/spec-kit/shareit/internal/api/dto"
	"github.com/spec-kit/shareit/internal/domain"
)

func toUserResponse(u domain.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toItemResponse(i domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		OwnerID:     i.OwnerID,
		RequestID:   i.RequestID,
	}
}

func toItemResponses(items []domain.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	return out
}

func toShortBookingResponse(b *domain.ShortBooking) *dto.ShortBookingResponse {
	if b == nil {
		return nil
	}
	return &dto.ShortBookingResponse{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    dto.NewLocalDateTime(b.Start),
		End:      dto.NewLocalDateTime(b.End),
	}
}

func toCommentResponse(c domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    dto.NewLocalDateTime(c.Created),
	}
}

func toItemDetailResponse(v domain.OwnerItemView) dto.ItemDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(v.Comments))
	for _, c := range v.Comments {
		comments = append(comments, toCommentResponse(c))
	}
	return dto.ItemDetailResponse{
		ItemResponse: toItemResponse(v.Item),
		LastBooking:  toShortBookingResponse(v.LastBooking),
		NextBooking:  toShortBookingResponse(v.NextBooking),
		Comments:     comments,
	}
}

func toBookingResponse(b domain.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:     b.ID,
		Start:  dto.NewLocalDateTime(b.Start),
		End:    dto.NewLocalDateTime(b.End),
		Status: string(b.Status),
		Item:   toItemResponse(b.Item),
		Booker: toUserResponse(b.Booker),
	}
}

func toItemRequestResponse(r domain.ItemRequest) dto.ItemRequestResponse {
	return dto.ItemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     dto.NewLocalDateTime(r.Created),
		Items:       toItemResponses(r.Items),
	}
}
