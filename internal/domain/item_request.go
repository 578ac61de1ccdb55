package domain

import "time"

// ItemRequest is a user's description of an item they want but nobody has listed yet.
type ItemRequest struct {
	ID          int64
	Description string
	RequesterID int64
	Created     time.Time
	Items       []Item
}

// AttachItems distributes items over requests by RequestID. Requests without matches get an
// empty, non-nil slice.
func AttachItems(requests []ItemRequest, items []Item) []ItemRequest {
	byRequest := make(map[int64][]Item, len(requests))
	for _, item := range items {
		if item.RequestID == nil {
			continue
		}
		byRequest[*item.RequestID] = append(byRequest[*item.RequestID], item)
	}
	for i := range requests {
		matched, ok := byRequest[requests[i].ID]
		if !ok {
			matched = []Item{}
		}
		requests[i].Items = matched
	}
	return requests
}

// RequestIDs returns the ids of requests in order.
func RequestIDs(requests []ItemRequest) []int64 {
	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	return ids
}
