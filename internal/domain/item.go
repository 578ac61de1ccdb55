package domain

import "strings"

// Item is a thing an owner lists for others to book.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64
}

// ItemPatch carries optional fields for a partial item update.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// MergeItem applies patch over current. Nil or blank strings and a nil Available keep the
// current value. Owner and request linkage are never changed by a patch.
func MergeItem(current Item, patch ItemPatch) Item {
	merged := current
	if !isBlank(patch.Name) {
		merged.Name = strings.TrimSpace(*patch.Name)
	}
	if !isBlank(patch.Description) {
		merged.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Available != nil {
		merged.Available = *patch.Available
	}
	return merged
}

// OwnerItemView is an item as shown to a viewer. LastBooking and NextBooking are only filled
// when the viewer owns the item.
type OwnerItemView struct {
	Item        Item
	LastBooking *ShortBooking
	NextBooking *ShortBooking
	Comments    []Comment
}

// DecorateForViewer builds the view of item for viewerID.
func DecorateForViewer(item Item, viewerID int64, last, next *ShortBooking, comments []Comment) OwnerItemView {
	if comments == nil {
		comments = []Comment{}
	}
	view := OwnerItemView{Item: item, Comments: comments}
	if item.OwnerID == viewerID {
		view.LastBooking = last
		view.NextBooking = next
	}
	return view
}
