package domain

import "strings"

// User is a member of the marketplace who can list, book and request items.
type User struct {
	ID    int64
	Name  string
	Email string
}

// UserPatch carries optional fields for a partial user update.
type UserPatch struct {
	Name  *string
	Email *string
}

// MergeUser applies patch over current. Nil or blank fields keep the current value.
func MergeUser(current User, patch UserPatch) User {
	merged := current
	if !isBlank(patch.Name) {
		merged.Name = strings.TrimSpace(*patch.Name)
	}
	if !isBlank(patch.Email) {
		merged.Email = strings.TrimSpace(*patch.Email)
	}
	return merged
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
