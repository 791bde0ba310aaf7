package domain

import "time"

// Property is a rental property owned by a single user.
// (owner_id, location) is unique: a user cannot register the same
// location twice.
type Property struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Units          int       `json:"units"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
