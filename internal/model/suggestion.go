package model

import "time"

// Suggestion is one entry of the paging demo. When is only set on the unique-key listing, where it is
// "<created, second precision>|<md5 of contributor and count>" and doubles as the page cursor.
type Suggestion struct {
	ID         int64     `json:"id"`
	Suggestion string    `json:"suggestion"`
	CreatedAt  time.Time `json:"created_at"`
	When       string    `json:"when,omitempty"`
}
