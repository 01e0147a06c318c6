package model

import "time"

// DefaultGuestbook is used when a request names no guestbook.
const DefaultGuestbook = "default_guestbook"

// Greeting is one signed guestbook entry. All greetings of a guestbook form one group and are
// always listed newest first.
type Greeting struct {
	ID        int64     `json:"id"`
	Guestbook string    `json:"guestbook"`
	Author    string    `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
