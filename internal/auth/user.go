package auth

import (
	"net/mail"
	"strings"
)

// UserHeader carries the signed-in user's email, set by the fronting proxy.
const UserHeader = "X-User-Email"

// User is the signed-in account of a request.
type User struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// Nickname is the local part of the email, used for display and storage prefixes.
func (u User) Nickname() string {
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}

// ParseUser turns a header value into a User. Values that are not addresses yield ok=false.
func ParseUser(header string, isAdmin func(string) bool) (User, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return User{}, false
	}
	addr, err := mail.ParseAddress(header)
	if err != nil {
		return User{}, false
	}
	email := strings.ToLower(addr.Address)
	return User{Email: email, Admin: isAdmin != nil && isAdmin(email)}, true
}
