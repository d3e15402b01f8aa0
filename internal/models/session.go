package models

import "time"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Session holds the bearer token and the user it belongs to. It is
// persisted to local storage on login/signup and cleared on logout.
// The token is only ever forwarded to the backend; the client checks
// its shape, never its signature.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
