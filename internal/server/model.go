package server

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AccountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthStatusResponse is the /api/auth/me body. Signed-out clients get a 200
// with Authenticated false, never a 401, so the front end can probe the
// session without an error path.
type AuthStatusResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *AccountResponse `json:"user,omitempty"`
}

// Event types pushed over the websocket change feed.
const (
	NoteCreatedType = "NOTE_CREATED"
	NoteUpdatedType = "NOTE_UPDATED"
	NoteDeletedType = "NOTE_DELETED"
)
