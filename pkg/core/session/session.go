// Package session keeps the server-side login state of each client.
package session

import "time"

// Session is the per-client login record. A nil UserID means anonymous.
type Session struct {
	ID        string    `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Token is the signed cookie value; it is never persisted.
	Token string `json:"-"`
}

func Anonymous() *Session {
	return &Session{}
}

// CurrentUserID returns the authenticated user id, if any.
func (s *Session) CurrentUserID() (int64, bool) {
	if s == nil || s.UserID == nil {
		return 0, false
	}
	return *s.UserID, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.CurrentUserID()
	return ok
}
