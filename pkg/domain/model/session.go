package model

import (
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
)

// Session represents an authenticated user session. Access tokens reference it
// by ID so that logging out revokes the token.
type Session struct {
	ID        types.SessionID
	UserID    types.UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession creates a new Session with a UUID v7 ID
func NewSession(userID types.UserID, duration time.Duration) (*Session, error) {
	sessionID, err := types.NewSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}, nil
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsValid checks if the session is valid (not expired and has proper fields)
func (s *Session) IsValid() bool {
	return s.ID != "" && s.UserID != "" && !s.IsExpired()
}
