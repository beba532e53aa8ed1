// Package session models the authenticated user context. A Session is an
// explicit value constructed at sign-in and passed to the components that
// need it, replacing any notion of a process-global current user.
package session

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/antonpav/pad/internal/common"
)

// Session identifies the signed-in user. The zero value means
// unauthenticated: local storage uses the shared namespace and no remote
// sync happens.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

// Active reports whether a user is signed in.
func (s Session) Active() bool {
	return s.UserID != ""
}

// Namespace returns the suffix applied to local storage keys so that
// different identities sharing one database never collide. Empty when
// unauthenticated.
func (s Session) Namespace() string {
	return s.UserID
}

// FromToken builds a Session from an identity provider access token.
// The token signature is not verified here: verification is the remote
// service's job, and locally we only need the subject claim to namespace
// storage and scope deletes.
func FromToken(accessToken, email string) (Session, error) {
	parser := jwt.NewParser()

	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return Session{}, common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return Session{}, common.ErrInvalidToken
	}

	return Session{
		UserID:      claims.Subject,
		Email:       email,
		AccessToken: accessToken,
	}, nil
}
