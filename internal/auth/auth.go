// Package auth reads identity from the platform session token. The client
// never holds the signing key, so claims are decoded without verification
// and used only for display and for hiding screens the backend would
// reject anyway.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhisek/quizdesk/internal/api"
)

// Roles issued by the platform.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// ErrNoToken is returned when no session token is configured.
var ErrNoToken = errors.New("no session token configured")

// Claims are the fields the platform puts in its session token.
type Claims struct {
	UserID api.ID `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the signed-in user as seen by the client.
type Identity struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin reports whether the identity may use admin listings.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

// CanManage reports whether the identity is staff (teacher or admin).
func (id Identity) CanManage() bool { return id.Role == RoleAdmin || id.Role == RoleTeacher }

// Expired reports whether the token carried an expiry that has passed.
func (id Identity) Expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && now.After(id.ExpiresAt)
}

// Parse decodes the claims of a session token without checking its
// signature.
func Parse(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrNoToken
	}

	var claims Claims
	p := jwt.NewParser()
	if _, _, err := p.ParseUnverified(token, &claims); err != nil {
		return Identity{}, fmt.Errorf("parse session token: %w", err)
	}

	id := Identity{
		UserID: claims.UserID.String(),
		Email:  claims.Email,
		Role:   strings.ToLower(claims.Role),
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
