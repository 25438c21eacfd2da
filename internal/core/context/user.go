// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext describes the operator driving the admin session.
// Token is the bearer token forwarded to the backend on every call.
type UserContext struct {
	UserID string
	FirmID string
	Email  string
	Roles  []string
	Token  string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// GetFirmID returns the firm (tenant) ID from context or empty string.
func GetFirmID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.FirmID
	}
	return ""
}

// GetToken returns the bearer token from context or empty string.
func GetToken(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.Token
	}
	return ""
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
