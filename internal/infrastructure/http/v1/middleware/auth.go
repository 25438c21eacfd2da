package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"dormdesk/internal/core/apperror"
	appctx "dormdesk/internal/core/context"
)

// TokenParser turns a bearer token into the operator it was issued to.
type TokenParser interface {
	ParseToken(tokenString string) (*appctx.UserContext, error)
}

// ClaimsParser reads identity claims without verifying the signature. The
// backend is the party that verifies the token; the BFF only forwards it and
// needs the ids for scoping drafts and for logs.
type ClaimsParser struct {
	parser *jwt.Parser
}

// NewClaimsParser creates a ClaimsParser.
func NewClaimsParser() *ClaimsParser {
	return &ClaimsParser{parser: jwt.NewParser()}
}

// ParseToken implements TokenParser.
func (p *ClaimsParser) ParseToken(tokenString string) (*appctx.UserContext, error) {
	claims := jwt.MapClaims{}
	if _, _, err := p.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}

	user := &appctx.UserContext{
		UserID: claimString(claims, "user_id"),
		FirmID: claimString(claims, "firm_id"),
		Email:  claimString(claims, "email"),
		Token:  tokenString,
	}
	if user.UserID == "" {
		user.UserID = claimString(claims, "sub")
	}
	if user.UserID == "" {
		return nil, fmt.Errorf("token carries no user id")
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok {
				user.Roles = append(user.Roles, s)
			}
		}
	}
	return user, nil
}

// claimString reads a string or numeric claim as a string.
func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

// Auth middleware requires a bearer token and populates user context.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := parser.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token").WithCause(err))
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.UserID)
		c.Set("firm_id", user.FirmID)

		c.Next()
	}
}

// RequireRole middleware checks if user has required role.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, required := range roles {
			if appctx.HasRole(c.Request.Context(), required) {
				c.Next()
				return
			}
		}
		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
