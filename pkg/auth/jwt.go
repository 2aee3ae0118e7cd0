package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"molgraph/pkg/common"
)

// JWTConfig holds JWT validation settings
type JWTConfig struct {
	SigningMethod string
	SecretKey     string
	Issuer        string
	Audience      []string
}

// UserContext is the authenticated caller extracted from a token
type UserContext struct {
	UserID string
	Email  string
}

// JWTValidator validates bearer tokens
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a validator from configuration
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("jwt secret key is required")
	}
	if config.SigningMethod == "" {
		config.SigningMethod = "HS256"
	}
	if config.SigningMethod != "HS256" {
		return nil, fmt.Errorf("unsupported signing method %q", config.SigningMethod)
	}
	return &JWTValidator{config: config}, nil
}

// Validate parses and verifies a token string and returns the caller
func (v *JWTValidator) Validate(tokenString string) (*UserContext, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.config.SigningMethod}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}
	if len(v.config.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(v.config.Audience[0]))
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject claim")
	}

	user := &UserContext{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	return user, nil
}

// WithUser stores the authenticated user in the context
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return common.WithUserID(ctx, user.UserID)
}

// GetUserFromContext extracts the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	userID, ok := common.GetUserID(ctx)
	if !ok || userID == "" {
		return nil, errors.New("no authenticated user in context")
	}
	return &UserContext{UserID: userID}, nil
}
