package middleware

import (
	"net/http"
	"os"
	"strings"

	"molgraph/pkg/auth"
	"molgraph/pkg/common"
)

// Authenticate validates bearer tokens and attaches the caller to the
// request context. Behind API Gateway's JWT authorizer (Lambda), the
// token is already validated and the caller arrives in headers.
func Authenticate(validator *auth.JWTValidator, limiter *auth.TokenBucketLimiter) func(next http.Handler) http.Handler {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return authenticateForLambda(limiter)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil {
				allowed, _ := limiter.Allow(r.Context(), clientIP(r))
				if !allowed {
					common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "Rate limit exceeded")
					return
				}
			}

			token, ok := bearerToken(r)
			if !ok {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or malformed authorization header")
				return
			}

			user, err := validator.Validate(token)
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// authenticateForLambda trusts the authorizer's headers instead of
// re-validating the token.
func authenticateForLambda(limiter *auth.TokenBucketLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil {
				allowed, _ := limiter.Allow(r.Context(), clientIP(r))
				if !allowed {
					common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "Rate limit exceeded")
					return
				}
			}

			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user context")
				return
			}

			user := &auth.UserContext{
				UserID: userID,
				Email:  r.Header.Get("X-User-Email"),
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// clientIP prefers the forwarding headers set by proxies
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host := r.RemoteAddr
	if idx := strings.LastIndexByte(host, ':'); idx > 0 {
		host = host[:idx]
	}
	return host
}
