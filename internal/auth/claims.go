package auth

import "context"

// Context keys
type contextKey string

const userClaimsKey contextKey = "user_claims"

// withUserClaims adds user claims to the context
func withUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// WithUserClaims is the exported version for testing purposes
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return withUserClaims(ctx, claims)
}

// GetUserClaims extracts user claims from context
func GetUserClaims(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*UserClaims)
	return claims, ok && claims != nil
}

// GetUserID is a convenience function to get the user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	if claims, ok := GetUserClaims(ctx); ok && claims.UID != "" {
		return claims.UID, true
	}
	return "", false
}

// ContextIdentity reports the user the interceptors placed on the context.
type ContextIdentity struct{}

// CurrentUserID returns the signed-in user, if any.
func (ContextIdentity) CurrentUserID(ctx context.Context) (string, bool) {
	return GetUserID(ctx)
}
