package api

import "context"

type scopesKey string

// withScopes marks the request as targeting an operation secured by the
// cookieAuth scheme.
func withScopes(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopesKey(CookieAuthScopes), []string{})
}

// RequiresAuth reports whether the operation being served is secured.
func RequiresAuth(ctx context.Context) bool {
	_, ok := ctx.Value(scopesKey(CookieAuthScopes)).([]string)
	return ok
}
