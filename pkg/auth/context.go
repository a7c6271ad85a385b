package auth

import "context"

type contextKey string

const contextKeyPrincipal contextKey = "principal"

// Principal identifies an authenticated caller.
type Principal struct {
	Subject string
}

// WithPrincipal adds the principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal, p)
}

// PrincipalFromContext retrieves the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKeyPrincipal).(*Principal)
	return p, ok
}
