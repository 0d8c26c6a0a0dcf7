// Package auth carries the caller identity through the request context.
// Authentication itself happens upstream; the engine only needs an opaque
// actor string to attribute ledger and audit rows to.
package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorHeader is the request header the actor identity arrives on.
const ActorHeader = "X-Actor"

// ContextWithActor returns a new context carrying the acting user identity.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext retrieves the acting user identity from the context, if any.
func ActorFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}

// Middleware lifts the actor header into the request context so handlers can
// attribute writes without re-reading headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); actor != "" {
			r = r.WithContext(ContextWithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}
