package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/httpx"
)

// Actor is the authenticated principal of a request. Handlers take the
// tenant id from here, never from the request body.
type Actor struct {
	SessionID  uuid.UUID
	UserID     uuid.UUID
	TenantID   uuid.UUID
	Email      string
	FullName   string
	TenantSlug string
	TenantName string
	CSRFToken  string
	ExpiresAt  time.Time
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	v, ok := ctx.Value(actorKey{}).(Actor)
	return v, ok
}

// RequireActor returns the request actor, writing a 401 when there is none.
func RequireActor(w http.ResponseWriter, r *http.Request) (Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
	}
	return actor, ok
}
