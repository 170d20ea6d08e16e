package httpx

import "context"

type ctxKey string

const (
	CtxKeyInteractionID ctxKey = "interaction_id"
	CtxKeyUserID        ctxKey = "user_id"
	CtxKeyClaims        ctxKey = "claims" // if you want full jwtx.Claims
)

// InteractionIDFromCtx returns the interaction id injected by
// AuthnMiddleware, or "" if the request was not authenticated.
func InteractionIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyInteractionID).(string); ok {
		return v
	}
	return ""
}

// UserIDFromCtx returns the identified user id from the interaction token.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
