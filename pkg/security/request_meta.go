package security

import "context"

type ctxKey string

const (
	keyRequestID ctxKey = "RequestID"
	keyClientIP  ctxKey = "ClientIP"
	keyUserAgent ctxKey = "UserAgent"
)

// RequestMeta carries caller details attached to events.
type RequestMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

// WithRequestMeta stores caller details on the context.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	ctx = context.WithValue(ctx, keyRequestID, meta.RequestID)
	ctx = context.WithValue(ctx, keyClientIP, meta.IP)
	return context.WithValue(ctx, keyUserAgent, meta.UserAgent)
}

// MetaFromContext reads caller details; missing values are empty.
func MetaFromContext(ctx context.Context) RequestMeta {
	var meta RequestMeta
	meta.RequestID, _ = ctx.Value(keyRequestID).(string)
	meta.IP, _ = ctx.Value(keyClientIP).(string)
	meta.UserAgent, _ = ctx.Value(keyUserAgent).(string)
	return meta
}
