package application

import "context"

type contextKey string

const requestIDKey contextKey = "requestID"

// WithRequestID anexa o identificador da requisição ao contexto.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom retorna o identificador da requisição, ou "" quando ausente.
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
