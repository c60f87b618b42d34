package middlewarex

import (
	"context"

	"roomadmin/internal/session"
)

type ctxKey string

const (
	ctxSession ctxKey = "session"
)

func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, ctxSession, s)
}

func SessionFrom(ctx context.Context) (session.Session, bool) {
	v, ok := ctx.Value(ctxSession).(session.Session)
	return v, ok
}
