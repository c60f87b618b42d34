// Package session keeps the admin's backend credential on the server side
// and decides whether protected pages may render.
package session

import (
	"context"
	"errors"
)

// ErrNoToken is returned by Store.Get when a session holds no token.
var ErrNoToken = errors.New("session: no token stored")

// Store is the credential slot keyed by session id. Flash messages are
// one-shot: PopFlash returns and removes them.
type Store interface {
	Get(ctx context.Context, sid string) (string, error)
	Set(ctx context.Context, sid, token string) error
	Delete(ctx context.Context, sid string) error
	SetFlash(ctx context.Context, sid string, f Flash) error
	PopFlash(ctx context.Context, sid string) (Flash, bool, error)
}

// FlashKind distinguishes success notices from failures.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}
