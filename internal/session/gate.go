package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Session is the authenticated admin's context, passed explicitly to
// handlers and services.
type Session struct {
	ID    string
	Token string
}

// Gate decides whether protected content may render. Token presence is the
// only check; the token itself is never inspected or refreshed.
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate { return &Gate{store: store} }

// Store exposes the underlying credential store for flash messages.
func (g *Gate) Store() Store { return g.store }

// Login stores token under a fresh session id.
func (g *Gate) Login(ctx context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, errors.New("session: empty token")
	}
	sid := uuid.NewString()
	if err := g.store.Set(ctx, sid, token); err != nil {
		return Session{}, err
	}
	return Session{ID: sid, Token: token}, nil
}

// Resolve returns the session for sid when a token is stored.
func (g *Gate) Resolve(ctx context.Context, sid string) (Session, bool, error) {
	if sid == "" {
		return Session{}, false, nil
	}
	tok, err := g.store.Get(ctx, sid)
	if errors.Is(err, ErrNoToken) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return Session{ID: sid, Token: tok}, true, nil
}

// IsAuthenticated reports whether sid currently holds a token. Store
// failures count as unauthenticated.
func (g *Gate) IsAuthenticated(ctx context.Context, sid string) bool {
	_, ok, err := g.Resolve(ctx, sid)
	return err == nil && ok
}

// Logout clears the stored token. No backend call is made.
func (g *Gate) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return g.store.Delete(ctx, sid)
}
