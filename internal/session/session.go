// Package session mantém a identidade do usuário do BFF: token do backend,
// papel, nome de usuário e mensagens flash de uso único.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("operation not permitted for this role")
	ErrNotFound        = errors.New("session not found")
)

// Session substitui as chaves token, role e username que o cliente
// guardaria no armazenamento local.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	Role      Role      `json:"role"`
	Username  string    `json:"username"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Authenticated indica se a sessão tem token utilizável no instante now.
func (s *Session) Authenticated(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

func (s *Session) Require(c Capability) error {
	if s == nil || s.Token == "" {
		return ErrUnauthenticated
	}
	if !s.Role.Can(c) {
		return fmt.Errorf("%w: %s cannot %s", ErrForbidden, s.Role, c)
	}
	return nil
}

// Store persiste sessões. Delete remove sessão e mensagens flash de uma vez.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	PushFlash(ctx context.Context, id, key, msg string) error
	PopFlash(ctx context.Context, id, key string) (string, bool, error)
	// PopAllFlashes consome todas as mensagens pendentes.
	PopAllFlashes(ctx context.Context, id string) (map[string]string, error)
}

type ctxKey struct{}

// WithSession anexa a sessão ao contexto para os clientes do backend.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// FromLogin monta a sessão a partir da resposta de login do backend,
// completando userId e expiração com as claims do token quando possível.
func FromLogin(id, token, role, username string, userID int64) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrUnauthenticated)
	}
	r, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	s := &Session{ID: id, Token: token, Role: r, Username: username, UserID: userID}
	if claims, err := ClaimsFromToken(token); err == nil {
		s.ExpiresAt = claims.ExpiresAt
		if s.UserID == 0 {
			s.UserID = claims.UserID
		}
		if s.Username == "" {
			s.Username = claims.Subject
		}
	}
	return s, nil
}
