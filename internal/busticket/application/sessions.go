package application

import (
	"context"
	"errors"
	"strings"

	"github.com/mateusmacedo/go-bff/internal/backend"
	"github.com/mateusmacedo/go-bff/internal/clock"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-bff/pkg/domain"
)

// Sessions faz login e logout no backend e guarda a identidade resultante.
type Sessions struct {
	gateway AuthGateway
	store   session.Store
	idGen   pkgDomain.IDGenerator[string]
	clock   clock.Clock
	logger  pkgApp.AppLogger
}

func NewSessions(gateway AuthGateway, store session.Store, idGen pkgDomain.IDGenerator[string], c clock.Clock, logger pkgApp.AppLogger) *Sessions {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Sessions{gateway: gateway, store: store, idGen: idGen, clock: c, logger: logger}
}

func (s *Sessions) Login(ctx context.Context, username, password string) (*session.Session, error) {
	var verr ValidationErrors
	if strings.TrimSpace(username) == "" {
		verr.Add("username", "username is required")
	}
	if password == "" {
		verr.Add("password", "password is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	resp, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		if status := backend.StatusOf(err); status == 401 || status == 403 {
			return nil, errors.Join(session.ErrUnauthenticated, err)
		}
		return nil, err
	}

	sess, err := session.FromLogin(s.idGen(), resp.Token, resp.Role, resp.Username, resp.UserID)
	if err != nil {
		pkgApp.LogError(ctx, s.logger, "Resposta de login inválida", err, map[string]interface{}{"username": username})
		return nil, err
	}
	if sess.Username == "" {
		sess.Username = username
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	pkgApp.LogInfo(ctx, s.logger, "Sessão iniciada", map[string]interface{}{
		"session_id": sess.ID,
		"username":   sess.Username,
		"role":       sess.Role,
	})
	return sess, nil
}

// Logout apaga token, papel, usuário e mensagens pendentes de uma vez.
func (s *Sessions) Logout(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	pkgApp.LogInfo(ctx, s.logger, "Sessão encerrada", map[string]interface{}{"session_id": id})
	return nil
}

// Resolve carrega a sessão; sessões expiradas são removidas.
func (s *Sessions) Resolve(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, session.ErrUnauthenticated
	}
	sess, err := s.store.Load(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, session.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated(s.clock.Now()) {
		_ = s.store.Delete(ctx, id)
		return nil, session.ErrUnauthenticated
	}
	return sess, nil
}

// Flashes consome as mensagens de sucesso pendentes da sessão.
func (s *Sessions) Flashes(ctx context.Context, id string) (map[string]string, error) {
	return s.store.PopAllFlashes(ctx, id)
}
