package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/bnema/taskflow-cli/internal/ports"
	"github.com/bnema/taskflow-cli/internal/querycache"
	"github.com/bnema/taskflow-cli/internal/telemetry"
)

// AuthService signs users in and out and keeps the persisted session, the
// secret store and the in-memory SessionState in step.
type AuthService struct {
	api    ports.AuthAPI
	repo   ports.SessionRepository
	store  ports.SecretStore
	state  *SessionState
	cache  *querycache.Cache
	clock  ports.Clock
	logger *slog.Logger
}

func NewAuthService(api ports.AuthAPI, repo ports.SessionRepository, store ports.SecretStore, state *SessionState, cache *querycache.Cache, clock ports.Clock, logger *slog.Logger) *AuthService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = telemetry.Discard()
	}
	if state == nil {
		state = NewSessionState(domain.Session{})
	}

	return &AuthService{
		api:    api,
		repo:   repo,
		store:  store,
		state:  state,
		cache:  cache,
		clock:  clock,
		logger: logger.With("component", "auth"),
	}
}

func (s *AuthService) Current() domain.Session {
	return s.state.Snapshot()
}

func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (domain.Session, error) {
	if err := req.Validate(); err != nil {
		return domain.Session{}, err
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	return s.startSession(ctx, resp)
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (domain.Session, error) {
	if err := req.Validate(); err != nil {
		return domain.Session{}, err
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return domain.Session{}, fmt.Errorf("register: %w", err)
	}

	return s.startSession(ctx, resp)
}

func (s *AuthService) startSession(ctx context.Context, resp domain.AuthResponse) (domain.Session, error) {
	previous := s.state.Snapshot()
	session := domain.NewSession(resp, sessionSecretRef(resp.User.ID), s.clock.Now())

	if err := s.persist(ctx, session, previous); err != nil {
		return domain.Session{}, err
	}
	if previous.SecretRef != "" && previous.SecretRef != session.SecretRef {
		if err := s.store.Delete(ctx, previous.SecretRef); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
			s.logger.Warn("delete previous session secret", "secret_ref", previous.SecretRef, "error", err)
		}
	}

	s.state.Set(session)
	s.resetCache()
	s.logger.Info("session started", "user_id", string(session.User.ID))

	return session, nil
}

// Refresh exchanges the current refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context) (domain.Session, error) {
	current := s.state.Snapshot()
	if current.RefreshToken == "" {
		return domain.Session{}, domain.ErrNotLoggedIn
	}

	pair, err := s.api.RefreshToken(ctx, current.RefreshToken)
	if err != nil {
		return domain.Session{}, fmt.Errorf("refresh token: %w", err)
	}

	session := current.WithTokens(pair, s.clock.Now())
	if session.SecretRef == "" {
		session.SecretRef = sessionSecretRef(session.User.ID)
	}
	if err := s.persist(ctx, session, current); err != nil {
		return domain.Session{}, err
	}

	s.state.Set(session)
	return session, nil
}

// Logout always clears the local session. The server error, if any, is
// returned after local state is gone.
func (s *AuthService) Logout(ctx context.Context) error {
	current := s.state.Snapshot()
	if !current.Authenticated() && current.SecretRef == "" {
		return domain.ErrNotLoggedIn
	}

	var serverErr error
	if current.RefreshToken != "" {
		if err := s.api.Logout(ctx, current.RefreshToken); err != nil {
			serverErr = fmt.Errorf("logout: %w", err)
		}
	}

	var localErr error
	if current.SecretRef != "" {
		if err := s.store.Delete(ctx, current.SecretRef); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
			localErr = errors.Join(localErr, fmt.Errorf("delete session secret: %w", err))
		}
	}
	if err := s.repo.Clear(ctx); err != nil {
		localErr = errors.Join(localErr, fmt.Errorf("clear session: %w", err))
	}

	s.state.Clear()
	s.resetCache()
	s.logger.Info("session cleared", "user_id", string(current.User.ID), "server_error", serverErr != nil)

	return errors.Join(serverErr, localErr)
}

// Restore loads the persisted session into memory. A missing session is not
// an error; the returned session is simply unauthenticated.
func (s *AuthService) Restore(ctx context.Context) (domain.Session, error) {
	session, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.state.Clear()
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	if session.SecretRef != "" {
		secret, err := s.store.Get(ctx, session.SecretRef)
		switch {
		case errors.Is(err, domain.ErrSecretNotFound):
			s.logger.Warn("session tokens missing from secret store", "secret_ref", session.SecretRef)
		case err != nil:
			return domain.Session{}, fmt.Errorf("load session tokens: %w", err)
		default:
			tokens, err := decodeTokens(secret)
			if err != nil {
				return domain.Session{}, err
			}
			session.AccessToken = tokens.AccessToken
			session.RefreshToken = tokens.RefreshToken
		}
	}

	s.state.Set(session)
	return session, nil
}

// persist writes the token blob then the profile. When the profile save fails
// the secret is put back to what previous held, or deleted.
func (s *AuthService) persist(ctx context.Context, session, previous domain.Session) error {
	secret, err := encodeTokens(session)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, session.SecretRef, secret); err != nil {
		return fmt.Errorf("store session tokens: %w", err)
	}

	if err := s.repo.Save(ctx, session); err != nil {
		if rollbackErr := s.rollbackSecret(ctx, session.SecretRef, previous); rollbackErr != nil {
			return fmt.Errorf("save session and rollback stored tokens: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

func (s *AuthService) rollbackSecret(ctx context.Context, secretRef string, previous domain.Session) error {
	if previous.SecretRef != secretRef || !previous.Authenticated() {
		return s.store.Delete(ctx, secretRef)
	}

	secret, err := encodeTokens(previous)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, secretRef, secret)
}

func (s *AuthService) resetCache() {
	if s.cache != nil {
		s.cache.Reset()
	}
}
