// internal/service/auth/auth.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"taskdesk/internal/domain/auth"
	"taskdesk/internal/pkg/apiclient"
	xerrors "taskdesk/internal/pkg/errors"
	"taskdesk/internal/pkg/jwt"
	"taskdesk/internal/pkg/querycache"
	"taskdesk/internal/pkg/session"

	"go.uber.org/zap"
)

const (
	loginPath    = "/Auth/login"
	registerPath = "/Auth/register"

	defaultRegisterMessage = "registration successful, please log in"
)

type AuthService struct {
	client  *apiclient.Client
	session *session.Store
	cache   *querycache.Cache
	logger  *zap.Logger
}

func NewAuthService(
	client *apiclient.Client,
	sess *session.Store,
	cache *querycache.Cache,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		client:  client,
		session: sess,
		cache:   cache,
		logger:  logger,
	}
}

// ========== Login ==========

// Login exchanges credentials for a token and the user it identifies. The
// session store is not written; see StartSession.
func (s *AuthService) Login(ctx context.Context, creds *auth.LoginCredentials) (*auth.LoginResult, error) {
	var env apiclient.Envelope[auth.AccessToken]
	if err := s.client.Do(ctx, http.MethodPost, loginPath, creds, &env); err != nil {
		s.logger.Warn("login failed",
			zap.String("username", creds.Username),
			zap.Error(err),
		)
		return nil, err
	}

	token := env.Data.AccessToken
	if token == "" {
		s.logger.Error("login response carried no access token", zap.String("message", env.Message))
		return nil, fmt.Errorf("%w: missing access token", xerrors.ErrInvalidServerResponse)
	}

	user, err := jwt.DecodeUser(token)
	if err != nil {
		s.logger.Error("failed to decode access token", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidServerResponse, err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return &auth.LoginResult{User: user, Token: token}, nil
}

// StartSession publishes a login result to the session store. Cached
// queries belong to whoever was signed in before and are dropped.
func (s *AuthService) StartSession(ctx context.Context, res *auth.LoginResult) error {
	if res == nil {
		return fmt.Errorf("nil login result")
	}
	s.cache.Clear()
	return s.session.SetAuth(ctx, res.User, res.Token)
}

// ========== Registration ==========

// Register creates an account. Only a confirmation comes back; the caller
// must log in afterwards.
func (s *AuthService) Register(ctx context.Context, data *auth.RegisterData) (*auth.RegisterResult, error) {
	var env apiclient.Envelope[json.RawMessage]
	if err := s.client.Do(ctx, http.MethodPost, registerPath, data, &env); err != nil {
		s.logger.Warn("registration failed",
			zap.String("username", data.Username),
			zap.String("email", data.Email),
			zap.Error(err),
		)
		return nil, err
	}

	// some backend revisions answer 2xx with success=false
	if !env.Success && env.Message != "" {
		return nil, fmt.Errorf("%w: %s", xerrors.ErrRequestFailed, env.Message)
	}

	msg := env.Message
	if msg == "" {
		msg = defaultRegisterMessage
	}

	s.logger.Info("user registered", zap.String("username", data.Username))
	return &auth.RegisterResult{Success: true, Message: msg}, nil
}

// ========== Logout ==========

// Logout drops the session and every cached query.
func (s *AuthService) Logout(ctx context.Context) error {
	s.cache.Clear()
	if err := s.session.ClearAuth(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("user logged out")
	return nil
}

// CurrentUser returns the signed-in user, if any.
func (s *AuthService) CurrentUser() (*auth.User, error) {
	if !s.session.IsAuthenticated() {
		return nil, xerrors.ErrNotAuthenticated
	}
	return s.session.User(), nil
}
