package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/internal/repository"
	appErrors "github.com/Monalisa-XD/Academix/pkg/errors"
)

type sessionRepository interface {
	Save(ctx context.Context, session *models.Session) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type credentialExchanger interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
}

type sessionGauge interface {
	SetActiveSessions(n int)
}

// SessionConfig defines how console session tokens are issued.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SessionService gates the console: it exchanges credentials with the roster
// backend, records the resulting session and issues a signed token naming it.
type SessionService struct {
	sessions  sessionRepository
	auth      credentialExchanger
	validator *validator.Validate
	logger    *zap.Logger
	metrics   sessionGauge
	config    SessionConfig
	now       func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(sessions sessionRepository, auth credentialExchanger, validate *validator.Validate, logger *zap.Logger, metrics sessionGauge, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TTL <= 0 {
		config.TTL = 12 * time.Hour
	}
	return &SessionService{
		sessions:  sessions,
		auth:      auth,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// Login signs an administrator in. A rejected exchange yields
// INVALID_CREDENTIALS carrying the backend's message.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	result, err := s.auth.Login(ctx, req)
	if err != nil {
		s.logger.Error("login exchange failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	if !result.Success || result.User == nil {
		message := result.Message
		if message == "" {
			message = appErrors.ErrInvalidCredentials.Message
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, message)
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		User:      *result.User,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}

	token, err := s.sign(session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	s.publishCount(ctx)
	s.logger.Info("console login", zap.String("session_id", session.ID), zap.String("user_id", session.User.ID))

	return &models.LoginResponse{Token: token, ExpiresAt: session.ExpiresAt, User: session.User}, nil
}

// Current resolves token to its live session. Any failure is NOT_AUTHENTICATED.
func (s *SessionService) Current(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, appErrors.ErrNotAuthenticated
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotAuthenticated.Code, appErrors.ErrNotAuthenticated.Status, appErrors.ErrNotAuthenticated.Message)
	}

	session, err := s.sessions.Find(ctx, claims.SessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			s.logger.Error("session lookup failed", zap.String("session_id", claims.SessionID), zap.Error(err))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrNotAuthenticated.Code, appErrors.ErrNotAuthenticated.Status, appErrors.ErrNotAuthenticated.Message)
	}
	return session, nil
}

// Logout ends the session named by token and returns its id. Unknown or
// expired tokens are ignored.
func (s *SessionService) Logout(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", nil
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	s.publishCount(ctx)
	s.logger.Info("console logout", zap.String("session_id", claims.SessionID))
	return claims.SessionID, nil
}

func (s *SessionService) sign(session *models.Session) (string, error) {
	claims := &models.SessionClaims{
		SessionID: session.ID,
		Email:     session.User.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Issuer:    s.config.Issuer,
			Subject:   session.User.ID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

func (s *SessionService) parse(token string) (*models.SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &models.SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*models.SessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid session claims")
	}
	return claims, nil
}

func (s *SessionService) publishCount(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	n, err := s.sessions.Count(ctx)
	if err != nil {
		s.logger.Warn("count sessions", zap.Error(err))
		return
	}
	s.metrics.SetActiveSessions(n)
}
