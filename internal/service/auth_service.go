package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type sessionRepository interface {
	GetIdentity(ctx context.Context, sessionID string) (*models.Identity, error)
	SaveIdentity(ctx context.Context, sessionID string, identity models.Identity) error
	ClearIdentity(ctx context.Context, sessionID string) error
}

// AuthConfig defines configuration for session tokens.
type AuthConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// LoginRequest carries the single email field of the login form.
type LoginRequest struct {
	Email string `validate:"required,max=254"`
}

// AuthService issues session tokens and attaches identities to sessions.
type AuthService struct {
	repo      sessionRepository
	roles     *RoleInferrer
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo sessionRepository, roles *RoleInferrer, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 30 * 24 * time.Hour
	}
	return &AuthService{repo: repo, roles: roles, validator: validate, logger: logger, config: config, now: time.Now}
}

// StartSession issues a token for a new anonymous session.
func (s *AuthService) StartSession(ctx context.Context) (*models.SessionToken, error) {
	return s.issue(uuid.NewString(), nil)
}

// Login validates the email, infers the role and attaches the identity to
// the existing session, or to a new one when session is nil.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, session *models.Session) (*models.SessionToken, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "a valid email address is required")
	}
	if !IsValidEmail(req.Email) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a valid email address is required")
	}

	sessionID := uuid.NewString()
	if session != nil && session.ID != "" {
		sessionID = session.ID
	}
	identity := models.Identity{Email: req.Email, Role: s.roles.InferRole(req.Email)}
	if err := s.repo.SaveIdentity(ctx, sessionID, identity); err != nil {
		return nil, storeError(err, "failed to store session identity")
	}

	s.logger.Info("session login", zap.String("session_id", sessionID), zap.String("role", string(identity.Role)))
	return s.issue(sessionID, &identity)
}

// Logout clears the identity; the session and its enrollments remain.
func (s *AuthService) Logout(ctx context.Context, session *models.Session) error {
	if err := s.repo.ClearIdentity(ctx, session.ID); err != nil {
		return storeError(err, "failed to clear session identity")
	}
	return nil
}

// Current returns the identity attached to session or NOT_FOUND.
func (s *AuthService) Current(ctx context.Context, session *models.Session) (*models.Identity, error) {
	identity, err := s.repo.GetIdentity(ctx, session.ID)
	if err != nil {
		return nil, storeError(err, "failed to load session identity")
	}
	if identity == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no user is signed in")
	}
	return identity, nil
}

// Resolve validates token and loads the identity attached to its session.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	identity, err := s.repo.GetIdentity(ctx, claims.SessionID)
	if err != nil {
		return nil, storeError(err, "failed to load session identity")
	}
	if identity != nil {
		identity.Role = s.roles.InferRole(identity.Email)
	}
	return &models.Session{ID: claims.SessionID, Identity: identity}, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token claims")
	}
	return claims, nil
}

func (s *AuthService) issue(sessionID string, identity *models.Identity) (*models.SessionToken, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiry)
	claims := &models.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}
	return &models.SessionToken{Token: signed, SessionID: sessionID, ExpiresAt: expiresAt, Identity: identity}, nil
}
