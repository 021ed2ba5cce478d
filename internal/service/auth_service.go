package service

import (
	"crypto/subtle"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/engabdallh/attendance-registry/internal/models"
	"github.com/engabdallh/attendance-registry/pkg/config"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
)

// AuthService exchanges a role's shared secret for an access token. The
// secret comparison is deliberately a plain shared-secret check, mirroring
// the gate in front of the privileged menus; credential storage and rotation
// live outside this system.
type AuthService struct {
	config    config.AuthConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(cfg config.AuthConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: cfg, validator: validate, logger: logger}
}

// Login authenticates a role against its configured secret and issues a token.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "role and secret are required")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported role")
	}

	secret := s.secretFor(req.Role)
	if secret == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "login is not enabled for this role")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(req.Secret)) != 1 {
		s.logger.Warn("rejected login", zap.String("role", string(req.Role)))
		return nil, appErrors.Clone(appErrors.ErrInvalidSecret, "incorrect secret")
	}

	now := time.Now().UTC()
	claims := &models.JWTClaims{
		Role: req.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   string(req.Role),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		Role:        req.Role,
		IssuedAt:    now,
	}, nil
}

// ValidateToken parses and verifies an access token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token carries no known role")
	}
	return claims, nil
}

func (s *AuthService) secretFor(role models.Role) string {
	switch role {
	case models.RoleTeacher:
		return s.config.TeacherSecret
	case models.RoleAdmin:
		return s.config.AdminSecret
	case models.RoleStudent:
		return s.config.StudentSecret
	default:
		return ""
	}
}
