package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"story-cms/cache"
	"story-cms/config"
	"story-cms/models"
	"story-cms/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload of a session token.
type Claims struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, session *models.Session) error
	Authenticate(ctx context.Context, token string) (*models.Session, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	revoker  cache.TokenRevoker
	jwt      config.JWTSettings
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, revoker cache.TokenRevoker, settings config.JWTSettings, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		revoker:  revoker,
		jwt:      settings,
		log:      log,
		now:      time.Now,
	}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, models.NewInternalError("Login failed", err)
	}

	if user.PasswordHash == "" {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, models.NewInternalError("Login failed", err)
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
	}, nil
}

func (s *authService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil || session.TokenID == "" {
		return models.NewUnauthorizedError("Not logged in")
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.revoker.Revoke(ctx, session.TokenID, ttl); err != nil {
		return models.NewInternalError("Logout failed", err)
	}
	return nil
}

// Authenticate verifies the token signature, expiry and revocation and
// resolves the session. The role is re-read from the store so demotions take
// effect before the token expires.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwt.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid token")
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, models.NewInternalError("Session check failed", err)
	}
	if revoked {
		return nil, models.NewUnauthorizedError("Session has been revoked")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("User no longer exists")
		}
		return nil, models.NewInternalError("Session check failed", err)
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	session := &models.Session{
		UserID:  user.ID,
		Email:   email,
		Role:    user.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (s *authService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError("Failed to load user", err)
	}
	return user, nil
}

func (s *authService) generateToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.jwt.Expiration)

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	claims := Claims{
		UserID: user.ID,
		Email:  email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.jwt.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwt.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
