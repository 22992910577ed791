package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/prepmate/interview-server-go/internal/errors"
	"github.com/prepmate/interview-server-go/internal/model"
	"github.com/prepmate/interview-server-go/internal/repository"
	"github.com/prepmate/interview-server-go/internal/util"
)

const tokenTTL = 7 * 24 * time.Hour

const minPasswordLength = 8

type SignupParams struct {
	Email    string
	Name     string
	Password string
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService handles account lifecycle and token issuance, plus the
// bring-your-own provider API key each account may store.
type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	encryptionKey string
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret, encryptionKey string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		encryptionKey: encryptionKey,
	}
}

func (s *AuthService) Signup(ctx context.Context, params SignupParams) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if !util.IsValidEmail(email) {
		return nil, apperrors.InvalidInput("email", "must be a valid email address")
	}
	if len(params.Password) < minPasswordLength {
		return nil, apperrors.InvalidInput("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Account")
	}

	hash, err := util.HashPassword(params.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}

	user, err := s.userRepo.Create(ctx, model.CreateUserParams{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(params.Name),
		PasswordHash: hash,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("userId", user.ID).Msg("account created")

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil || !util.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("userId", user.ID).Msg("user logged in")

	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User")
	}
	return user, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Internal("Failed to sign token").WithCause(err)
	}
	return token, nil
}

// VerifyToken validates a bearer token and returns the user id it was
// issued to.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.InvalidToken("Invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperrors.InvalidToken("Invalid token claims")
	}
	return claims.Subject, nil
}

// StoreAPIKey saves a provider API key for the account, encrypted at
// rest when an encryption key is configured.
func (s *AuthService) StoreAPIKey(ctx context.Context, userID, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return apperrors.MissingRequired("apiKey")
	}

	stored := apiKey
	if s.encryptionKey != "" {
		encrypted, err := util.Encrypt(s.encryptionKey, apiKey)
		if err != nil {
			return apperrors.Internal("Failed to encrypt API key").WithCause(err)
		}
		stored = encrypted
	} else {
		log.Warn().Str("userId", userID).Msg("storing provider API key unencrypted: ENCRYPTION_KEY not set")
	}

	if _, err := s.userRepo.UpdateAPIKey(ctx, userID, stored); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("userId", userID).Msg("provider API key stored")
	return nil
}

// APIKeyFor returns the account's stored provider API key, decrypted,
// or "" when none is stored. Used as the fallback credential when a
// request carries no key of its own.
func (s *AuthService) APIKeyFor(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", apperrors.Database(err)
	}
	if user == nil || user.APIKeyEncrypted == nil || *user.APIKeyEncrypted == "" {
		return "", nil
	}

	if s.encryptionKey == "" {
		return *user.APIKeyEncrypted, nil
	}
	plaintext, err := util.Decrypt(s.encryptionKey, *user.APIKeyEncrypted)
	if err != nil {
		return "", apperrors.Internal("Failed to decrypt API key").WithCause(err)
	}
	return plaintext, nil
}
