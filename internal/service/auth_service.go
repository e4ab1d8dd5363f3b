package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("incorrect phone or password")
	ErrClientLoginFailed    = errors.New("invalid phone or client ID")
	ErrWrongPassword        = errors.New("your current password is incorrect")
	ErrResetTokenInvalid    = ValidationError("token is invalid or has expired")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

const (
	bcryptCost       = 12
	resetTokenExpiry = 10 * time.Minute
	minPasswordLen   = 6
)

// Claims is the JWT payload for both staff and client tokens. Client tokens
// carry role "client" and repeat the Client document id in cid; ownership
// checks always compare against the document id, never the human-readable
// clientId string.
type Claims struct {
	Role     domain.Role `json:"role"`
	ClientID string      `json:"cid,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, phone, password string) (token string, user *domain.User, err error)
	LoginClient(ctx context.Context, phone, clientID string) (token string, client *domain.Client, err error)
	Me(ctx context.Context, actor authz.Actor) (*domain.User, *domain.Client, error)
	UpdatePassword(ctx context.Context, actor authz.Actor, currentPassword, newPassword string) (token string, user *domain.User, err error)
	AdminResetPassword(ctx context.Context, actor authz.Actor, targetID primitive.ObjectID, newPassword string) error
	ForgotPassword(ctx context.Context, phone string) (resetToken string, err error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	clientRepo    repository.ClientRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, clientRepo repository.ClientRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		clientRepo:    clientRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Login authenticates a staff member by phone and password.
func (s *authService) Login(ctx context.Context, phone, password string) (string, *domain.User, error) {
	if phone == "" || password == "" {
		return "", nil, ValidationError("please provide phone and password")
	}

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateToken(user.ID, user.Role, "")
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// LoginClient authenticates a gym member by the phone + clientId pairing.
// There is no client password; the generated clientId acts as the shared
// secret handed over at the front desk.
func (s *authService) LoginClient(ctx context.Context, phone, clientID string) (string, *domain.Client, error) {
	if phone == "" || clientID == "" {
		return "", nil, ValidationError("please provide phone and client ID")
	}

	client, err := s.clientRepo.GetByPhoneAndClientID(ctx, phone, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrClientLoginFailed
		}
		return "", nil, err
	}

	token, err := s.generateToken(client.ID, domain.RoleClient, client.ID.Hex())
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, client, nil
}

// Me resolves the caller's own record; exactly one of the returns is set
// depending on the token kind.
func (s *authService) Me(ctx context.Context, actor authz.Actor) (*domain.User, *domain.Client, error) {
	if actor.Role == domain.RoleClient {
		client, err := s.clientRepo.GetByID(ctx, actor.ID)
		return nil, client, err
	}
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""
	return user, nil, nil
}

// UpdatePassword lets a staff member change their own password after
// proving the current one.
func (s *authService) UpdatePassword(ctx context.Context, actor authz.Actor, currentPassword, newPassword string) (string, *domain.User, error) {
	if actor.Role == domain.RoleClient {
		return "", nil, authz.ErrForbidden
	}
	if len(newPassword) < minPasswordLen {
		return "", nil, ValidationError("please provide a new password with at least 6 characters")
	}

	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return "", nil, ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}
	if err := s.userRepo.SetPassword(ctx, user.ID, string(hash)); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user.ID, user.Role, "")
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""
	return token, user, nil
}

// AdminResetPassword lets an administrator set another user's password.
func (s *authService) AdminResetPassword(ctx context.Context, actor authz.Actor, targetID primitive.ObjectID, newPassword string) error {
	if !actor.IsAdminTier() {
		return authz.ErrForbidden
	}
	if len(newPassword) < minPasswordLen {
		return ValidationError("please provide a newPassword with at least 6 characters")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return ErrHashingFailed
	}
	return s.userRepo.SetPassword(ctx, user.ID, string(hash))
}

// ForgotPassword issues a password-reset token for the user with the given
// phone. Only the sha256 digest is stored; the plaintext token is returned
// to the caller for delivery (SMS integration pending).
func (s *authService) ForgotPassword(ctx context.Context, phone string) (string, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	resetToken := hex.EncodeToString(raw)

	expires := time.Now().UTC().Add(resetTokenExpiry)
	if err := s.userRepo.SetResetToken(ctx, user.ID, hashToken(resetToken), expires); err != nil {
		return "", err
	}
	return resetToken, nil
}

// ResetPassword consumes a reset token and sets the new password, logging
// the user in.
func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, *domain.User, error) {
	if len(newPassword) < minPasswordLen {
		return "", nil, ValidationError("please provide a new password with at least 6 characters")
	}

	user, err := s.userRepo.GetByResetToken(ctx, hashToken(resetToken), time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrResetTokenInvalid
		}
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}
	if err := s.userRepo.ResetPassword(ctx, user.ID, string(hash)); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user.ID, user.Role, "")
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""
	return token, user, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// generateToken creates a signed JWT for the given identity.
func (s *authService) generateToken(id primitive.ObjectID, role domain.Role, clientID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role:     role,
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "her-power-gym",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
