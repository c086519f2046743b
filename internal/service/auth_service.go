package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"medcamp/internal/auth"
	apperrors "medcamp/internal/errors"
	"medcamp/internal/model"
	"medcamp/internal/repository"
)

const bcryptCost = 10

// SignUpInput carries the registration form.
type SignUpInput struct {
	Email        string
	Password     string
	FullName     string
	Organization string
}

// Session is what a client keeps to stay signed in across reloads.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

// CurrentUser is the signed-in identity with its profile and capabilities.
type CurrentUser struct {
	User    *model.User    `json:"user"`
	Profile *model.Profile `json:"profile"`
	IsAdmin bool           `json:"is_admin"`
}

// AuthService handles sign-up, sign-in, session restore and sign-out.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	SignOut(ctx context.Context, access *auth.Claims, refreshToken string) error
	ResolveIdentity(ctx context.Context, access *auth.Claims) (auth.Identity, error)
	CurrentUser(ctx context.Context, caller auth.Identity) (*CurrentUser, error)
}

type authService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	policy      *auth.Policy
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	policy *auth.Policy,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		policy:      policy,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates a user with its profile and signs it in.
func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	email := normalizeEmail(in.Email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}
	profile := &model.Profile{
		FullName:     strings.TrimSpace(in.FullName),
		Organization: strings.TrimSpace(in.Organization),
	}
	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		// a concurrent sign-up with the same email won the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueSession(ctx, user)
}

// SignIn authenticates by email and password.
func (s *authService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

func (s *authService) issueSession(ctx context.Context, user *model.User) (*Session, error) {
	_, accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh restores a session: a live refresh token yields a new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID.String() != claims.UserID {
		return "", apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, storedUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	_, accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// SignOut revokes the presented access token and, when given, the refresh token.
// An unknown or malformed refresh token is ignored; there is nothing left to revoke.
func (s *authService) SignOut(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if access != nil && access.ExpiresAt != nil {
		ttl := access.ExpiresAt.Time.Sub(s.now())
		if err := s.tokenStore.RevokeAccessToken(ctx, access.ID, ttl); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// ResolveIdentity turns validated access claims into the caller's identity, reading role
// and email from the stored user so privilege changes apply on the next request.
func (s *authService) ResolveIdentity(ctx context.Context, access *auth.Claims) (auth.Identity, error) {
	if access == nil {
		return auth.Identity{}, apperrors.ErrUnauthenticated
	}
	revoked, err := s.tokenStore.IsAccessTokenRevoked(ctx, access.ID)
	if err != nil || revoked {
		return auth.Identity{}, apperrors.ErrUnauthenticated
	}

	userID, err := uuid.Parse(access.UserID)
	if err != nil {
		return auth.Identity{}, apperrors.ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Identity{}, apperrors.ErrUnauthenticated
		}
		return auth.Identity{}, fmt.Errorf("find user: %w", err)
	}

	return auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// CurrentUser returns the caller with profile (nil if none) and admin flag.
func (s *authService) CurrentUser(ctx context.Context, caller auth.Identity) (*CurrentUser, error) {
	user, err := s.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, caller.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	return &CurrentUser{
		User:    user,
		Profile: profile,
		IsAdmin: s.policy.IsAdmin(caller),
	}, nil
}
