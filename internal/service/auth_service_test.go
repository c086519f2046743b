package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"medcamp/internal/auth"
	apperrors "medcamp/internal/errors"
	"medcamp/internal/model"
)

func newTestAuthService(users *MockUserRepository, profiles *MockProfileRepository, tokens *MockTokenStore) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(users, profiles, jwtService, tokens, auth.NewPolicy("admin@freedoctor.com")), jwtService
}

func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name          string
		input         SignUpInput
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name: "successful sign up",
			input: SignUpInput{
				Email:        "  Org@Example.com ",
				Password:     "password123",
				FullName:     "Dr. Rao",
				Organization: "Sight Trust",
			},
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "org@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("CreateWithProfile", mock.Anything, mock.AnythingOfType("*model.User"), mock.MatchedBy(func(p *model.Profile) bool {
					return p.FullName == "Dr. Rao" && p.Organization == "Sight Trust"
				})).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("uuid.UUID"), auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:  "email already registered",
			input: SignUpInput{Email: "existing@example.com", Password: "password123"},
			setupMock: func(mRepo *MockUserRepository, _ *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:  "email taken between lookup and insert",
			input: SignUpInput{Email: "race@example.com", Password: "password123"},
			setupMock: func(mRepo *MockUserRepository, _ *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("CreateWithProfile", mock.Anything, mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:  "email and password only",
			input: SignUpInput{Email: "org@example.com", Password: "password123"},
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "org@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("CreateWithProfile", mock.Anything, mock.AnythingOfType("*model.User"), mock.MatchedBy(func(p *model.Profile) bool {
					return p.FullName == "" && p.Organization == ""
				})).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("uuid.UUID"), auth.RefreshTokenExpiry).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service, _ := newTestAuthService(mockRepo, new(MockProfileRepository), mockTokenStore)
			session, err := service.SignUp(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, session.AccessToken)
				assert.NotEmpty(t, session.RefreshToken)
				assert.Equal(t, "org@example.com", session.User.Email)
				assert.Equal(t, model.RoleUser, session.User.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(session.User.PasswordHash), []byte("password123")))
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_SignIn(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &model.User{ID: uuid.New(), Email: "test@example.com", PasswordHash: string(hashedPassword), Role: model.RoleUser}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful sign in",
			email:    "Test@Example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), user.ID, auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, _ *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			setupMock: func(mRepo *MockUserRepository, _ *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service, jwtService := newTestAuthService(mockRepo, new(MockProfileRepository), mockTokenStore)
			session, err := service.SignIn(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(session.AccessToken, auth.TokenTypeAccess)
				require.NoError(t, err)
				assert.Equal(t, user.ID.String(), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	userID := uuid.New()
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "test@example.com")
	require.NoError(t, err)
	_, accessToken, err := jwtService.GenerateAccessToken(userID, "test@example.com")
	require.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:  "live refresh token",
			token: refreshToken,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return(userID, nil)
				mRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "test@example.com"}, nil)
			},
		},
		{
			name:  "signed out refresh token",
			token: refreshToken,
			setupMock: func(_ *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return(uuid.Nil, auth.ErrRefreshTokenNotFound)
			},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
		{
			name:          "access token presented",
			token:         accessToken,
			setupMock:     func(*MockUserRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
		{
			name:  "user deleted",
			token: refreshToken,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return(userID, nil)
				mRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service := NewAuthService(mockRepo, new(MockProfileRepository), jwtService, mockTokenStore, auth.NewPolicy(""))
			token, err := service.Refresh(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				claims, err := jwtService.ValidateToken(token, auth.TokenTypeAccess)
				require.NoError(t, err)
				assert.Equal(t, userID.String(), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_SignOut(t *testing.T) {
	userID := uuid.New()
	jwtService := auth.NewJWTService("test-secret")
	refreshID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "test@example.com")
	require.NoError(t, err)
	_, accessToken, err := jwtService.GenerateAccessToken(userID, "test@example.com")
	require.NoError(t, err)
	access, err := jwtService.ValidateToken(accessToken, auth.TokenTypeAccess)
	require.NoError(t, err)

	t.Run("revokes both tokens", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("RevokeAccessToken", mock.Anything, access.ID, mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 0 && ttl <= auth.AccessTokenExpiry
		})).Return(nil)
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)

		service := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, mockTokenStore, auth.NewPolicy(""))
		assert.NoError(t, service.SignOut(context.Background(), access, refreshToken))
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("ignores a malformed refresh token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("RevokeAccessToken", mock.Anything, access.ID, mock.Anything).Return(nil)

		service := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, mockTokenStore, auth.NewPolicy(""))
		assert.NoError(t, service.SignOut(context.Background(), access, "not-a-token"))
		mockTokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("RevokeAccessToken", mock.Anything, access.ID, mock.Anything).Return(errors.New("redis down"))

		service := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, mockTokenStore, auth.NewPolicy(""))
		assert.Error(t, service.SignOut(context.Background(), access, ""))
	})

	t.Run("refresh token delete failure", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("RevokeAccessToken", mock.Anything, access.ID, mock.Anything).Return(nil)
		mockTokenStore.On("DeleteRefreshToken", mock.Anything, refreshID).Return(errors.New("redis down"))

		service := NewAuthService(new(MockUserRepository), new(MockProfileRepository), jwtService, mockTokenStore, auth.NewPolicy(""))
		err := service.SignOut(context.Background(), access, refreshToken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delete refresh token")
	})
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	userID := uuid.New()
	claims := &auth.Claims{UserID: userID.String(), Email: "old@example.com"}
	claims.ID = "jti-1"

	tests := []struct {
		name          string
		claims        *auth.Claims
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expected      auth.Identity
		expectedError error
	}{
		{
			name:   "identity comes from the stored user",
			claims: claims,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("IsAccessTokenRevoked", mock.Anything, "jti-1").Return(false, nil)
				mRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "new@example.com", Role: model.RoleAdmin}, nil)
			},
			expected: auth.Identity{UserID: userID, Email: "new@example.com", Role: model.RoleAdmin},
		},
		{
			name:   "revoked token",
			claims: claims,
			setupMock: func(_ *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("IsAccessTokenRevoked", mock.Anything, "jti-1").Return(true, nil)
			},
			expectedError: apperrors.ErrUnauthenticated,
		},
		{
			name:   "user no longer exists",
			claims: claims,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("IsAccessTokenRevoked", mock.Anything, "jti-1").Return(false, nil)
				mRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUnauthenticated,
		},
		{
			name:          "no claims",
			setupMock:     func(*MockUserRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service, _ := newTestAuthService(mockRepo, new(MockProfileRepository), mockTokenStore)
			identity, err := service.ResolveIdentity(context.Background(), tt.claims)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, identity)
			}
			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockUserRepository)
	mockProfiles := new(MockProfileRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "Admin@FreeDoctor.com"}, nil)
	mockProfiles.On("FindByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

	service, _ := newTestAuthService(mockRepo, mockProfiles, new(MockTokenStore))
	current, err := service.CurrentUser(context.Background(), auth.Identity{UserID: userID, Email: "Admin@FreeDoctor.com", Role: model.RoleUser})

	require.NoError(t, err)
	assert.True(t, current.IsAdmin)
	assert.Nil(t, current.Profile)
	mockRepo.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
}
