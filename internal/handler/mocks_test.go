package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medcamp/internal/auth"
	"medcamp/internal/model"
	"medcamp/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, in service.SignUpInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, access *auth.Claims, refreshToken string) error {
	args := m.Called(ctx, access, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ResolveIdentity(ctx context.Context, access *auth.Claims) (auth.Identity, error) {
	args := m.Called(ctx, access)
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, caller auth.Identity) (*service.CurrentUser, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CurrentUser), args.Error(1)
}

// MockCampService is a mock implementation of service.CampService.
type MockCampService struct {
	mock.Mock
}

func (m *MockCampService) Submit(ctx context.Context, caller auth.Identity, in service.CampInput) (*service.CampView, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CampView), args.Error(1)
}

func (m *MockCampService) Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (*service.CampView, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CampView), args.Error(1)
}

func (m *MockCampService) ListMine(ctx context.Context, caller auth.Identity) ([]service.CampView, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.CampView), args.Error(1)
}

func (m *MockCampService) ListAll(ctx context.Context, caller auth.Identity) ([]service.CampView, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.CampView), args.Error(1)
}

func (m *MockCampService) SetStatus(ctx context.Context, caller auth.Identity, id uuid.UUID, status model.CampStatus) error {
	args := m.Called(ctx, caller, id, status)
	return args.Error(0)
}

// MockProfileService is a mock implementation of service.ProfileService.
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, caller auth.Identity) (*model.Profile, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, caller auth.Identity, fullName, organization string) (*model.Profile, error) {
	args := m.Called(ctx, caller, fullName, organization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
