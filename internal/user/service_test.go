package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"plunge/internal/auth"
)

const testSecret = "test-secret"

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestRegister(t *testing.T) {
	mockRepo := new(MockRepository)

	mockRepo.On("EmailExists", mock.Anything, "staff@plunge.test").Return(false, nil)
	mockRepo.On("Create", mock.Anything, "Jonas", "staff@plunge.test", mock.MatchedBy(func(hash string) bool {
		return auth.CheckPassword(hash, "s3cure-pass")
	}), RoleStaff).Return(&User{ID: 1, Name: "Jonas", Email: "staff@plunge.test", Role: RoleStaff}, nil)

	svc := NewService(mockRepo, testSecret)
	user, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Jonas", Email: "staff@plunge.test", Password: "s3cure-pass", Role: RoleStaff,
	})

	assert.NoError(t, err)
	assert.Equal(t, RoleStaff, user.Role)
	mockRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockRepository)

	mockRepo.On("EmailExists", mock.Anything, "staff@plunge.test").Return(true, nil)

	svc := NewService(mockRepo, testSecret)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Jonas", Email: "staff@plunge.test", Password: "s3cure-pass", Role: RoleStaff,
	})

	assert.ErrorIs(t, err, ErrEmailExists)
	mockRepo.AssertNotCalled(t, "Create",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("s3cure-pass")
	assert.NoError(t, err)

	mockRepo := new(MockRepository)
	mockRepo.On("FindByEmail", mock.Anything, "staff@plunge.test").Return(&User{
		ID: 1, Name: "Jonas", Email: "staff@plunge.test", PasswordHash: hash, Role: RoleStaff,
	}, nil)

	svc := NewService(mockRepo, testSecret)
	user, accessToken, refreshToken, err := svc.Login(context.Background(), LoginRequest{
		Email: "staff@plunge.test", Password: "s3cure-pass",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	claims, err := auth.ValidateToken(accessToken, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, RoleStaff, claims.Role)

	claims, err = auth.ValidateToken(refreshToken, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cure-pass")
	assert.NoError(t, err)

	mockRepo := new(MockRepository)
	mockRepo.On("FindByEmail", mock.Anything, "staff@plunge.test").Return(&User{
		ID: 1, Email: "staff@plunge.test", PasswordHash: hash,
	}, nil)

	svc := NewService(mockRepo, testSecret)
	_, _, _, err = svc.Login(context.Background(), LoginRequest{
		Email: "staff@plunge.test", Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("FindByEmail", mock.Anything, "nobody@plunge.test").Return(nil, ErrUserNotFound)

	svc := NewService(mockRepo, testSecret)
	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email: "nobody@plunge.test", Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	refreshToken, err := auth.GenerateRefreshToken(1, "staff@plunge.test", RoleStaff, testSecret)
	assert.NoError(t, err)

	mockRepo := new(MockRepository)
	mockRepo.On("FindByID", mock.Anything, 1).Return(&User{
		ID: 1, Email: "staff@plunge.test", Role: RoleStaff,
	}, nil)

	svc := NewService(mockRepo, testSecret)
	newAccessToken, user, err := svc.RefreshToken(context.Background(), refreshToken)

	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	claims, err := auth.ValidateToken(newAccessToken, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	accessToken, err := auth.GenerateAccessToken(1, "staff@plunge.test", RoleStaff, testSecret)
	assert.NoError(t, err)

	svc := NewService(new(MockRepository), testSecret)
	_, _, err = svc.RefreshToken(context.Background(), accessToken)

	assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
}
