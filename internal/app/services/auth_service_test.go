package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/auth"
)

func newAuthService(users *mockUserStore, tokens *mockTokenStore) AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret-key-with-enough-bytes",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "eventhub-test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop())
}

func TestAuthRegister(t *testing.T) {
	users, tokens := new(mockUserStore), new(mockTokenStore)
	svc := newAuthService(users, tokens)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ada@example.com" && u.RoleType == models.RoleCompany && u.IsActive && u.Password != "secret123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 9
	}).Return(nil).Once()
	tokens.On("CreateToken", mock.Anything, mock.AnythingOfType("string"), int64(9), mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "  Ada@Example.com ",
		Password:  "secret123",
		FirstName: "Ada",
		LastName:  "Lovelace",
		RoleType:  models.RoleCompany,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthRegisterRejects(t *testing.T) {
	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"admin role", dto.RegisterRequest{Email: "a@b.co", Password: "secret123", RoleType: models.RoleAdmin}},
		{"weak password", dto.RegisterRequest{Email: "a@b.co", Password: "onlyletters", RoleType: models.RoleUser}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(new(mockUserStore), new(mockTokenStore))
			_, err := svc.Register(context.Background(), &tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	users := new(mockUserStore)
	svc := newAuthService(users, new(mockTokenStore))
	users.On("Create", mock.Anything, mock.Anything).Return(apperrors.ErrEmailAlreadyExists).Once()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "a@b.co", Password: "secret123", FirstName: "A", LastName: "B", RoleType: models.RoleUser,
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	active := &models.User{ID: 4, Email: "ada@example.com", Password: hash, RoleType: models.RoleUser, IsActive: true}
	disabled := &models.User{ID: 5, Email: "off@example.com", Password: hash, RoleType: models.RoleUser}

	t.Run("success updates last login", func(t *testing.T) {
		users, tokens := new(mockUserStore), new(mockTokenStore)
		svc := newAuthService(users, tokens)
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(active, nil).Once()
		users.On("UpdateLastLogin", mock.Anything, int64(4)).Return(nil).Once()
		tokens.On("CreateToken", mock.Anything, mock.Anything, int64(4), mock.Anything).Return(nil).Once()

		resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token.AccessToken)
		users.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(mockUserStore)
		svc := newAuthService(users, new(mockTokenStore))
		users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound).Once()

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(mockUserStore)
		svc := newAuthService(users, new(mockTokenStore))
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(active, nil).Once()

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ada@example.com", Password: "nope12345"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		users := new(mockUserStore)
		svc := newAuthService(users, new(mockTokenStore))
		users.On("GetByEmail", mock.Anything, "off@example.com").Return(disabled, nil).Once()

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "off@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}

func TestAuthRefresh(t *testing.T) {
	fixClock(t, testNow)
	user := &models.User{ID: 4, Email: "ada@example.com", RoleType: models.RoleUser, IsActive: true}

	t.Run("rotates a valid token", func(t *testing.T) {
		users, tokens := new(mockUserStore), new(mockTokenStore)
		svc := newAuthService(users, tokens)
		tokens.On("GetToken", mock.Anything, "old").
			Return(&models.RefreshToken{Token: "old", UserID: 4, ExpiryDate: testNow.Add(time.Hour)}, nil).Once()
		users.On("GetByID", mock.Anything, int64(4)).Return(user, nil).Once()
		tokens.On("RotateToken", mock.Anything, "old", mock.MatchedBy(func(s string) bool { return s != "old" && s != "" }), mock.Anything).
			Return(nil).Once()

		resp, err := svc.Refresh(context.Background(), "old")
		require.NoError(t, err)
		assert.NotEqual(t, "old", resp.RefreshToken)
		tokens.AssertExpectations(t)
	})

	t.Run("revoked", func(t *testing.T) {
		tokens := new(mockTokenStore)
		svc := newAuthService(new(mockUserStore), tokens)
		tokens.On("GetToken", mock.Anything, "old").
			Return(&models.RefreshToken{Token: "old", UserID: 4, IsRevoked: true, ExpiryDate: testNow.Add(time.Hour)}, nil).Once()

		_, err := svc.Refresh(context.Background(), "old")
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("expired", func(t *testing.T) {
		tokens := new(mockTokenStore)
		svc := newAuthService(new(mockUserStore), tokens)
		tokens.On("GetToken", mock.Anything, "old").
			Return(&models.RefreshToken{Token: "old", UserID: 4, ExpiryDate: testNow.Add(-time.Minute)}, nil).Once()

		_, err := svc.Refresh(context.Background(), "old")
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}
