package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

func newAuthFixture() (*UserRepoMock, *CustomerRepoMock, *usecase.AuthUsecase) {
	users := new(UserRepoMock)
	customers := new(CustomerRepoMock)
	cfg := &config.Config{JWTSecret: "test-secret"}
	return users, customers, usecase.NewAuthUsecase(cfg, users, customers)
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	users, customers, uc := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "new@example.com").Return(model.User{}, repo.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		// 平文は保存しない
		return u.Email == "new@example.com" &&
			u.PasswordHash != "correct-horse" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")) == nil &&
			u.Role == model.RoleUser
	})).Return(model.User{ID: 5, Email: "new@example.com", Role: model.RoleUser, IsActive: true}, nil)
	customers.On("GetOrCreateByUserID", mock.Anything, int64(5)).Return(model.Customer{ID: 8, UserID: 5}, nil)

	out, err := uc.Register(ctx, usecase.AuthRegisterRequest{
		Email:    "new@example.com",
		Password: "correct-horse",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.User.ID)
	customers.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users, _, uc := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "taken@example.com").Return(model.User{ID: 1}, nil)

	_, err := uc.Register(ctx, usecase.AuthRegisterRequest{
		Email:    "taken@example.com",
		Password: "correct-horse",
	})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

func TestRegister_InvalidInput(t *testing.T) {
	ctx := context.Background()
	_, _, uc := newAuthFixture()

	_, err := uc.Register(ctx, usecase.AuthRegisterRequest{Email: "not-an-email", Password: "correct-horse"})
	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 400, he.Status)

	_, err = uc.Register(ctx, usecase.AuthRegisterRequest{Email: "a@example.com", Password: "short"})
	he, _ = usecase.AsHTTPError(err)
	assert.Equal(t, 400, he.Status)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	users, _, uc := newAuthFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	users.On("FindByEmail", mock.Anything, "user@example.com").Return(
		model.User{ID: 5, Email: "user@example.com", PasswordHash: string(hash), Role: model.RoleUser, IsActive: true}, nil)
	users.On("UpdateLastLogin", mock.Anything, int64(5)).Return(nil)

	out, err := uc.Login(ctx, usecase.AuthLoginRequest{Email: "user@example.com", Password: "correct-horse"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token.AccessToken)
	assert.Equal(t, int64(5), out.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	users, _, uc := newAuthFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	users.On("FindByEmail", mock.Anything, "user@example.com").Return(
		model.User{ID: 5, PasswordHash: string(hash), IsActive: true}, nil)

	_, err := uc.Login(ctx, usecase.AuthLoginRequest{Email: "user@example.com", Password: "wrong"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
}

func TestLogin_InactiveUser(t *testing.T) {
	ctx := context.Background()
	users, _, uc := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "user@example.com").Return(
		model.User{ID: 5, IsActive: false}, nil)

	_, err := uc.Login(ctx, usecase.AuthLoginRequest{Email: "user@example.com", Password: "x"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 403, he.Status)
}
