package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

const minPasswordLength = 8

type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

type JwtAccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthRegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type AuthRegisterResponse struct {
	User UserDTO `json:"user"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	cfg          *config.Config
	users        repository.UserRepository
	customerRepo repository.CustomerRepository
}

func NewAuthUsecase(cfg *config.Config, users repository.UserRepository, customerRepo repository.CustomerRepository) *AuthUsecase {
	return &AuthUsecase{
		cfg:          cfg,
		users:        users,
		customerRepo: customerRepo,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	//入力検証
	if !isValidEmailFormat(req.Email) {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return nil, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	//email重複チェック
	if _, err := u.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, NewHTTPError(http.StatusConflict, "email already exists")
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(pwHash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleUser, // 初期はUSER
		IsActive:     true,
	}

	created, err := u.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	// 空のプロフィールも一緒に作る
	if _, err := u.customerRepo.GetOrCreateByUserID(ctx, created.ID); err != nil {
		return nil, err
	}

	return &AuthRegisterResponse{User: toUserDTO(created)}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "user is inactive")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, err
	}

	//last_login更新（失敗してもログインは通す）
	_ = u.users.UpdateLastLogin(ctx, user.ID)

	return &AuthLoginResponse{
		User: toUserDTO(user),
		Token: JwtAccessTokenDTO{
			AccessToken: accessToken,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "user is inactive")
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user model.User) (string, int, error) {
	now := timeNow()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int(accessTokenTTL.Seconds()), nil
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
	}
}

// メールチェック
func isValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}
