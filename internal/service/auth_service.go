package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hotel-booking-api/internal/core/auth"
	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/pkg/utils"
)

const minPasswordLen = 6

type SignupInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type Tokens struct {
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService struct {
	store *repo.Store
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(store *repo.Store, j *auth.JWTer, l *zap.Logger) *AuthService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AuthService{store: store, jwt: j, log: l}
}

// Signup 自助注册一律为 CUSTOMER
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleCustomer)
}

// CreateAdmin 运维命令用，不走 HTTP
func (s *AuthService) CreateAdmin(ctx context.Context, in SignupInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, in SignupInput, role domain.Role) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.InvalidArgument("a valid email is required")
	}
	if first == "" || last == "" {
		return nil, domain.InvalidArgument("first name and last name are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.InvalidArgument("password is too short")
	}
	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if existing != nil {
		return nil, domain.Conflict("email " + email + " is already registered")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal("hash password failed", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		FirstName:    first,
		LastName:     last,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		if repo.IsDupKey(err) {
			return nil, domain.Conflict("email " + email + " is already registered")
		}
		return nil, domain.Internal("create user failed", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", role.String()))
	return u, nil
}

// Login 邮箱不存在与密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, email, password string) (*Tokens, error) {
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.Unauthenticated("invalid email or password")
	}
	return s.issue(u)
}

// Refresh 用 refresh token 换一对新令牌；角色以库里为准
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	claims, err := s.jwt.ParseRefresh(refreshToken)
	if err != nil {
		return nil, domain.Unauthenticated("invalid refresh token")
	}
	u, err := s.store.Users().FindByID(ctx, claims.UID)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if u == nil {
		return nil, domain.Unauthenticated("user no longer exists")
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (*Tokens, error) {
	access, err := s.jwt.Issue(u.ID, u.Role.String())
	if err != nil {
		return nil, domain.Internal("issue token failed", err)
	}
	refresh, err := s.jwt.IssueRefresh(u.ID)
	if err != nil {
		return nil, domain.Internal("issue token failed", err)
	}
	return &Tokens{UserID: u.ID, Role: u.Role.String(), AccessToken: access, RefreshToken: refresh}, nil
}
