package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/pkg/utils"
)

type UserUpdate struct {
	Email     string
	FirstName string
	LastName  string
}

type UserService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewUserService(store *repo.Store, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{store: store, log: l}
}

// Principal 每个请求都从库里重新读角色，令牌里的角色只作参考
func (s *UserService) Principal(ctx context.Context, userID string) (domain.Principal, error) {
	u, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return domain.Principal{}, domain.Internal("load user failed", err)
	}
	if u == nil {
		return domain.Principal{}, domain.Unauthenticated("user no longer exists")
	}
	return u.Principal(), nil
}

func (s *UserService) GetUser(ctx context.Context, id string, p domain.Principal) (*domain.User, error) {
	if err := requireSelfOrAdmin(p, id); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, q string, offset, limit int, p domain.Principal) ([]*domain.User, int64, error) {
	if err := requireAdmin(p, "list users"); err != nil {
		return nil, 0, err
	}
	us, total, err := s.store.Users().List(ctx, q, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal("list users failed", err)
	}
	return us, total, nil
}

// UpdateUser 只改资料；角色与密码各有单独入口
func (s *UserService) UpdateUser(ctx context.Context, id string, in UserUpdate, p domain.Principal) (*domain.User, error) {
	if err := requireSelfOrAdmin(p, id); err != nil {
		return nil, err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if e := normalizeEmail(in.Email); e != "" {
		u.Email = e
	}
	if f := strings.TrimSpace(in.FirstName); f != "" {
		u.FirstName = f
	}
	if l := strings.TrimSpace(in.LastName); l != "" {
		u.LastName = l
	}
	if err := s.store.Users().Update(ctx, u); err != nil {
		if repo.IsDupKey(err) {
			return nil, domain.Conflict("email " + u.Email + " is already registered")
		}
		return nil, domain.Internal("update user failed", err)
	}
	return s.find(ctx, id)
}

func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role, p domain.Principal) (*domain.User, error) {
	if err := requireAdmin(p, "change user roles"); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.InvalidArgument("unknown role: " + role.String())
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.Users().UpdateRole(ctx, id, role); err != nil {
		return nil, domain.Internal("update user role failed", err)
	}
	s.log.Info("user role changed", zap.String("user_id", id), zap.String("role", role.String()), zap.String("actor_id", p.ID))
	return s.find(ctx, id)
}

// UpdatePassword 只能改自己的，需校验旧密码
func (s *UserService) UpdatePassword(ctx context.Context, id, oldPassword, newPassword string, p domain.Principal) error {
	if p.ID == "" || p.ID != id {
		return domain.Unauthorized("you can only change your own password")
	}
	if len(newPassword) < minPasswordLen {
		return domain.InvalidArgument("new password is too short")
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(oldPassword, u.PasswordHash) {
		return domain.InvalidArgument("old password is incorrect")
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return domain.Internal("hash password failed", err)
	}
	u.PasswordHash = hash
	if err := s.store.Users().Update(ctx, u); err != nil {
		return domain.Internal("update password failed", err)
	}
	return nil
}

// DeleteUser 软删
func (s *UserService) DeleteUser(ctx context.Context, id string, p domain.Principal) error {
	if err := requireAdmin(p, "delete users"); err != nil {
		return err
	}
	ok, err := s.store.Users().SoftDelete(ctx, id)
	if err != nil {
		return domain.Internal("delete user failed", err)
	}
	if !ok {
		return domain.NotFound("user with id %s does not exist", id)
	}
	s.log.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", p.ID))
	return nil
}

func (s *UserService) find(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if u == nil {
		return nil, domain.NotFound("user with id %s does not exist", id)
	}
	return u, nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
