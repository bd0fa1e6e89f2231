package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"hotel-booking-api/internal/core/cache"
	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/pkg/utils"
)

// HotelCacheKey 酒店详情缓存键；酒店变更或下单扣库存后失效
func HotelCacheKey(id string) string { return "hotel:" + id }

// cacheRedelete 失效后的第二次删除延迟，要大于一次回源的耗时
const cacheRedelete = 500 * time.Millisecond

type HotelInput struct {
	Name        string
	Location    string
	Description string
	RoomsCount  int
}

func (in *HotelInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.Location == "" {
		return domain.InvalidArgument("hotel name and location are required")
	}
	if in.RoomsCount < 0 {
		return domain.InvalidArgument("rooms count must not be negative")
	}
	return nil
}

type HotelService struct {
	store *repo.Store
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewHotelService(store *repo.Store, c *cache.Cache, ttl time.Duration, l *zap.Logger) *HotelService {
	if l == nil {
		l = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &HotelService{store: store, cache: c, ttl: ttl, log: l}
}

func (s *HotelService) CreateHotel(ctx context.Context, in HotelInput, p domain.Principal) (*domain.Hotel, error) {
	if err := requireAdmin(p, "create hotels"); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	h := &domain.Hotel{
		ID:          utils.NewID(),
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		RoomsCount:  in.RoomsCount,
	}
	if err := s.store.Hotels().Create(ctx, h); err != nil {
		if repo.IsDupKey(err) {
			return nil, domain.Conflict("hotel with name " + in.Name + " already exists")
		}
		return nil, domain.Internal("create hotel failed", err)
	}
	s.log.Info("hotel created", zap.String("hotel_id", h.ID), zap.String("name", h.Name))
	return h, nil
}

// GetHotel 走 redis 缓存（未启用时直接查库）
func (s *HotelService) GetHotel(ctx context.Context, id string) (*domain.Hotel, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, HotelCacheKey(id), s.ttl, func(ctx context.Context) (*domain.Hotel, error) {
		return s.find(ctx, s.store, id)
	})
}

func (s *HotelService) ListHotels(ctx context.Context, offset, limit int) ([]*domain.Hotel, int64, error) {
	hs, total, err := s.store.Hotels().List(ctx, offset, limit)
	if err != nil {
		return nil, 0, domain.Internal("list hotels failed", err)
	}
	return hs, total, nil
}

// UpdateHotel 只有被指派的 manager 能改自己的酒店
func (s *HotelService) UpdateHotel(ctx context.Context, id string, in HotelInput, p domain.Principal) (*domain.Hotel, error) {
	if !p.Is(domain.RoleHotelManager) {
		return nil, domain.Unauthorized("only hotel managers can update hotels")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	h, err := s.find(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !h.ManagedBy(p.ID) {
		return nil, domain.Unauthorized("you are not the manager of this hotel")
	}
	h.Name, h.Location, h.Description, h.RoomsCount = in.Name, in.Location, in.Description, in.RoomsCount
	if err := s.store.Hotels().UpdateDetails(ctx, h); err != nil {
		if repo.IsDupKey(err) {
			return nil, domain.Conflict("hotel with name " + in.Name + " already exists")
		}
		return nil, domain.Internal("update hotel failed", err)
	}
	s.cache.DelTwice(ctx, cacheRedelete, HotelCacheKey(id))
	s.log.Info("hotel updated", zap.String("hotel_id", id), zap.String("actor_id", p.ID))
	return s.find(ctx, s.store, id)
}

// AssignManager 目标用户无条件升为 HOTEL_MANAGER；原 manager 的角色保持不变
func (s *HotelService) AssignManager(ctx context.Context, hotelID, userID string, p domain.Principal) (*domain.Hotel, error) {
	if err := requireAdmin(p, "assign hotel managers"); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return domain.Internal("load user failed", err)
		}
		if u == nil {
			return domain.NotFound("user with id %s does not exist", userID)
		}
		h, err := s.find(ctx, tx, hotelID)
		if err != nil {
			return err
		}
		if u.Role == domain.RoleHotelManager && h.ManagedBy(u.ID) {
			return domain.InvalidState("user %s is already the manager of hotel %s", userID, hotelID)
		}
		if err := tx.Users().UpdateRole(ctx, userID, domain.RoleHotelManager); err != nil {
			return domain.Internal("update user role failed", err)
		}
		if err := tx.Hotels().SetManager(ctx, hotelID, userID); err != nil {
			return domain.Internal("assign manager failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.DelTwice(ctx, cacheRedelete, HotelCacheKey(hotelID))
	s.log.Info("hotel manager assigned", zap.String("hotel_id", hotelID), zap.String("user_id", userID))
	return s.find(ctx, s.store, hotelID)
}

// DeleteHotel 仍有订单引用时拒绝删除
func (s *HotelService) DeleteHotel(ctx context.Context, id string, p domain.Principal) error {
	if err := requireAdmin(p, "delete hotels"); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		exists, err := tx.Hotels().ExistsByID(ctx, id)
		if err != nil {
			return domain.Internal("load hotel failed", err)
		}
		if !exists {
			return domain.NotFound("hotel with id %s does not exist", id)
		}
		n, err := tx.Hotels().CountBookings(ctx, id)
		if err != nil {
			return domain.Internal("count bookings failed", err)
		}
		if n > 0 {
			return domain.Conflict("hotel has bookings and cannot be deleted")
		}
		if _, err := tx.Hotels().Delete(ctx, id); err != nil {
			return domain.Internal("delete hotel failed", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.DelTwice(ctx, cacheRedelete, HotelCacheKey(id))
	s.log.Info("hotel deleted", zap.String("hotel_id", id), zap.String("actor_id", p.ID))
	return nil
}

func (s *HotelService) find(ctx context.Context, st *repo.Store, id string) (*domain.Hotel, error) {
	h, err := st.Hotels().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load hotel failed", err)
	}
	if h == nil {
		return nil, domain.NotFound("hotel with id %s does not exist", id)
	}
	return h, nil
}
