package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hotel-booking-api/internal/core/cache"
	"hotel-booking-api/internal/core/events"
	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/pkg/utils"
)

type BookingService struct {
	store *repo.Store
	cache *cache.Cache
	pub   events.Publisher
	log   *zap.Logger
	now   func() time.Time
}

type BookingOption func(*BookingService)

// WithClock 测试里固定入住/退房时间
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

func NewBookingService(store *repo.Store, c *cache.Cache, pub events.Publisher, l *zap.Logger, opts ...BookingOption) *BookingService {
	if pub == nil {
		pub = events.Nop{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	s := &BookingService{store: store, cache: c, pub: pub, log: l, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateBooking 扣库存与落订单在同一事务；库存只减不回补
func (s *BookingService) CreateBooking(ctx context.Context, hotelID string, p domain.Principal) (*domain.Booking, error) {
	if p.ID == "" || !p.Role.Valid() {
		return nil, domain.Unauthorized("you are not authorized to create bookings")
	}
	id := utils.NewID()
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		ok, err := tx.Hotels().DecrementRoom(ctx, hotelID)
		if err != nil {
			return domain.Internal("reserve room failed", err)
		}
		if !ok {
			exists, err := tx.Hotels().ExistsByID(ctx, hotelID)
			if err != nil {
				return domain.Internal("load hotel failed", err)
			}
			if !exists {
				return domain.NotFound("hotel with id %s does not exist", hotelID)
			}
			return domain.NoAvailableRooms("rooms are not available for this hotel")
		}
		b := &domain.Booking{
			ID:      id,
			UserID:  p.ID,
			HotelID: hotelID,
			Status:  domain.StatusActive,
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return domain.Internal("create booking failed", err)
		}
		return nil
	})
	if err != nil {
		observeRejection("create", err)
		return nil, err
	}
	s.cache.DelTwice(ctx, cacheRedelete, HotelCacheKey(hotelID))
	bookingsCreatedTotal.Inc()

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking created", zap.String("booking_id", id), zap.String("hotel_id", hotelID), zap.String("user_id", p.ID))
	s.emit(ctx, events.BookingCreated, id, b, p)
	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string, p domain.Principal) (*domain.Booking, error) {
	if err := s.authorize(ctx, opGetBooking, id, p); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// ListBookingsOfUser 先判用户存在，再判权限
func (s *BookingService) ListBookingsOfUser(ctx context.Context, userID string, p domain.Principal) ([]*domain.Booking, error) {
	exists, err := s.store.Users().ExistsByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if !exists {
		return nil, domain.NotFound("user with id %s does not exist", userID)
	}
	if !p.IsAdmin() && p.ID != userID {
		return nil, domain.Unauthorized("you are not authorized to view bookings of this user")
	}
	bs, err := s.store.Bookings().ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal("list bookings failed", err)
	}
	return bs, nil
}

// UpdateStatus 管理接口：不校验流转表，但已取消的订单不可再改；不打时间戳
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, p domain.Principal) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, domain.InvalidArgument("unknown booking status: " + status.String())
	}
	return s.transition(ctx, id, p, transitionPlan{
		op:     opUpdateStatus,
		event:  events.BookingStatusUpdated,
		target: status,
		guard: func(cur domain.BookingStatus) error {
			if cur == domain.StatusCancelled {
				return domain.InvalidState("booking with id %s has already been cancelled", id)
			}
			return nil
		},
	})
}

func (s *BookingService) CancelBooking(ctx context.Context, id string, p domain.Principal) (*domain.Booking, error) {
	return s.transition(ctx, id, p, transitionPlan{
		op:     opCancelBooking,
		event:  events.BookingCancelled,
		target: domain.StatusCancelled,
		guard:  allowedFrom(id, domain.StatusCancelled, "cancelled"),
	})
}

func (s *BookingService) CheckIn(ctx context.Context, id string, p domain.Principal) (*domain.Booking, error) {
	return s.transition(ctx, id, p, transitionPlan{
		op:     opCheckIn,
		event:  events.BookingCheckedIn,
		target: domain.StatusCheckedIn,
		stamp:  repo.CheckInStamp,
		guard:  allowedFrom(id, domain.StatusCheckedIn, "checked in"),
	})
}

func (s *BookingService) CheckOut(ctx context.Context, id string, p domain.Principal) (*domain.Booking, error) {
	return s.transition(ctx, id, p, transitionPlan{
		op:     opCheckOut,
		event:  events.BookingCheckedOut,
		target: domain.StatusCheckedOut,
		stamp:  repo.CheckOutStamp,
		guard:  allowedFrom(id, domain.StatusCheckedOut, "checked out"),
	})
}

func (s *BookingService) DeleteBooking(ctx context.Context, id string, p domain.Principal) error {
	if err := s.authorize(ctx, opDeleteBooking, id, p); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		ok, err := tx.Bookings().Delete(ctx, id)
		if err != nil {
			return domain.Internal("delete booking failed", err)
		}
		if !ok {
			return domain.NotFound("booking with id %s does not exist", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("booking deleted", zap.String("booking_id", id), zap.String("actor_id", p.ID))
	s.emit(ctx, events.BookingDeleted, id, nil, p)
	return nil
}

// allowedFrom 按流转表校验；已取消单独提示
func allowedFrom(id string, target domain.BookingStatus, verb string) func(domain.BookingStatus) error {
	return func(cur domain.BookingStatus) error {
		if cur.CanTransitionTo(target) {
			return nil
		}
		if cur == domain.StatusCancelled {
			return domain.InvalidState("booking with id %s has already been cancelled", id)
		}
		if cur.IsTerminal() {
			return domain.InvalidState("booking with id %s is closed (%s) and cannot be %s", id, cur, verb)
		}
		return domain.InvalidState("booking with id %s cannot be %s in status %s", id, verb, cur)
	}
}

type transitionPlan struct {
	op     bookingOp
	event  events.Type
	target domain.BookingStatus
	guard  func(cur domain.BookingStatus) error
	stamp  func(now time.Time) map[string]any
}

// transition 锁行 → 校验当前状态 → CAS 写入；提交后重读并投递事件
func (s *BookingService) transition(ctx context.Context, id string, p domain.Principal, t transitionPlan) (*domain.Booking, error) {
	if err := s.authorize(ctx, t.op, id, p); err != nil {
		return nil, err
	}
	var from domain.BookingStatus
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		b, err := tx.Bookings().LockByID(ctx, id)
		if err != nil {
			return domain.Internal("load booking failed", err)
		}
		if b == nil {
			return domain.NotFound("booking with id %s does not exist", id)
		}
		if err := t.guard(b.Status); err != nil {
			return err
		}
		var stamp map[string]any
		if t.stamp != nil {
			stamp = t.stamp(s.now())
		}
		ok, err := tx.Bookings().Transition(ctx, id, b.Status, t.target, stamp)
		if err != nil {
			return domain.Internal("update booking status failed", err)
		}
		if !ok {
			return domain.InvalidState("booking with id %s was modified concurrently", id)
		}
		from = b.Status
		return nil
	})
	if err != nil {
		observeRejection(string(t.event), err)
		return nil, err
	}
	bookingTransitionsTotal.WithLabelValues(from.String(), t.target.String()).Inc()

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("booking status changed",
		zap.String("booking_id", id),
		zap.String("from", from.String()),
		zap.String("to", t.target.String()),
		zap.String("actor_id", p.ID),
	)
	s.emit(ctx, t.event, id, b, p)
	return b, nil
}

func (s *BookingService) load(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.store.Bookings().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load booking failed", err)
	}
	if b == nil {
		return nil, domain.NotFound("booking with id %s does not exist", id)
	}
	return b, nil
}

// emit 只在提交后调用；投递失败记日志，不回滚也不向调用方报错
func (s *BookingService) emit(ctx context.Context, typ events.Type, id string, b *domain.Booking, p domain.Principal) {
	ev := events.BookingEvent{
		Type:       typ,
		BookingID:  id,
		ActorID:    p.ID,
		OccurredAt: s.now().UTC(),
	}
	if b != nil {
		ev.UserID = b.UserID
		ev.HotelID = b.HotelID
		ev.Status = b.Status.String()
		ev.GuestCount = len(b.Guests)
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("publish booking event failed",
			zap.String("type", string(typ)),
			zap.String("booking_id", id),
			zap.Error(err),
		)
	}
}
