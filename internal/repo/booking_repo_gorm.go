package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/feature/booking"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	m := booking.FromDomain(b)
	if err := r.db.WithContext(ctx).Omit("Hotel", "Guests").Create(m).Error; err != nil {
		return err
	}
	b.CreatedAt, b.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *BookingRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Hotel").
		Preload("Hotel.Manager").
		Preload("Guests", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc, id asc") })
}

// FindByID 带出酒店（含 manager）与入住人；不存在返回 (nil, nil)
func (r *BookingRepo) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m booking.BookingModel
	err := r.preloaded(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// LockByID 事务内锁住订单行，再读入住人
func (r *BookingRepo) LockByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m booking.BookingModel
	err := forUpdate(r.db.WithContext(ctx)).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("booking_id = ?", id).
		Order("created_at asc, id asc").Find(&m.Guests).Error; err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *BookingRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&booking.BookingModel{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	var ms []booking.BookingModel
	if err := r.preloaded(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Booking, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

// Transition 状态 CAS：当前状态必须为 from 才更新，返回是否命中
func (r *BookingRepo) Transition(ctx context.Context, id string, from, to domain.BookingStatus, stamp map[string]any) (bool, error) {
	cols := map[string]any{"status": to.String()}
	for k, v := range stamp {
		cols[k] = v
	}
	res := r.db.WithContext(ctx).Model(&booking.BookingModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Updates(cols)
	return res.RowsAffected == 1, res.Error
}

// CheckInStamp / CheckOutStamp 供 Transition 使用
func CheckInStamp(t time.Time) map[string]any  { return map[string]any{"check_in_time": t} }
func CheckOutStamp(t time.Time) map[string]any { return map[string]any{"check_out_time": t} }

func (r *BookingRepo) AddGuests(ctx context.Context, bookingID string, guests []domain.Guest) error {
	if len(guests) == 0 {
		return nil
	}
	ms := make([]booking.GuestModel, 0, len(guests))
	for _, g := range guests {
		ms = append(ms, booking.GuestFromDomain(bookingID, g))
	}
	return r.db.WithContext(ctx).Create(&ms).Error
}

// DeleteGuests 只删属于该订单的 id，其余忽略；返回实际删除数
func (r *BookingRepo) DeleteGuests(ctx context.Context, bookingID string, guestIDs []string) (int64, error) {
	if len(guestIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("booking_id = ? AND id IN ?", bookingID, guestIDs).
		Delete(&booking.GuestModel{})
	return res.RowsAffected, res.Error
}

// Touch 刷新 updated_at（入住人变化也算订单变化）
func (r *BookingRepo) Touch(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&booking.BookingModel{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// Delete 硬删：先删入住人，再删订单
func (r *BookingRepo) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.db.WithContext(ctx).Where("booking_id = ?", id).Delete(&booking.GuestModel{}).Error; err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&booking.BookingModel{})
	return res.RowsAffected > 0, res.Error
}

// BookingOwnership 鉴权谓词只需要这两个字段
type BookingOwnership struct {
	UserID    string
	ManagerID *string
}

// Ownership 不存在返回 (nil, nil)
func (r *BookingRepo) Ownership(ctx context.Context, id string) (*BookingOwnership, error) {
	var o BookingOwnership
	res := r.db.WithContext(ctx).Table("bookings").
		Select("bookings.user_id AS user_id, hotels.manager_id AS manager_id").
		Joins("LEFT JOIN hotels ON hotels.id = bookings.hotel_id").
		Where("bookings.id = ?", id).
		Limit(1).
		Scan(&o)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &o, nil
}
