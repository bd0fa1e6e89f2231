package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/feature/booking"
	"hotel-booking-api/internal/feature/hotel"
)

type HotelRepo struct{ db *gorm.DB }

func NewHotelRepo(db *gorm.DB) *HotelRepo { return &HotelRepo{db: db} }

func (r *HotelRepo) Create(ctx context.Context, h *domain.Hotel) error {
	m := hotel.FromDomain(h)
	if err := r.db.WithContext(ctx).Omit("Manager").Create(m).Error; err != nil {
		return err
	}
	h.CreatedAt, h.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

// FindByID 带出 manager；不存在返回 (nil, nil)
func (r *HotelRepo) FindByID(ctx context.Context, id string) (*domain.Hotel, error) {
	var m hotel.HotelModel
	err := r.db.WithContext(ctx).Preload("Manager").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *HotelRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&hotel.HotelModel{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *HotelRepo) List(ctx context.Context, offset, limit int) ([]*domain.Hotel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&hotel.HotelModel{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []hotel.HotelModel
	if err := tx.Preload("Manager").Order("name asc").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Hotel, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, total, nil
}

// UpdateDetails 只改基础信息；rooms_count 由调用方决定是否带上
func (r *HotelRepo) UpdateDetails(ctx context.Context, h *domain.Hotel) error {
	return r.db.WithContext(ctx).Model(&hotel.HotelModel{}).Where("id = ?", h.ID).Updates(map[string]any{
		"name":        h.Name,
		"location":    h.Location,
		"description": h.Description,
		"rooms_count": h.RoomsCount,
	}).Error
}

func (r *HotelRepo) SetManager(ctx context.Context, hotelID, userID string) error {
	return r.db.WithContext(ctx).Model(&hotel.HotelModel{}).Where("id = ?", hotelID).
		Update("manager_id", userID).Error
}

// DecrementRoom CAS 扣减库存：rooms_count > 0 才扣，返回是否扣成功
func (r *HotelRepo) DecrementRoom(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&hotel.HotelModel{}).
		Where("id = ? AND rooms_count > 0", id).
		Update("rooms_count", gorm.Expr("rooms_count - ?", 1))
	return res.RowsAffected == 1, res.Error
}

func (r *HotelRepo) CountBookings(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&booking.BookingModel{}).Where("hotel_id = ?", id).Count(&n).Error
	return n, err
}

func (r *HotelRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&hotel.HotelModel{})
	return res.RowsAffected > 0, res.Error
}
