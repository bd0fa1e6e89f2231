package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-api/internal/feature/booking"
	"hotel-booking-api/internal/feature/hotel"
	"hotel-booking-api/internal/feature/user"
)

// Store 绑定一个 *gorm.DB（连接池或事务），各仓储共享同一个句柄
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() *UserRepo       { return &UserRepo{db: s.db} }
func (s *Store) Hotels() *HotelRepo     { return &HotelRepo{db: s.db} }
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{db: s.db} }

// Transaction fn 内只能使用传入的 tx Store，否则单连接池下会互等
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// AutoMigrate 建表顺序按外键依赖
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.UserModel{},
		&hotel.HotelModel{},
		&booking.BookingModel{},
		&booking.GuestModel{},
	)
}

// forUpdate SQLite 没有行锁（写事务本身串行），其余方言加 FOR UPDATE
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector != nil && db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// IsDupKey 先认 gorm.ErrDuplicatedKey，翻译不到时按驱动报错文本兜底
func IsDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
