package booking

import (
	"time"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/feature/hotel"
)

type BookingModel struct {
	ID           string `gorm:"primaryKey;type:varchar(32)"`
	UserID       string `gorm:"type:varchar(32);not null;index"`
	HotelID      string `gorm:"type:varchar(32);not null;index"`
	Status       string `gorm:"size:16;not null;index"`
	CheckInTime  *time.Time
	CheckOutTime *time.Time

	Hotel  *hotel.HotelModel `gorm:"foreignKey:HotelID;references:ID"`
	Guests []GuestModel      `gorm:"foreignKey:BookingID;references:ID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (BookingModel) TableName() string { return "bookings" }

type GuestModel struct {
	ID        string `gorm:"primaryKey;type:varchar(32)"`
	BookingID string `gorm:"type:varchar(32);not null;index"`
	FirstName string `gorm:"size:64;not null"`
	LastName  string `gorm:"size:64;not null"`
	Email     string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (GuestModel) TableName() string { return "guests" }

func (m *GuestModel) ToDomain() domain.Guest {
	return domain.Guest{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Email: m.Email}
}

func GuestFromDomain(bookingID string, g domain.Guest) GuestModel {
	return GuestModel{
		ID:        g.ID,
		BookingID: bookingID,
		FirstName: g.FirstName,
		LastName:  g.LastName,
		Email:     g.Email,
	}
}

func (m *BookingModel) ToDomain() *domain.Booking {
	b := &domain.Booking{
		ID:           m.ID,
		UserID:       m.UserID,
		HotelID:      m.HotelID,
		Status:       domain.BookingStatus(m.Status),
		Guests:       make([]domain.Guest, 0, len(m.Guests)),
		CheckInTime:  m.CheckInTime,
		CheckOutTime: m.CheckOutTime,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Hotel != nil && m.Hotel.ID != "" {
		b.Hotel = m.Hotel.ToDomain()
	}
	for i := range m.Guests {
		b.Guests = append(b.Guests, m.Guests[i].ToDomain())
	}
	return b
}

// FromDomain 只映射订单自身字段；入住人单独落库
func FromDomain(b *domain.Booking) *BookingModel {
	return &BookingModel{
		ID:           b.ID,
		UserID:       b.UserID,
		HotelID:      b.HotelID,
		Status:       b.Status.String(),
		CheckInTime:  b.CheckInTime,
		CheckOutTime: b.CheckOutTime,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
