package hotel

import (
	"time"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/feature/user"
)

type HotelModel struct {
	ID          string  `gorm:"primaryKey;type:varchar(32)"`
	Name        string  `gorm:"uniqueIndex;size:191;not null"`
	Location    string  `gorm:"size:255;not null"`
	Description string  `gorm:"type:text"`
	RoomsCount  int     `gorm:"not null;default:0;check:rooms_count >= 0"`
	ManagerID   *string `gorm:"type:varchar(32);index"`

	Manager *user.UserModel `gorm:"foreignKey:ManagerID;references:ID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (HotelModel) TableName() string { return "hotels" }

func (m *HotelModel) ToDomain() *domain.Hotel {
	h := &domain.Hotel{
		ID:          m.ID,
		Name:        m.Name,
		Location:    m.Location,
		Description: m.Description,
		RoomsCount:  m.RoomsCount,
		ManagerID:   m.ManagerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Manager != nil && m.Manager.ID != "" {
		h.Manager = m.Manager.ToDomain()
	}
	return h
}

// FromDomain 不带 Manager 关联，避免 gorm 级联写 users
func FromDomain(h *domain.Hotel) *HotelModel {
	return &HotelModel{
		ID:          h.ID,
		Name:        h.Name,
		Location:    h.Location,
		Description: h.Description,
		RoomsCount:  h.RoomsCount,
		ManagerID:   h.ManagerID,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}
