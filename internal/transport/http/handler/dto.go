package handler

import (
	"time"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/service"
)

// ---------- 出参 ----------

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u *domain.User) *userDTO {
	if u == nil {
		return nil
	}
	return &userDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

type hotelDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	RoomsCount  int      `json:"roomsCount"`
	Manager     *userDTO `json:"hotelManager,omitempty"`
}

func toHotelDTO(h *domain.Hotel) *hotelDTO {
	if h == nil {
		return nil
	}
	return &hotelDTO{
		ID:          h.ID,
		Name:        h.Name,
		Location:    h.Location,
		Description: h.Description,
		RoomsCount:  h.RoomsCount,
		Manager:     toUserDTO(h.Manager),
	}
}

type guestDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type bookingDTO struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	HotelID      string     `json:"hotelId"`
	Hotel        *hotelDTO  `json:"hotel,omitempty"`
	Status       string     `json:"bookingStatus"`
	Guests       []guestDTO `json:"guests"`
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toBookingDTO(b *domain.Booking) *bookingDTO {
	out := &bookingDTO{
		ID:           b.ID,
		UserID:       b.UserID,
		HotelID:      b.HotelID,
		Hotel:        toHotelDTO(b.Hotel),
		Status:       b.Status.String(),
		Guests:       make([]guestDTO, 0, len(b.Guests)),
		CheckInTime:  b.CheckInTime,
		CheckOutTime: b.CheckOutTime,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	for _, g := range b.Guests {
		out.Guests = append(out.Guests, guestDTO{ID: g.ID, FirstName: g.FirstName, LastName: g.LastName, Email: g.Email})
	}
	return out
}

func toBookingDTOs(bs []*domain.Booking) []*bookingDTO {
	out := make([]*bookingDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingDTO(b))
	}
	return out
}

type page[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

// ---------- 入参 ----------

type pageQ struct {
	Offset int    `form:"offset,default=0" binding:"min=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按 email/姓名模糊搜（仅用户列表）
}

func (q *pageQ) limit() int {
	if q.Limit <= 0 || q.Limit > 100 {
		return 20
	}
	return q.Limit
}

type signupReq struct {
	Email     string `json:"email"     binding:"required,email,max=255"`
	FirstName string `json:"firstName" binding:"required,max=64"`
	LastName  string `json:"lastName"  binding:"required,max=64"`
	Password  string `json:"password"  binding:"required,min=6,max=72"`
}

func (r *signupReq) toInput() service.SignupInput {
	return service.SignupInput{Email: r.Email, FirstName: r.FirstName, LastName: r.LastName, Password: r.Password}
}

type loginReq struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type updateUserReq struct {
	Email     string `json:"email"     binding:"omitempty,email,max=255"`
	FirstName string `json:"firstName" binding:"omitempty,max=64"`
	LastName  string `json:"lastName"  binding:"omitempty,max=64"`
}

func (r *updateUserReq) toUpdate() service.UserUpdate {
	return service.UserUpdate{Email: r.Email, FirstName: r.FirstName, LastName: r.LastName}
}

type passwordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

type roleReq struct {
	Role string `json:"role" binding:"required"`
}

type hotelReq struct {
	Name        string `json:"name"        binding:"required,max=191"`
	Location    string `json:"location"    binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
	RoomsCount  int    `json:"roomsCount"  binding:"min=0"`
}

func (r *hotelReq) toInput() service.HotelInput {
	return service.HotelInput{Name: r.Name, Location: r.Location, Description: r.Description, RoomsCount: r.RoomsCount}
}

type statusReq struct {
	Status string `json:"bookingStatus" binding:"required"`
}

// guestReq 字段校验在 service 里做，先判订单状态再判入参
type guestReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type addGuestsReq struct {
	Guests []guestReq `json:"guests"`
}

func (r *addGuestsReq) toInput() []service.GuestInput {
	out := make([]service.GuestInput, 0, len(r.Guests))
	for _, g := range r.Guests {
		out = append(out, service.GuestInput{FirstName: g.FirstName, LastName: g.LastName, Email: g.Email})
	}
	return out
}

type removeGuestsReq struct {
	GuestIDs []string `json:"guestIds"`
}
