package domain

import (
	"strings"
	"time"
)

// MaxGuestsPerBooking 每个订单最多挂 2 个入住人
const MaxGuestsPerBooking = 2

type BookingStatus string

const (
	StatusActive     BookingStatus = "ACTIVE"
	StatusCheckedIn  BookingStatus = "CHECKED_IN"
	StatusCheckedOut BookingStatus = "CHECKED_OUT"
	StatusCancelled  BookingStatus = "CANCELLED"
)

// 合法流转：ACTIVE → CHECKED_IN → CHECKED_OUT，ACTIVE → CANCELLED
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusActive:     {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

func (s BookingStatus) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal 未知状态也按终态处理
func (s BookingStatus) IsTerminal() bool { return len(validTransitions[s]) == 0 }

func (s BookingStatus) String() string { return string(s) }

func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", InvalidArgument("unknown booking status: " + s)
	}
	return st, nil
}

type Guest struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Booking struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	HotelID      string        `json:"hotelId"`
	Hotel        *Hotel        `json:"hotel,omitempty"`
	Status       BookingStatus `json:"status"`
	Guests       []Guest       `json:"guests"`
	CheckInTime  *time.Time    `json:"checkInTime,omitempty"`
	CheckOutTime *time.Time    `json:"checkOutTime,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// GuestSlots 剩余可添加的入住人数量
func (b *Booking) GuestSlots() int {
	n := MaxGuestsPerBooking - len(b.Guests)
	if n < 0 {
		return 0
	}
	return n
}
