// Package events 订单变更事件：提交后投递，投递失败不影响主流程
package events

import (
	"context"
	"time"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingStatusUpdated Type = "booking.status_updated"
	BookingCancelled     Type = "booking.cancelled"
	BookingCheckedIn     Type = "booking.checked_in"
	BookingCheckedOut    Type = "booking.checked_out"
	BookingGuestsAdded   Type = "booking.guests_added"
	BookingGuestsRemoved Type = "booking.guests_removed"
	BookingDeleted       Type = "booking.deleted"
)

type BookingEvent struct {
	Type       Type      `json:"type"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id,omitempty"`
	HotelID    string    `json:"hotel_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	GuestCount int       `json:"guest_count"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
	Close() error
}

// Nop 未启用 MQ 时使用
type Nop struct{}

func (Nop) Publish(context.Context, BookingEvent) error { return nil }
func (Nop) Close() error                                { return nil }
