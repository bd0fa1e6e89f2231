package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"hotel-booking-api/internal/core/events"
	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/pkg/utils"
)

type GuestInput struct {
	FirstName string
	LastName  string
	Email     string
}

var guestValidate = validator.New()

func (g GuestInput) toGuest() (domain.Guest, error) {
	first, last := strings.TrimSpace(g.FirstName), strings.TrimSpace(g.LastName)
	email := strings.TrimSpace(g.Email)
	if guestValidate.Var(first, "required,max=64") != nil || guestValidate.Var(last, "required,max=64") != nil {
		return domain.Guest{}, domain.InvalidArgument("guest first name and last name are required (max 64 chars)")
	}
	if guestValidate.Var(email, "omitempty,email,max=255") != nil {
		return domain.Guest{}, domain.InvalidArgument("invalid guest email: " + email)
	}
	return domain.Guest{ID: utils.NewID(), FirstName: first, LastName: last, Email: email}, nil
}

// AddGuests 仅 ACTIVE 订单可加人，总数不超过 MaxGuestsPerBooking；整批要么全加要么不加
func (s *BookingService) AddGuests(ctx context.Context, bookingID string, in []GuestInput, p domain.Principal) (*domain.Booking, error) {
	if err := s.authorize(ctx, opAddGuests, bookingID, p); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		b, err := tx.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return domain.Internal("load booking failed", err)
		}
		if b == nil {
			return domain.NotFound("booking with id %s does not exist", bookingID)
		}
		if b.Status == domain.StatusCancelled {
			return domain.InvalidState("booking with id %s has already been cancelled", bookingID)
		}
		if len(in) == 0 {
			return domain.InvalidArgument("no guests to add")
		}
		if b.Status != domain.StatusActive {
			return domain.InvalidState("booking with id %s is not active", bookingID)
		}
		if len(in) > b.GuestSlots() {
			return domain.MaxGuestLimitReached(fmt.Sprintf("a booking can have at most %d guests", domain.MaxGuestsPerBooking))
		}
		guests := make([]domain.Guest, 0, len(in))
		for _, g := range in {
			guest, err := g.toGuest()
			if err != nil {
				return err
			}
			guests = append(guests, guest)
		}
		if err := tx.Bookings().AddGuests(ctx, bookingID, guests); err != nil {
			return domain.Internal("add guests failed", err)
		}
		if err := tx.Bookings().Touch(ctx, bookingID); err != nil {
			return domain.Internal("update booking failed", err)
		}
		return nil
	})
	if err != nil {
		observeRejection(string(events.BookingGuestsAdded), err)
		return nil, err
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.log.Info("guests added", zap.String("booking_id", bookingID), zap.Int("count", len(in)), zap.String("actor_id", p.ID))
	s.emit(ctx, events.BookingGuestsAdded, bookingID, b, p)
	return b, nil
}

// RemoveGuests 不属于该订单的 id 直接忽略
func (s *BookingService) RemoveGuests(ctx context.Context, bookingID string, guestIDs []string, p domain.Principal) (*domain.Booking, error) {
	if err := s.authorize(ctx, opRemoveGuests, bookingID, p); err != nil {
		return nil, err
	}
	var removed int64
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		b, err := tx.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return domain.Internal("load booking failed", err)
		}
		if b == nil {
			return domain.NotFound("booking with id %s does not exist", bookingID)
		}
		if b.Status == domain.StatusCancelled {
			return domain.InvalidState("booking with id %s has already been cancelled", bookingID)
		}
		if b.Status != domain.StatusActive {
			return domain.InvalidState("booking with id %s is not active", bookingID)
		}
		if len(guestIDs) == 0 {
			return domain.InvalidArgument("no guests to remove")
		}
		removed, err = tx.Bookings().DeleteGuests(ctx, bookingID, guestIDs)
		if err != nil {
			return domain.Internal("remove guests failed", err)
		}
		if removed > 0 {
			if err := tx.Bookings().Touch(ctx, bookingID); err != nil {
				return domain.Internal("update booking failed", err)
			}
		}
		return nil
	})
	if err != nil {
		observeRejection(string(events.BookingGuestsRemoved), err)
		return nil, err
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		s.log.Info("guests removed", zap.String("booking_id", bookingID), zap.Int64("count", removed), zap.String("actor_id", p.ID))
		s.emit(ctx, events.BookingGuestsRemoved, bookingID, b, p)
	}
	return b, nil
}
