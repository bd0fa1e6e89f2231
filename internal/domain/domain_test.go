package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingTransitions(t *testing.T) {
	allowed := map[BookingStatus][]BookingStatus{
		StatusActive:    {StatusCheckedIn, StatusCancelled},
		StatusCheckedIn: {StatusCheckedOut},
	}
	all := []BookingStatus{StatusActive, StatusCheckedIn, StatusCheckedOut, StatusCancelled}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				want = want || a == to
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, StatusActive.IsTerminal())
	assert.False(t, StatusCheckedIn.IsTerminal())
	assert.True(t, StatusCheckedOut.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, BookingStatus("UNKNOWN").IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus(" checked_in ")
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, s)

	_, err = ParseBookingStatus("PENDING")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{
		"admin":              RoleAdmin,
		"ROLE_HOTEL_MANAGER": RoleHotelManager,
		" Customer ":         RoleCustomer,
	} {
		r, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, r)
	}
	_, err := ParseRole("root")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGuestSlots(t *testing.T) {
	b := &Booking{}
	assert.Equal(t, MaxGuestsPerBooking, b.GuestSlots())
	b.Guests = make([]Guest, MaxGuestsPerBooking+1)
	assert.Equal(t, 0, b.GuestSlots())
}

func TestHotelManagedBy(t *testing.T) {
	m := "u1"
	h := &Hotel{ManagerID: &m}
	assert.True(t, h.ManagedBy("u1"))
	assert.False(t, h.ManagedBy("u2"))
	assert.False(t, (&Hotel{}).ManagedBy("u1"))
}

func TestErrorKinds(t *testing.T) {
	err := NotFound("booking %s not found", "b1")
	assert.Equal(t, "booking b1 not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, KindNotFound, KindOf(err))

	wrapped := fmt.Errorf("service: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))

	cause := errors.New("connection reset")
	internal := Internal("load booking", cause)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, "load booking: connection reset", internal.Error())
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	// 带消息的错误不能当哨兵用
	assert.NotErrorIs(t, ErrNotFound, NotFound("x"))
	assert.Equal(t, "no_available_rooms", KindNoAvailableRooms.String())
}

func TestPrincipal(t *testing.T) {
	u := &User{ID: "u1", Role: RoleAdmin}
	p := u.Principal()
	assert.True(t, p.IsAdmin())
	assert.True(t, p.Is(RoleAdmin))
	assert.False(t, p.Is(RoleCustomer))
}
