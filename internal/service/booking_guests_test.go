package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-api/internal/domain"
)

func guests(names ...string) []GuestInput {
	out := make([]GuestInput, 0, len(names))
	for _, n := range names {
		out = append(out, GuestInput{FirstName: n, LastName: "Doe", Email: n + "@example.com"})
	}
	return out
}

func TestAddGuestsUpToLimit(t *testing.T) {
	f := newBookingFixture(t, 1)
	b := f.book(t)

	b, err := f.svc.AddGuests(f.ctx, b.ID, guests("ann"), f.owner)
	require.NoError(t, err)
	require.Len(t, b.Guests, 1)
	assert.NotEmpty(t, b.Guests[0].ID)
	assert.Equal(t, "ann", b.Guests[0].FirstName)

	b, err = f.svc.AddGuests(f.ctx, b.ID, guests("bob"), f.manager)
	require.NoError(t, err)
	assert.Len(t, b.Guests, 2)

	_, err = f.svc.AddGuests(f.ctx, b.ID, guests("cid"), f.admin)
	assert.ErrorIs(t, err, domain.ErrMaxGuestLimitReached)

	got, err := f.svc.GetBooking(f.ctx, b.ID, f.owner)
	require.NoError(t, err)
	assert.Len(t, got.Guests, 2)
}

func TestAddGuestsBatchIsAllOrNothing(t *testing.T) {
	f := newBookingFixture(t, 1)
	b := f.book(t)

	_, err := f.svc.AddGuests(f.ctx, b.ID, guests("ann", "bob", "cid"), f.owner)
	assert.ErrorIs(t, err, domain.ErrMaxGuestLimitReached)

	_, err = f.svc.AddGuests(f.ctx, b.ID, []GuestInput{{FirstName: "ann", LastName: "Doe"}, {FirstName: " "}}, f.owner)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.svc.AddGuests(f.ctx, b.ID, []GuestInput{{FirstName: "ann", LastName: "Doe", Email: "not-an-email"}}, f.owner)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	got, err := f.svc.GetBooking(f.ctx, b.ID, f.owner)
	require.NoError(t, err)
	assert.Empty(t, got.Guests)
}

func TestAddGuestsRejections(t *testing.T) {
	f := newBookingFixture(t, 3)

	active := f.book(t)
	_, err := f.svc.AddGuests(f.ctx, active.ID, nil, f.owner)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.svc.AddGuests(f.ctx, active.ID, guests("ann"), f.stranger)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	cancelled := f.book(t)
	_, err = f.svc.CancelBooking(f.ctx, cancelled.ID, f.owner)
	require.NoError(t, err)
	_, err = f.svc.AddGuests(f.ctx, cancelled.ID, guests("ann"), f.owner)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// 状态错误优先于入参错误
	_, err = f.svc.AddGuests(f.ctx, cancelled.ID, []GuestInput{{FirstName: " "}}, f.owner)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	checkedIn := f.book(t)
	_, err = f.svc.CheckIn(f.ctx, checkedIn.ID, f.manager)
	require.NoError(t, err)
	_, err = f.svc.AddGuests(f.ctx, checkedIn.ID, guests("ann"), f.owner)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.AddGuests(f.ctx, "missing", guests("ann"), f.admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveGuests(t *testing.T) {
	f := newBookingFixture(t, 1)
	b := f.book(t)
	b, err := f.svc.AddGuests(f.ctx, b.ID, guests("ann", "bob"), f.owner)
	require.NoError(t, err)
	require.Len(t, b.Guests, 2)

	keep, drop := b.Guests[0], b.Guests[1]
	if keep.FirstName != "ann" {
		keep, drop = drop, keep
	}

	// 未知 id 忽略
	b, err = f.svc.RemoveGuests(f.ctx, b.ID, []string{drop.ID, "unknown"}, f.owner)
	require.NoError(t, err)
	require.Len(t, b.Guests, 1)
	assert.Equal(t, keep.ID, b.Guests[0].ID)

	_, err = f.svc.RemoveGuests(f.ctx, b.ID, nil, f.owner)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.svc.RemoveGuests(f.ctx, b.ID, []string{keep.ID}, f.stranger)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.CancelBooking(f.ctx, b.ID, f.owner)
	require.NoError(t, err)
	_, err = f.svc.RemoveGuests(f.ctx, b.ID, []string{keep.ID}, f.owner)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRemoveGuestsOfAnotherBookingIsIgnored(t *testing.T) {
	f := newBookingFixture(t, 2)
	b1 := f.book(t)
	b2 := f.book(t)

	b1, err := f.svc.AddGuests(f.ctx, b1.ID, guests("ann"), f.owner)
	require.NoError(t, err)

	_, err = f.svc.RemoveGuests(f.ctx, b2.ID, []string{b1.Guests[0].ID}, f.owner)
	require.NoError(t, err)

	got, err := f.svc.GetBooking(f.ctx, b1.ID, f.owner)
	require.NoError(t, err)
	assert.Len(t, got.Guests, 1)
}

func TestAddGuestsFromManyGoroutinesKeepsCap(t *testing.T) {
	f := newBookingFixture(t, 1)
	b := f.book(t)

	const attempts = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, limit int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AddGuests(f.ctx, b.ID, guests("ann"), f.owner)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case domain.KindOf(err) == domain.KindMaxGuestLimitReached:
				limit++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, domain.MaxGuestsPerBooking, ok)
	assert.Equal(t, attempts-domain.MaxGuestsPerBooking, limit)

	got, err := f.svc.GetBooking(f.ctx, b.ID, f.owner)
	require.NoError(t, err)
	assert.Len(t, got.Guests, domain.MaxGuestsPerBooking)
}
