package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/internal/testutil"
	"hotel-booking-api/pkg/utils"
)

func newBooking(t *testing.T, st *repo.Store, userID, hotelID string) *domain.Booking {
	t.Helper()
	b := &domain.Booking{ID: utils.NewID(), UserID: userID, HotelID: hotelID, Status: domain.StatusActive}
	require.NoError(t, st.Bookings().Create(context.Background(), b))
	return b
}

func TestDecrementRoomStopsAtZero(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	h := testutil.CreateHotel(t, st, 2, "")

	for i := 0; i < 2; i++ {
		ok, err := st.Hotels().DecrementRoom(ctx, h.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := st.Hotels().DecrementRoom(ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := st.Hotels().FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RoomsCount)

	ok, err = st.Hotels().DecrementRoom(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransitionIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	u := testutil.CreateUser(t, st, domain.RoleCustomer)
	h := testutil.CreateHotel(t, st, 1, "")
	b := newBooking(t, st, u.ID, h.ID)

	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	ok, err := st.Bookings().Transition(ctx, b.ID, domain.StatusActive, domain.StatusCheckedIn, repo.CheckInStamp(now))
	require.NoError(t, err)
	assert.True(t, ok)

	// 期望状态已过期，不生效
	ok, err = st.Bookings().Transition(ctx, b.ID, domain.StatusActive, domain.StatusCancelled, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := st.Bookings().FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, got.Status)
	require.NotNil(t, got.CheckInTime)
	assert.True(t, now.Equal(*got.CheckInTime))
	assert.Nil(t, got.CheckOutTime)
}

func TestOwnership(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	owner := testutil.CreateUser(t, st, domain.RoleCustomer)
	manager := testutil.CreateUser(t, st, domain.RoleHotelManager)

	managed := newBooking(t, st, owner.ID, testutil.CreateHotel(t, st, 1, manager.ID).ID)
	o, err := st.Bookings().Ownership(ctx, managed.ID)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, owner.ID, o.UserID)
	require.NotNil(t, o.ManagerID)
	assert.Equal(t, manager.ID, *o.ManagerID)

	unmanaged := newBooking(t, st, owner.ID, testutil.CreateHotel(t, st, 1, "").ID)
	o, err = st.Bookings().Ownership(ctx, unmanaged.ID)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Nil(t, o.ManagerID)

	o, err = st.Bookings().Ownership(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestGuestsBelongToBooking(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	u := testutil.CreateUser(t, st, domain.RoleCustomer)
	h := testutil.CreateHotel(t, st, 2, "")
	b1 := newBooking(t, st, u.ID, h.ID)
	b2 := newBooking(t, st, u.ID, h.ID)

	g := domain.Guest{ID: utils.NewID(), FirstName: "Ann", LastName: "Lee"}
	require.NoError(t, st.Bookings().AddGuests(ctx, b1.ID, []domain.Guest{g}))

	n, err := st.Bookings().DeleteGuests(ctx, b2.ID, []string{g.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = st.Bookings().DeleteGuests(ctx, b1.ID, []string{g.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	h := testutil.CreateHotel(t, st, 1, "")
	boom := errors.New("boom")

	err := st.Transaction(ctx, func(tx *repo.Store) error {
		ok, err := tx.Hotels().DecrementRoom(ctx, h.ID)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := st.Hotels().FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RoomsCount)
}

func TestDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewStore(t)
	u := testutil.CreateUser(t, st, domain.RoleCustomer)

	dup := *u
	dup.ID = utils.NewID()
	err := st.Users().Create(ctx, &dup)
	require.Error(t, err)
	assert.True(t, repo.IsDupKey(err))
	assert.False(t, repo.IsDupKey(nil))
}
