package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/service"
	"hotel-booking-api/internal/transport/http/ez"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(b *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: b}
}

type bookingFn func(ctx context.Context, id string, p domain.Principal) (*domain.Booking, error)

// bookingAction 只带路径参数 :id 的订单操作
func bookingAction(method, path string, fn bookingFn) ez.Action[struct{}, *bookingDTO] {
	return ez.Action[struct{}, *bookingDTO]{
		Method: method,
		Path:   path,
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (*bookingDTO, error) {
			b, err := fn(c.Request.Context(), c.Param("id"), p)
			if err != nil {
				return nil, err
			}
			return toBookingDTO(b), nil
		},
	}
}

func (h *BookingHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, bookingAction(http.MethodGet, "/bookings/:id", h.bookings.GetBooking))
	ez.RegisterAction(e, bookingAction(http.MethodPost, "/bookings/:id/cancel", h.bookings.CancelBooking))
	ez.RegisterAction(e, bookingAction(http.MethodPatch, "/bookings/:id/check-in", h.bookings.CheckIn))
	ez.RegisterAction(e, bookingAction(http.MethodPatch, "/bookings/:id/check-out", h.bookings.CheckOut))

	ez.RegisterAction(e, ez.Action[statusReq, *bookingDTO]{
		Method: http.MethodPut,
		Path:   "/bookings/:id/status",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *statusReq) (*bookingDTO, error) {
			st, err := domain.ParseBookingStatus(in.Status)
			if err != nil {
				return nil, err
			}
			b, err := h.bookings.UpdateStatus(c.Request.Context(), c.Param("id"), st, p)
			if err != nil {
				return nil, err
			}
			return toBookingDTO(b), nil
		},
	})

	ez.RegisterAction(e, ez.Action[addGuestsReq, *bookingDTO]{
		Method: http.MethodPost,
		Path:   "/bookings/:id/guests",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *addGuestsReq) (*bookingDTO, error) {
			b, err := h.bookings.AddGuests(c.Request.Context(), c.Param("id"), in.toInput(), p)
			if err != nil {
				return nil, err
			}
			return toBookingDTO(b), nil
		},
	})

	ez.RegisterAction(e, ez.Action[removeGuestsReq, *bookingDTO]{
		Method: http.MethodDelete,
		Path:   "/bookings/:id/guests",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *removeGuestsReq) (*bookingDTO, error) {
			b, err := h.bookings.RemoveGuests(c.Request.Context(), c.Param("id"), in.GuestIDs, p)
			if err != nil {
				return nil, err
			}
			return toBookingDTO(b), nil
		},
	})
}

func (h *BookingHandler) MountAdmin(admin *gin.RouterGroup) {
	ez.RegisterAction(ez.New(admin), ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/bookings/:id",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.bookings.DeleteBooking(c.Request.Context(), id, p); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
