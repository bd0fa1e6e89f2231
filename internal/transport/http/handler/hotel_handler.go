package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/service"
	"hotel-booking-api/internal/transport/http/ez"
)

type HotelHandler struct {
	hotels   *service.HotelService
	bookings *service.BookingService
}

func NewHotelHandler(h *service.HotelService, b *service.BookingService) *HotelHandler {
	return &HotelHandler{hotels: h, bookings: b}
}

func (h *HotelHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, ez.Action[pageQ, page[*hotelDTO]]{
		Method: http.MethodGet,
		Path:   "/hotels",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, _ domain.Principal, in *pageQ) (page[*hotelDTO], error) {
			hs, total, err := h.hotels.ListHotels(c.Request.Context(), in.Offset, in.limit())
			if err != nil {
				return page[*hotelDTO]{}, err
			}
			out := page[*hotelDTO]{Total: total, Items: make([]*hotelDTO, 0, len(hs))}
			for _, x := range hs {
				out.Items = append(out.Items, toHotelDTO(x))
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *hotelDTO]{
		Method: http.MethodGet,
		Path:   "/hotels/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ domain.Principal, _ *struct{}) (*hotelDTO, error) {
			x, err := h.hotels.GetHotel(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			return toHotelDTO(x), nil
		},
	})

	ez.RegisterAction(e, ez.Action[hotelReq, *hotelDTO]{
		Method: http.MethodPut,
		Path:   "/hotels/:id",
		Binder: ez.BindJSON,
		Roles:  []domain.Role{domain.RoleHotelManager},
		Handler: func(c *gin.Context, p domain.Principal, in *hotelReq) (*hotelDTO, error) {
			x, err := h.hotels.UpdateHotel(c.Request.Context(), c.Param("id"), in.toInput(), p)
			if err != nil {
				return nil, err
			}
			return toHotelDTO(x), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *bookingDTO]{
		Method: http.MethodPost,
		Path:   "/hotels/:id/bookings",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (*bookingDTO, error) {
			b, err := h.bookings.CreateBooking(c.Request.Context(), c.Param("id"), p)
			if err != nil {
				return nil, err
			}
			return toBookingDTO(b), nil
		},
	})
}

func (h *HotelHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin)

	ez.RegisterAction(e, ez.Action[hotelReq, *hotelDTO]{
		Method: http.MethodPost,
		Path:   "/hotels",
		Binder: ez.BindJSON,
		Roles:  []domain.Role{domain.RoleAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p domain.Principal, in *hotelReq) (*hotelDTO, error) {
			x, err := h.hotels.CreateHotel(c.Request.Context(), in.toInput(), p)
			if err != nil {
				return nil, err
			}
			return toHotelDTO(x), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *hotelDTO]{
		Method: http.MethodPut,
		Path:   "/hotels/:id/manager/:userId",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (*hotelDTO, error) {
			x, err := h.hotels.AssignManager(c.Request.Context(), c.Param("id"), c.Param("userId"), p)
			if err != nil {
				return nil, err
			}
			return toHotelDTO(x), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/hotels/:id",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.hotels.DeleteHotel(c.Request.Context(), id, p); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
