package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/service"
	"hotel-booking-api/internal/transport/http/ez"
)

type UserHandler struct {
	users    *service.UserService
	bookings *service.BookingService
}

func NewUserHandler(u *service.UserService, b *service.BookingService) *UserHandler {
	return &UserHandler{users: u, bookings: b}
}

func (h *UserHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed)

	ez.RegisterAction(e, ez.Action[struct{}, *userDTO]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (*userDTO, error) {
			u, err := h.users.GetUser(c.Request.Context(), c.Param("id"), p)
			if err != nil {
				return nil, err
			}
			return toUserDTO(u), nil
		},
	})

	ez.RegisterAction(e, ez.Action[updateUserReq, *userDTO]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *updateUserReq) (*userDTO, error) {
			u, err := h.users.UpdateUser(c.Request.Context(), c.Param("id"), in.toUpdate(), p)
			if err != nil {
				return nil, err
			}
			return toUserDTO(u), nil
		},
	})

	ez.RegisterAction(e, ez.Action[passwordReq, gin.H]{
		Method: http.MethodPut,
		Path:   "/users/:id/password",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, in *passwordReq) (gin.H, error) {
			id := c.Param("id")
			if err := h.users.UpdatePassword(c.Request.Context(), id, in.OldPassword, in.NewPassword, p); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []*bookingDTO]{
		Method: http.MethodGet,
		Path:   "/users/:id/bookings",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) ([]*bookingDTO, error) {
			bs, err := h.bookings.ListBookingsOfUser(c.Request.Context(), c.Param("id"), p)
			if err != nil {
				return nil, err
			}
			return toBookingDTOs(bs), nil
		},
	})
}

func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin)

	ez.RegisterAction(e, ez.Action[pageQ, page[*userDTO]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, p domain.Principal, in *pageQ) (page[*userDTO], error) {
			us, total, err := h.users.ListUsers(c.Request.Context(), in.Q, in.Offset, in.limit(), p)
			if err != nil {
				return page[*userDTO]{}, err
			}
			out := page[*userDTO]{Total: total, Items: make([]*userDTO, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, toUserDTO(u))
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[roleReq, *userDTO]{
		Method: http.MethodPut,
		Path:   "/users/:id/role",
		Binder: ez.BindJSON,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, p domain.Principal, in *roleReq) (*userDTO, error) {
			role, err := domain.ParseRole(in.Role)
			if err != nil {
				return nil, err
			}
			u, err := h.users.UpdateRole(c.Request.Context(), c.Param("id"), role, p)
			if err != nil {
				return nil, err
			}
			return toUserDTO(u), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.users.DeleteUser(c.Request.Context(), id, p); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
