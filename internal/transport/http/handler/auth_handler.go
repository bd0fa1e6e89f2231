package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hotel-booking-api/internal/domain"
	"hotel-booking-api/internal/service"
	"hotel-booking-api/internal/transport/http/ez"
	mdw "hotel-booking-api/internal/transport/http/middleware"
)

const refreshCookie = "refreshToken"

type AuthHandler struct {
	auth         *service.AuthService
	users        *service.UserService
	refreshTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(a *service.AuthService, u *service.UserService, refreshTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: a, users: u, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	// 公开接口按 IP 限速，防撞库
	g := public.Group("/auth")
	g.Use(mdw.RateLimitPerIP(rate.Limit(5), 20))
	pub := ez.New(g)

	ez.RegisterAction(pub, ez.Action[signupReq, *userDTO]{
		Method: http.MethodPost,
		Path:   "/signup",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ domain.Principal, in *signupReq) (*userDTO, error) {
			u, err := h.auth.Signup(c.Request.Context(), in.toInput())
			if err != nil {
				return nil, err
			}
			return toUserDTO(u), nil
		},
	})

	ez.RegisterAction(pub, ez.Action[loginReq, *service.Tokens]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ domain.Principal, in *loginReq) (*service.Tokens, error) {
			tok, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, err
			}
			h.setRefreshCookie(c, tok.RefreshToken)
			return tok, nil
		},
	})

	// body 里没有就读 cookie
	ez.RegisterAction(pub, ez.Action[refreshReq, *service.Tokens]{
		Method: http.MethodPost,
		Path:   "/refresh",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ domain.Principal, in *refreshReq) (*service.Tokens, error) {
			if c.Request.ContentLength > 0 {
				if err := c.ShouldBindJSON(in); err != nil {
					return nil, ez.BadRequest(err.Error())
				}
			}
			token := in.RefreshToken
			if token == "" {
				token, _ = c.Cookie(refreshCookie)
			}
			if token == "" {
				return nil, ez.Unauthorized("missing refresh token")
			}
			tok, err := h.auth.Refresh(c.Request.Context(), token)
			if err != nil {
				return nil, err
			}
			h.setRefreshCookie(c, tok.RefreshToken)
			return tok, nil
		},
	})

	ez.RegisterAction(ez.New(authed), ez.Action[struct{}, *userDTO]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p domain.Principal, _ *struct{}) (*userDTO, error) {
			u, err := h.users.GetUser(c.Request.Context(), p.ID, p)
			if err != nil {
				return nil, err
			}
			return toUserDTO(u), nil
		},
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, int(h.refreshTTL/time.Second), "/", "", h.secureCookie, true)
}
