package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hotel-booking-api/internal/core/auth"
	"hotel-booking-api/internal/core/server"
	mdw "hotel-booking-api/internal/transport/http/middleware"
)

// Deps 两个引擎共用的依赖
type Deps struct {
	Logger    *zap.Logger
	JWT       *auth.JWTer
	Principal mdw.PrincipalLoader
	Modules   *Registry
}

// 通用中间件链，name 作为指标的 server 标签
func use(r *gin.Engine, l *zap.Logger, name string) {
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(l),
		mdw.Metrics(name),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Logger)
	use(r, d.Logger, "api")

	// 前缀
	api := r.Group("/api/v1")

	// 鉴权分组：任意已登录角色
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, d.Principal))

	d.Modules.MountAllAPI(api, authed)
	return r
}
