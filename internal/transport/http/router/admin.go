package router

import (
	"github.com/gin-gonic/gin"

	"hotel-booking-api/internal/core/server"
	"hotel-booking-api/internal/domain"
	mdw "hotel-booking-api/internal/transport/http/middleware"
)

func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Logger)
	use(r, d.Logger, "admin")

	// 管理端 v1（统一要求 ADMIN；角色每次回库取）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, d.Principal, domain.RoleAdmin))

	d.Modules.MountAllAdmin(admin)
	return r
}
