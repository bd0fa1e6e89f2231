package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/internal/core/auth"
	"hotel-booking-api/internal/domain"
	resp "hotel-booking-api/internal/transport/http/response"
)

const (
	KeyClaims    = "claims"
	KeyUserID    = "userId"
	KeyRole      = "role"
	KeyPrincipal = "principal"
)

// PrincipalLoader 按 uid 回库取当前角色；用户已删除时返回 Unauthenticated
type PrincipalLoader func(ctx context.Context, userID string) (domain.Principal, error)

// AuthJWT roles 为空表示只要求登录
func AuthJWT(j *auth.JWTer, load PrincipalLoader, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.ParseAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}

		p := domain.Principal{ID: claims.UID, Role: domain.Role(claims.Role)}
		if load != nil {
			p, err = load(c.Request.Context(), claims.UID)
			if err != nil {
				if domain.KindOf(err) == domain.KindUnauthenticated {
					resp.Abort(c, resp.CodeUnauthorized, err.Error())
					return
				}
				_ = c.Error(err)
				resp.Abort(c, resp.CodeServerError, "")
				return
			}
		}
		if len(roles) > 0 && !slices.Contains(roles, p.Role) {
			resp.Abort(c, resp.CodeForbidden, "forbidden")
			return
		}

		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, p.ID)
		c.Set(KeyRole, p.Role.String())
		c.Set(KeyPrincipal, p)
		c.Next()
	}
}

// PrincipalFrom 未经过 AuthJWT 的请求返回 false
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(KeyPrincipal)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok && p.ID != ""
}
