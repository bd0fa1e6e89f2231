package ez

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/internal/domain"
	mdw "hotel-booking-api/internal/transport/http/middleware"
	resp "hotel-booking-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// AErr 传输层自己产生的错误（参数缺失等）；领域错误走 domain.Error
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }

// 动作定义：I 入参，O 出参；principal 显式传给 Handler
type Action[I any, O any] struct {
	Method  string        // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string        // 例："/bookings/:id/check-in"
	Binder  Binder        // 绑定方式
	Auth    bool          // 是否要求登录（分组已挂 AuthJWT 时作为双保险）
	Roles   []domain.Role // 限定角色（可选）
	Status  int           // 成功时的 HTTP 状态，默认 200
	Handler func(c *gin.Context, p domain.Principal, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		p, authed := mdw.PrincipalFrom(c)
		if a.Auth || len(a.Roles) > 0 {
			if !authed {
				resp.Abort(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, p.Role) {
				resp.Abort(c, resp.CodeForbidden, "forbidden")
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Abort(c, resp.CodeTooLarge, "request body too large")
				return
			}
			resp.Abort(c, resp.CodeBadRequest, bindErr.Error())
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, p, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// Fail 写错误响应；5xx 不把内部错误细节返回给客户端，原始错误留给 AccessLog
func Fail(c *gin.Context, err error) {
	code, msg := StatusOf(err)
	if code >= resp.CodeServerError {
		_ = c.Error(err)
		msg = ""
	}
	resp.Abort(c, code, msg)
}

// StatusOf 错误 → (状态码, 对外消息)；唯一的映射点
func StatusOf(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Error()
	}
	var de *domain.Error
	if !errors.As(err, &de) {
		return resp.CodeServerError, err.Error()
	}
	switch de.Kind {
	case domain.KindInvalidArgument:
		return resp.CodeBadRequest, de.Error()
	case domain.KindUnauthenticated:
		return resp.CodeUnauthorized, de.Error()
	case domain.KindUnauthorized:
		return resp.CodeForbidden, de.Error()
	case domain.KindNotFound:
		return resp.CodeNotFound, de.Error()
	case domain.KindInvalidState, domain.KindConflict:
		return resp.CodeConflict, de.Error()
	case domain.KindMaxGuestLimitReached, domain.KindNoAvailableRooms:
		return resp.CodeUnprocessable, de.Error()
	}
	return resp.CodeServerError, de.Error()
}
