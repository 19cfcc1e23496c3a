package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/domain/model"
)

// AdminRoleGuard はAuthJWTが積んだroleを見て管理者以外を弾く。
// AuthJWTの後段に置くこと。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if model.Role(role) != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}
