package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTがcontextに入れたuser_idを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	userID, ok := raw.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
