package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/logger"
)

// New はミドルウェアと共通ルートを載せたechoを組み立てる。
func New(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(requestLogger())

	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowCredentials: true,
		}))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, cfg *config.Config) error {
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}

// zapでアクセスログを出す
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.L().Info("request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			)
			return err
		}
	}
}
