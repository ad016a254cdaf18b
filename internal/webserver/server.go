package webserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/internal/app"
	"github.com/otjiningirua/owfarm/internal/upload"
)

const (
	AppContextKey = "appctx"
	apiPrefix     = "/api"
	adminPrefix   = "/api/admin"
)

// CustomValidator adapts go-playground/validator to echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// AdminServer owns the echo instance. Public routes hang under /api, admin
// routes under /api/admin behind the session gate.
type AdminServer struct {
	root   *echo.Echo
	api    *echo.Group
	admin  *echo.Group
	appCtx app.AppContext
}

func NewAdminServer(appCtx app.AppContext) *AdminServer {
	cfg := appCtx.Config()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			zap.L().Error("handler panic",
				zap.String("namespace", "api"),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
			return err
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("namespace", "api"),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			zap.L().Debug("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	if cfg.Web.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.Web.BodyLimit))
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})

	e.Static(strings.TrimSuffix(upload.URLPrefix, "/"), cfg.GetUploadDir())
	if cfg.Web.PublicDir != "" {
		e.Static("/", cfg.Web.PublicDir)
	}

	s := &AdminServer{root: e, appCtx: appCtx}
	s.api = e.Group(apiPrefix)
	s.admin = e.Group(adminPrefix, s.sessionGate)
	return s
}

// sessionGate rejects admin requests that do not carry a live session cookie
func (s *AdminServer) sessionGate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(s.appCtx.Config().Admin.CookieName)
		if err != nil || !s.appCtx.Sessions().Valid(cookie.Value) {
			return c.String(http.StatusUnauthorized, "Unauthorized")
		}
		return next(c)
	}
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprint(he.Message)
		if he.Internal != nil {
			msg = fmt.Sprintf("%s: %v", msg, he.Internal)
		}
	} else {
		zap.L().Error("unhandled error", zap.String("namespace", "api"), zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]interface{}{"ok": false, "error": msg})
}

func (s *AdminServer) Echo() *echo.Echo {
	return s.root
}

// Public routes, relative to /api

func (s *AdminServer) PubGET(path string, h echo.HandlerFunc) {
	s.api.GET(path, h)
}

func (s *AdminServer) PubPOST(path string, h echo.HandlerFunc) {
	s.api.POST(path, h)
}

// Admin routes, relative to /api/admin

func (s *AdminServer) ApiGET(path string, h echo.HandlerFunc) {
	s.admin.GET(path, h)
}

func (s *AdminServer) ApiPOST(path string, h echo.HandlerFunc) {
	s.admin.POST(path, h)
}

func (s *AdminServer) ApiPUT(path string, h echo.HandlerFunc) {
	s.admin.PUT(path, h)
}

func (s *AdminServer) ApiDELETE(path string, h echo.HandlerFunc) {
	s.admin.DELETE(path, h)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *AdminServer) Start(ctx context.Context) error {
	cfg := s.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.root.Shutdown(sctx); err != nil {
			zap.S().Warn("web server shutdown:", err)
		}
	}()
	zap.S().Infof("Start web server %s", addr)
	if err := s.root.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
