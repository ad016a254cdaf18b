package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/internal/webserver"
)

type loginPayload struct {
	Password string `json:"password"`
}

// Login, logout and the session probe sit outside the gate.
func registerAuthRoutes(s *webserver.AdminServer) {
	s.PubPOST("/admin/login", login)
	s.PubPOST("/admin/logout", logout)
	s.PubGET("/admin/session", sessionStatus)
}

func login(c echo.Context) error {
	var payload loginPayload
	if _, err := bindPayload(c, &payload); err != nil {
		return handleValidationError(c, err, &payload)
	}
	appCtx := GetAppContext(c)
	token, valid := appCtx.Sessions().Login(payload.Password)
	if !valid {
		zap.L().Warn("admin login failed",
			zap.String("namespace", "api"),
			zap.String("remote", c.RealIP()))
		return fail(c, http.StatusUnauthorized, "", "Invalid credentials", nil)
	}
	c.SetCookie(&http.Cookie{
		Name:     appCtx.Config().Admin.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return okTrue(c, http.StatusOK)
}

func logout(c echo.Context) error {
	appCtx := GetAppContext(c)
	name := appCtx.Config().Admin.CookieName
	if cookie, err := c.Cookie(name); err == nil {
		appCtx.Sessions().Logout(cookie.Value)
	}
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return okTrue(c, http.StatusOK)
}

func sessionStatus(c echo.Context) error {
	appCtx := GetAppContext(c)
	cookie, err := c.Cookie(appCtx.Config().Admin.CookieName)
	if err != nil || !appCtx.Sessions().Valid(cookie.Value) {
		return c.String(http.StatusUnauthorized, "Unauthorized")
	}
	return okTrue(c, http.StatusOK)
}
