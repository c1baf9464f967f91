package kilobite

import (
	"crypto/subtle"
	"encoding/csv"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/kilobite/views"
)

var adminMeta = views.PageMeta{Title: "Admin", NoIndex: true}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(a.layout(c, adminMeta), false))
	}
	return a.renderSubscribers(c, "")
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return RenderStatus(c, http.StatusUnauthorized, views.AdminLogin(a.layout(c, adminMeta), true))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleSubscriberDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	email := c.FormValue("email")
	err := a.Store.DeleteSubscriber(email)
	switch {
	case errors.Is(err, ErrNotFound):
		return a.renderSubscribers(c, "No such subscriber.")
	case err != nil:
		return err
	}
	return a.renderSubscribers(c, "Removed "+email+".")
}

func (a *App) handleSubscriberExport(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	subs, err := a.Store.ListSubscribers()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="subscribers.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"email", "subscribed_at"}); err != nil {
		return err
	}
	for _, s := range subs {
		if err := w.Write([]string{s.Email, s.CreatedAt.Format(time.RFC3339)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (a *App) renderSubscribers(c echo.Context, msg string) error {
	subs, err := a.Store.ListSubscribers()
	if err != nil {
		return err
	}
	rows := make([]views.Subscriber, len(subs))
	for i, s := range subs {
		rows[i] = views.Subscriber{Email: s.Email, Since: s.CreatedAt}
	}
	return Render(c, views.AdminSubscribers(a.layout(c, adminMeta), rows, msg))
}
