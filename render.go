package kilobite

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/kilobite/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// layout builds the per-request page chrome. The flash message is consumed.
func (a *App) layout(c echo.Context, meta views.PageMeta) views.Layout {
	if meta.URL == "" {
		meta.URL = BuildURL(a.Config.URL, c.Request().URL.Path)
	}
	return views.Layout{
		Site:  a.Site,
		Meta:  meta,
		Path:  c.Request().URL.Path,
		CSRF:  CsrfToken(c),
		Flash: popFlash(c),
	}
}
