package kilobite

import (
	"errors"
	"io/fs"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/kilobite/content"
	"github.com/eringen/kilobite/paginate"
	"github.com/eringen/kilobite/views"
)

const (
	featuredLimit = 3
	relatedLimit  = 3
)

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/assets/*", echo.WrapHandler(http.StripPrefix("/assets/", http.FileServer(http.FS(assets)))))

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/page/:n/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/tags/:tag/page/:n/", a.handleTag)
	e.GET("/projects/", a.handleProjects)
	e.GET("/projects/page/:n/", a.handleProjects)
	e.GET("/projects/:slug/", a.handleProject)
	e.GET("/:page/", a.handlePage)
	e.POST("/subscribe/", a.handleSubscribe)

	if a.adminEnabled() {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.POST("/admin/subscribers/delete/", a.handleSubscriberDelete)
		e.GET("/admin/subscribers.csv", a.handleSubscriberExport)
	}
}

func (a *App) postsPerPage() int {
	return paginate.PerPage(a.Site.PostsPerPage())
}

func (a *App) projectsPerPage() int {
	return paginate.PerPage(a.Site.ProjectsPerPage())
}

// pageNumber reads the :n route parameter. Absent means page 1; a literal
// "/page/1/" is redirected to the listing root so each page has one address.
func pageNumber(c echo.Context) (int, error) {
	raw := c.Param("n")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, echo.ErrNotFound
	}
	return n, nil
}

// paginated resolves page n of a listing, turning out-of-range pages into 404s.
func paginated(total, perPage, n int) (paginate.Page, error) {
	page, err := paginate.New(total, perPage, n)
	if errors.Is(err, paginate.ErrPageOutOfRange) {
		return page, echo.ErrNotFound
	}
	return page, err
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	featured, err := a.Cache.FeaturedPosts(featuredLimit)
	if err != nil {
		return err
	}
	perPage := a.postsPerPage()
	recent := posts
	if len(recent) > perPage {
		recent = recent[:perPage]
	}
	meta := views.PageMeta{
		OGType: "website",
		JSONLD: WebsiteJSONLD(a.Site, a.Config.URL),
	}
	return Render(c, views.Home(a.layout(c, meta), featured, recent, len(posts) > perPage))
}

func (a *App) handleBlog(c echo.Context) error {
	n, err := pageNumber(c)
	if err != nil {
		return err
	}
	if c.Param("n") == "1" {
		return c.Redirect(http.StatusMovedPermanently, paginate.URL("/blog", 1))
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	page, err := paginated(len(posts), a.postsPerPage(), n)
	if err != nil {
		return err
	}
	meta := views.PageMeta{Title: "Blog", Description: a.Site.Description()}
	if n > 1 {
		meta.Title = "Blog · page " + strconv.Itoa(n)
	}
	return Render(c, views.Blog(a.layout(c, meta), paginate.Slice(posts, page), views.Pager{Page: page, Base: "/blog"}))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	meta := views.PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		OGType:      "article",
		JSONLD:      BlogPostingJSONLD(post, a.Site, a.Config.URL),
	}
	if post.Image != nil {
		meta.Image = post.Image.Src
	}
	return Render(c, views.Post(a.layout(c, meta), post, FilterRelatedPosts(post, posts, relatedLimit)))
}

func (a *App) handleTags(c echo.Context) error {
	counts, err := a.Cache.TagCounts()
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	rows := make([]views.TagCount, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, views.TagCount{Tag: t, Count: counts[t]})
	}
	return Render(c, views.Tags(a.layout(c, views.PageMeta{Title: "Tags"}), rows))
}

func (a *App) handleTag(c echo.Context) error {
	tag, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		return echo.ErrNotFound
	}
	tag = normalizeTag(tag)
	n, err := pageNumber(c)
	if err != nil {
		return err
	}
	base := "/tags/" + url.PathEscape(tag)
	if c.Param("n") == "1" {
		return c.Redirect(http.StatusMovedPermanently, paginate.URL(base, 1))
	}
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return echo.ErrNotFound
	}
	page, err := paginated(len(posts), a.postsPerPage(), n)
	if err != nil {
		return err
	}
	meta := views.PageMeta{Title: views.TagTitle(tag)}
	return Render(c, views.Tag(a.layout(c, meta), tag, paginate.Slice(posts, page), views.Pager{Page: page, Base: base}))
}

func (a *App) handleProjects(c echo.Context) error {
	n, err := pageNumber(c)
	if err != nil {
		return err
	}
	if c.Param("n") == "1" {
		return c.Redirect(http.StatusMovedPermanently, paginate.URL("/projects", 1))
	}
	projects, err := a.Cache.ListProjects()
	if err != nil {
		return err
	}
	page, err := paginated(len(projects), a.projectsPerPage(), n)
	if err != nil {
		return err
	}
	meta := views.PageMeta{Title: "Projects"}
	return Render(c, views.Projects(a.layout(c, meta), paginate.Slice(projects, page), views.Pager{Page: page, Base: "/projects"}))
}

func (a *App) handleProject(c echo.Context) error {
	project, err := a.Cache.GetProject(c.Param("slug"))
	if err != nil {
		return err
	}
	meta := views.PageMeta{Title: project.Title, Description: project.Description, OGType: "article"}
	if project.Image != nil {
		meta.Image = project.Image.Src
	}
	return Render(c, views.Project(a.layout(c, meta), project))
}

func (a *App) handlePage(c echo.Context) error {
	page, err := a.Cache.GetPage(c.Param("page"))
	if err != nil {
		return err
	}
	meta := views.PageMeta{Title: page.Title, Description: page.Description}
	return Render(c, views.Page(a.layout(c, meta), page))
}

func (a *App) handleSubscribe(c echo.Context) error {
	if !a.subscribeLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many sign-ups. Try again later.")
	}
	email, ok := parseEmail(c.FormValue("email"))
	if !ok {
		if err := setFlash(c, "Please enter a valid email address."); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, backTo(c))
	}
	created, err := a.Store.AddSubscriber(email)
	if err != nil {
		return err
	}
	msg := "You are already subscribed."
	if created {
		msg = "Thanks for subscribing!"
		a.Log.Info("new subscriber")
	}
	if err := setFlash(c, msg); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, backTo(c))
}

// parseEmail accepts a bare address ("reader@example.com"), not a display
// name form.
func parseEmail(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > 254 {
		return "", false
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return "", false
	}
	return strings.ToLower(addr.Address), true
}

// backTo returns the same-site path the request came from, or "/".
func backTo(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != c.Request().Host {
		return "/"
	}
	return ref.Path
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: " + strings.TrimSuffix(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if errors.Is(err, ErrNotFound) {
		err = echo.ErrNotFound
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.layout(c, views.PageMeta{Title: "Not found", NoIndex: true})))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error("server error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
		_ = RenderStatus(c, code, views.ServerError(a.layout(c, views.PageMeta{Title: "Error", NoIndex: true})))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// contentPaths lists every public page address, used by the sitemap and the
// static build.
func (a *App) contentPaths() ([]string, error) {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return nil, err
	}
	projects, err := a.Cache.ListProjects()
	if err != nil {
		return nil, err
	}
	pages, err := a.Cache.ListPages()
	if err != nil {
		return nil, err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return nil, err
	}
	counts, err := a.Cache.TagCounts()
	if err != nil {
		return nil, err
	}

	paths := []string{"/"}
	paths = append(paths, listingPaths("/blog", len(posts), a.postsPerPage())...)
	for _, p := range posts {
		paths = append(paths, p.Link())
	}
	paths = append(paths, "/tags/")
	for _, t := range tags {
		paths = append(paths, listingPaths("/tags/"+url.PathEscape(t), counts[t], a.postsPerPage())...)
	}
	paths = append(paths, listingPaths("/projects", len(projects), a.projectsPerPage())...)
	for _, p := range projects {
		paths = append(paths, p.Link())
	}
	for _, p := range pages {
		if reservedPage(p.Slug) {
			a.Log.Warn("page slug shadowed by a built-in route", zap.String("slug", p.Slug))
			continue
		}
		paths = append(paths, p.Link())
	}
	return paths, nil
}

func listingPaths(base string, total, perPage int) []string {
	first, _ := paginate.New(total, perPage, 1)
	paths := make([]string, 0, first.TotalPages)
	for n := 1; n <= first.TotalPages; n++ {
		paths = append(paths, paginate.URL(base, n))
	}
	return paths
}

// reservedPage reports whether a page slug collides with a built-in section.
func reservedPage(slug string) bool {
	switch slug {
	case content.BlogDir, content.ProjectsDir, "tags", "admin", "subscribe", "assets":
		return true
	}
	return false
}
