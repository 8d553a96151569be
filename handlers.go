package aktivnatura

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	featuredCookie    = "featured_dismissed"
	featuredSuppress  = 7 * 24 * time.Hour
	homeUpcomingLimit = 3
	homePostsLimit    = 3
	relatedLimit      = 3
)

func (a *App) meta(title, description, path, image, ogType string) PageMeta {
	if title == "" {
		title = a.Config.Name
	} else {
		title = title + " | " + a.Config.Name
	}
	if description == "" {
		description = a.Config.Description
	}
	if image != "" {
		image = absoluteURL(a.Config.URL, image)
	}
	return PageMeta{
		Title:       title,
		Description: description,
		URL:         a.Config.URL + path,
		Image:       image,
		OGType:      ogType,
	}
}

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	upcoming, err := a.Cache.UpcomingTrips(ctx, a.now(), homeUpcomingLimit)
	if err != nil {
		return err
	}
	posts, err := a.Cache.Posts(ctx, "")
	if err != nil {
		return err
	}
	if len(posts) > homePostsLimit {
		posts = posts[:homePostsLimit]
	}
	page := HomePage{
		Meta:     a.meta("", "", "/", "", "website"),
		JsonLD:   WebsiteJsonLD(a.Config),
		Upcoming: upcoming,
		Posts:    posts,
		CSRF:     CsrfToken(c),
	}
	featured, err := a.Store.ActiveFeaturedTrip(ctx)
	switch {
	case err == nil:
		if !featuredDismissed(c) {
			page.Featured = &featured
		}
	case !errors.Is(err, ErrNotFound):
		// The popup is decoration; the page still renders without it.
		a.Log.WithError(err).Warn("load featured trip")
	}
	return Render(c, a.Views.Home(page))
}

// featuredDismissed reports whether this browser closed a popup within the
// suppression window. The cookie expires with the window, so any value counts.
func featuredDismissed(c echo.Context) bool {
	ck, err := c.Cookie(featuredCookie)
	return err == nil && ck.Value != ""
}

// handleDismissFeatured remembers, for seven days, that the visitor closed
// the featured trip popup.
func (a *App) handleDismissFeatured(c echo.Context) error {
	id := c.FormValue("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	c.SetCookie(&http.Cookie{
		Name:     featuredCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(featuredSuppress / time.Second),
		HttpOnly: true,
		Secure:   a.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	if wantsJSON(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleTrips(c echo.Context) error {
	ctx := c.Request().Context()
	cat := c.QueryParam("kategorija")
	trips, err := a.Cache.Trips(ctx, cat)
	if err != nil {
		return err
	}
	cats, err := a.Cache.Categories(ctx, CategoryTrip)
	if err != nil {
		return err
	}
	now := a.now()
	page := TripsPage{
		Meta:           a.meta("Izleti", "", "/izleti", "", "website"),
		Categories:     cats,
		ActiveCategory: cat,
	}
	// trips are newest first; upcoming reads better soonest first.
	for i := len(trips) - 1; i >= 0; i-- {
		if trips[i].Upcoming(now) {
			page.Upcoming = append(page.Upcoming, trips[i])
		}
	}
	for _, t := range trips {
		if !t.Upcoming(now) {
			page.Past = append(page.Past, t)
		}
	}
	return Render(c, a.Views.Trips(page))
}

func (a *App) handleTrip(c echo.Context) error {
	ctx := c.Request().Context()
	trip, err := a.Cache.Trip(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	trips, err := a.Cache.Trips(ctx, "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Trip(TripPage{
		Meta:    a.meta(trip.Title, trip.Subtitle, trip.Link(), trip.FeaturedImage, "article"),
		JsonLD:  TripJsonLD(trip, a.Config),
		Trip:    trip,
		Related: RelatedTrips(trip, trips, relatedLimit),
	}))
}

func (a *App) handleBlog(c echo.Context) error {
	ctx := c.Request().Context()
	cat := c.QueryParam("kategorija")
	posts, err := a.Cache.Posts(ctx, cat)
	if err != nil {
		return err
	}
	cats, err := a.Cache.Categories(ctx, CategoryBlog)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(BlogPage{
		Meta:           a.meta("Blog", "", "/blog", "", "website"),
		Posts:          posts,
		Categories:     cats,
		ActiveCategory: cat,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Cache.Post(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	posts, err := a.Cache.Posts(ctx, "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(PostPage{
		Meta:    a.meta(post.Title, post.Excerpt, post.Link(), post.FeaturedImage, "article"),
		JsonLD:  BlogPostingJsonLD(post, a.Config),
		Post:    post,
		Related: RelatedPosts(post, posts, relatedLimit),
	}))
}

func (a *App) contactPage(c echo.Context) ContactPage {
	return ContactPage{
		Meta:  a.meta("Kontakt", "", "/kontakt", "", "website"),
		Email: a.Config.ContactEmail,
		Phone: a.Config.ContactPhone,
		CSRF:  CsrfToken(c),
	}
}

func (a *App) handleContact(c echo.Context) error {
	page := a.contactPage(c)
	page.Sent = c.QueryParam("poslano") == "1"
	return Render(c, a.Views.Contact(page))
}

func (a *App) handleContactSubmit(c echo.Context) error {
	page := a.contactPage(c)
	if !a.contactLimiter.Allow(c.RealIP()) {
		a.Metrics.ContactMessages.WithLabelValues("limited").Inc()
		page.Error = "Poslali ste previše poruka. Pokušajte ponovno za nekoliko minuta."
		return RenderStatus(c, http.StatusTooManyRequests, a.Views.Contact(page))
	}
	var form ContactForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if form.Website != "" {
		// Honeypot filled in: pretend success.
		a.Metrics.ContactMessages.WithLabelValues("spam").Inc()
		return c.Redirect(http.StatusSeeOther, "/kontakt?poslano=1")
	}
	page.Form = form
	if errs := Validate(form); errs != nil {
		a.Metrics.ContactMessages.WithLabelValues("invalid").Inc()
		page.Errors = errs
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Contact(page))
	}
	msg := ContactMessage{
		Name:    form.Name,
		Email:   normalizeEmail(form.Email),
		Subject: form.Subject,
		Message: form.Message,
	}
	if err := a.Store.SaveContactMessage(c.Request().Context(), &msg); err != nil {
		a.Log.WithError(err).Error("save contact message")
		a.Metrics.ContactMessages.WithLabelValues("error").Inc()
		page.Error = "Poruku trenutno nije moguće poslati. Pokušajte ponovno kasnije."
		return RenderStatus(c, http.StatusInternalServerError, a.Views.Contact(page))
	}
	a.Metrics.ContactMessages.WithLabelValues("ok").Inc()
	return c.Redirect(http.StatusSeeOther, "/kontakt?poslano=1")
}

func (a *App) handleSitemap(c echo.Context) error {
	data, err := BuildSitemap(c.Request().Context(), a.Store, a.Config.URL, a.now())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// handleRobots generates robots.txt from the configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin-auth\nDisallow: /admin-dashboard\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) handleHealth(c echo.Context) error {
	if err := a.Store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.WithError(err).WithField("uri", c.Request().RequestURI).Error("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
