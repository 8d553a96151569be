package aktivnatura

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/labstack/echo/v4"
)

func dashboardURL(view string) string {
	return "/admin-dashboard?view=" + url.QueryEscape(view)
}

// redirectWithFlash finishes a dashboard write: queue a toast and send the
// browser back to the view (Post/Redirect/Get).
func redirectWithFlash(c echo.Context, view, kind, msg string) error {
	addFlash(c, kind, msg)
	return c.Redirect(http.StatusSeeOther, dashboardURL(view))
}

// failWrite logs a store failure and reports it as an error toast.
func (a *App) failWrite(c echo.Context, view, what string, err error) error {
	msg := "Spremanje nije uspjelo: " + what + "."
	switch {
	case errors.Is(err, ErrNotFound):
		msg = "Zapis više ne postoji."
	case errors.Is(err, ErrForbidden):
		msg = "Nemate ovlasti za ovu radnju."
	case errors.Is(err, ErrLastAdmin):
		msg = "Ne možete ukloniti posljednjeg administratora."
	default:
		a.Log.WithError(err).WithField("view", view).Error(what)
	}
	return redirectWithFlash(c, view, FlashError, msg)
}

func (a *App) handleDashboard(c echo.Context) error {
	view := c.QueryParam("view")
	if !slices.Contains(DashboardViews, view) {
		view = ViewTrips
	}
	page := DashboardPage{View: view}
	ctx := c.Request().Context()
	edit := c.QueryParam("edit")

	switch view {
	case ViewTrips:
		if edit == "new" {
			page.TripForm = &TripForm{Difficulty: DifficultyEasy, Date: a.now().Format(dateLayout)}
		} else if edit != "" {
			t, err := a.Store.GetTrip(ctx, edit)
			if err != nil {
				return a.failWrite(c, view, "učitavanje izleta", err)
			}
			f := TripFormFrom(t)
			page.TripForm = &f
		}
	case ViewPosts:
		if edit == "new" {
			page.PostForm = &PostForm{}
		} else if edit != "" {
			p, err := a.Store.GetPost(ctx, edit)
			if err != nil {
				return a.failWrite(c, view, "učitavanje objave", err)
			}
			f := PostFormFrom(p)
			page.PostForm = &f
		}
	case ViewCategories:
		if edit == "new" {
			page.CategoryForm = &CategoryForm{Type: CategoryTrip}
		} else if edit != "" {
			cat, err := a.Store.GetCategory(ctx, edit)
			if err != nil {
				return a.failWrite(c, view, "učitavanje kategorije", err)
			}
			page.CategoryForm = &CategoryForm{ID: cat.ID, Name: cat.Name, Slug: cat.Slug, Description: cat.Description, Type: cat.Type}
		}
	case ViewFeatured:
		if edit == "new" {
			page.FeaturedForm = &FeaturedForm{IsActive: true}
		} else if edit != "" {
			f, err := a.Store.GetFeaturedTrip(ctx, edit)
			if err != nil {
				return a.failWrite(c, view, "učitavanje istaknutog izleta", err)
			}
			page.FeaturedForm = &FeaturedForm{ID: f.ID, Title: f.Title, Date: f.Date, CoverImage: f.CoverImage, Link: f.Link, IsActive: f.IsActive}
		}
	case ViewImages:
		page.Bucket = c.QueryParam("bucket")
		if page.Bucket != "" && !slices.Contains(Buckets, page.Bucket) {
			page.Bucket = ""
		}
	}
	return a.renderDashboard(c, http.StatusOK, page)
}

// renderDashboard loads the lists the view needs and renders the page.
func (a *App) renderDashboard(c echo.Context, code int, page DashboardPage) error {
	ctx := c.Request().Context()
	page.User = adminUser(c)
	page.CSRF = CsrfToken(c)
	page.Flashes = append(takeFlashes(c), page.Flashes...)
	if err := a.loadDashboardLists(ctx, &page); err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminDashboard(page))
}

func (a *App) loadDashboardLists(ctx context.Context, page *DashboardPage) error {
	var err error
	if page.Unread, err = a.Store.CountUnreadMessages(ctx); err != nil {
		return err
	}
	switch page.View {
	case ViewTrips:
		if page.Trips, err = a.Store.ListTrips(ctx, TripFilter{}); err != nil {
			return err
		}
		page.Categories, err = a.Store.ListCategories(ctx, CategoryTrip)
	case ViewPosts:
		if page.Posts, err = a.Store.ListPosts(ctx, PostFilter{}); err != nil {
			return err
		}
		page.Categories, err = a.Store.ListCategories(ctx, CategoryBlog)
	case ViewCategories:
		page.Categories, err = a.Store.ListCategories(ctx, "")
	case ViewFeatured:
		page.Featured, err = a.Store.ListFeaturedTrips(ctx)
	case ViewImages:
		page.Images, err = a.Store.ListImages(ctx, page.Bucket)
	case ViewUsers:
		page.Users, err = a.Store.ListUsers(ctx)
	case ViewMessages:
		page.Messages, err = a.Store.ListContactMessages(ctx)
	}
	return err
}

// rejectForm re-renders the open editor with inline errors.
func (a *App) rejectForm(c echo.Context, page DashboardPage, errs FieldErrors) error {
	page.Errors = errs
	page.Flashes = []Flash{{Kind: FlashError, Message: "Provjerite označena polja."}}
	return a.renderDashboard(c, http.StatusUnprocessableEntity, page)
}

func (a *App) mutated(entity, action string) {
	a.Cache.Invalidate()
	a.Metrics.Mutations.WithLabelValues(entity, action).Inc()
}

// --- Trips ---

func (a *App) handleTripSave(c echo.Context) error {
	var form TripForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Published = c.FormValue("published") != ""
	page := DashboardPage{View: ViewTrips, TripForm: &form}
	if errs := Validate(form); errs != nil {
		return a.rejectForm(c, page, errs)
	}
	trip := form.Trip()
	if trip.Slug == "" {
		return a.rejectForm(c, page, FieldErrors{"slug": "Naslov ili slug mora sadržavati slova ili brojke."})
	}
	err := a.Store.SaveTrip(c.Request().Context(), &trip)
	switch {
	case errors.Is(err, ErrConflict):
		return a.rejectForm(c, page, FieldErrors{"slug": "Izlet s ovim slugom već postoji."})
	case errors.Is(err, ErrInvalidCategory):
		return a.rejectForm(c, page, FieldErrors{"category_id": "Odaberite kategoriju izleta."})
	case err != nil:
		return a.failWrite(c, ViewTrips, "spremanje izleta", err)
	}
	a.mutated("trip", "save")
	return redirectWithFlash(c, ViewTrips, FlashSuccess, "Izlet „"+trip.Title+"” je spremljen.")
}

func (a *App) handleTripToggle(c echo.Context) error {
	ctx := c.Request().Context()
	t, err := a.Store.GetTrip(ctx, c.Param("id"))
	if err != nil {
		return a.failWrite(c, ViewTrips, "objava izleta", err)
	}
	if err := a.Store.SetTripPublished(ctx, t.ID, !t.Published); err != nil {
		return a.failWrite(c, ViewTrips, "objava izleta", err)
	}
	a.mutated("trip", "toggle")
	msg := "Izlet je objavljen."
	if t.Published {
		msg = "Izlet je skriven."
	}
	return redirectWithFlash(c, ViewTrips, FlashSuccess, msg)
}

func (a *App) handleTripDelete(c echo.Context) error {
	if err := a.Store.DeleteTrip(c.Request().Context(), c.Param("id")); err != nil {
		return a.failWrite(c, ViewTrips, "brisanje izleta", err)
	}
	a.mutated("trip", "delete")
	return redirectWithFlash(c, ViewTrips, FlashSuccess, "Izlet je obrisan.")
}

// --- Blog posts ---

func (a *App) handlePostSave(c echo.Context) error {
	var form PostForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Published = c.FormValue("published") != ""
	page := DashboardPage{View: ViewPosts, PostForm: &form}
	if errs := form.Check(); errs != nil {
		return a.rejectForm(c, page, errs)
	}
	post := form.Post()
	if post.Slug == "" {
		return a.rejectForm(c, page, FieldErrors{"slug": "Naslov ili slug mora sadržavati slova ili brojke."})
	}
	post.AuthorID = adminUser(c).ID
	err := a.Store.SavePost(c.Request().Context(), &post)
	switch {
	case errors.Is(err, ErrConflict):
		return a.rejectForm(c, page, FieldErrors{"slug": "Objava s ovim slugom već postoji."})
	case errors.Is(err, ErrInvalidCategory):
		return a.rejectForm(c, page, FieldErrors{"category_id": "Odaberite kategoriju bloga."})
	case err != nil:
		return a.failWrite(c, ViewPosts, "spremanje objave", err)
	}
	a.mutated("post", "save")
	return redirectWithFlash(c, ViewPosts, FlashSuccess, "Objava „"+post.Title+"” je spremljena.")
}

func (a *App) handlePostToggle(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := a.Store.GetPost(ctx, c.Param("id"))
	if err != nil {
		return a.failWrite(c, ViewPosts, "objava članka", err)
	}
	if err := a.Store.SetPostPublished(ctx, p.ID, !p.Published); err != nil {
		return a.failWrite(c, ViewPosts, "objava članka", err)
	}
	a.mutated("post", "toggle")
	msg := "Objava je objavljena."
	if p.Published {
		msg = "Objava je skrivena."
	}
	return redirectWithFlash(c, ViewPosts, FlashSuccess, msg)
}

func (a *App) handlePostDelete(c echo.Context) error {
	if err := a.Store.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return a.failWrite(c, ViewPosts, "brisanje objave", err)
	}
	a.mutated("post", "delete")
	return redirectWithFlash(c, ViewPosts, FlashSuccess, "Objava je obrisana.")
}

// --- Categories ---

func (a *App) handleCategorySave(c echo.Context) error {
	var form CategoryForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	page := DashboardPage{View: ViewCategories, CategoryForm: &form}
	if errs := Validate(form); errs != nil {
		return a.rejectForm(c, page, errs)
	}
	cat := form.Category()
	if cat.Slug == "" {
		return a.rejectForm(c, page, FieldErrors{"slug": "Naziv ili slug mora sadržavati slova ili brojke."})
	}
	err := a.Store.SaveCategory(c.Request().Context(), &cat)
	switch {
	case errors.Is(err, ErrConflict):
		return a.rejectForm(c, page, FieldErrors{"slug": "Kategorija s ovim slugom već postoji."})
	case errors.Is(err, ErrInvalidCategory):
		return a.rejectForm(c, page, FieldErrors{"type": "Kategorija je u upotrebi pa joj se ne može promijeniti vrsta."})
	case err != nil:
		return a.failWrite(c, ViewCategories, "spremanje kategorije", err)
	}
	a.mutated("category", "save")
	return redirectWithFlash(c, ViewCategories, FlashSuccess, "Kategorija „"+cat.Name+"” je spremljena.")
}

func (a *App) handleCategoryDelete(c echo.Context) error {
	if err := a.Store.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return a.failWrite(c, ViewCategories, "brisanje kategorije", err)
	}
	a.mutated("category", "delete")
	return redirectWithFlash(c, ViewCategories, FlashSuccess, "Kategorija je obrisana.")
}

// --- Featured trip ---

func (a *App) handleFeaturedSave(c echo.Context) error {
	var form FeaturedForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.IsActive = c.FormValue("is_active") != ""
	page := DashboardPage{View: ViewFeatured, FeaturedForm: &form}
	if errs := Validate(form); errs != nil {
		return a.rejectForm(c, page, errs)
	}
	f := form.FeaturedTrip()
	if err := a.Store.SaveFeaturedTrip(c.Request().Context(), &f); err != nil {
		return a.failWrite(c, ViewFeatured, "spremanje istaknutog izleta", err)
	}
	a.mutated("featured", "save")
	return redirectWithFlash(c, ViewFeatured, FlashSuccess, "Istaknuti izlet je spremljen.")
}

func (a *App) handleFeaturedActivate(c echo.Context) error {
	if err := a.Store.SetFeaturedTripActive(c.Request().Context(), c.Param("id"), true); err != nil {
		return a.failWrite(c, ViewFeatured, "aktivacija istaknutog izleta", err)
	}
	a.mutated("featured", "activate")
	return redirectWithFlash(c, ViewFeatured, FlashSuccess, "Istaknuti izlet je aktivan.")
}

func (a *App) handleFeaturedDeactivate(c echo.Context) error {
	if err := a.Store.SetFeaturedTripActive(c.Request().Context(), c.Param("id"), false); err != nil {
		return a.failWrite(c, ViewFeatured, "deaktivacija istaknutog izleta", err)
	}
	a.mutated("featured", "deactivate")
	return redirectWithFlash(c, ViewFeatured, FlashSuccess, "Istaknuti izlet više nije aktivan.")
}

func (a *App) handleFeaturedDelete(c echo.Context) error {
	if err := a.Store.DeleteFeaturedTrip(c.Request().Context(), c.Param("id")); err != nil {
		return a.failWrite(c, ViewFeatured, "brisanje istaknutog izleta", err)
	}
	a.mutated("featured", "delete")
	return redirectWithFlash(c, ViewFeatured, FlashSuccess, "Istaknuti izlet je obrisan.")
}

// --- Users ---

func (a *App) handleUserGrant(c echo.Context) error {
	actor := adminUser(c)
	if err := a.Store.AssignAdminRole(c.Request().Context(), actor.ID, c.Param("id")); err != nil {
		return a.failWrite(c, ViewUsers, "dodjela uloge", err)
	}
	a.Metrics.Mutations.WithLabelValues("user_role", "grant").Inc()
	a.Log.WithFields(map[string]any{"actor": actor.Email, "target": c.Param("id")}).Info("admin role granted")
	return redirectWithFlash(c, ViewUsers, FlashSuccess, "Korisnik je sada administrator.")
}

func (a *App) handleUserRevoke(c echo.Context) error {
	actor := adminUser(c)
	if err := a.Store.RemoveAdminRole(c.Request().Context(), actor.ID, c.Param("id")); err != nil {
		return a.failWrite(c, ViewUsers, "uklanjanje uloge", err)
	}
	a.Metrics.Mutations.WithLabelValues("user_role", "revoke").Inc()
	a.Log.WithFields(map[string]any{"actor": actor.Email, "target": c.Param("id")}).Info("admin role removed")
	return redirectWithFlash(c, ViewUsers, FlashSuccess, "Korisniku je uklonjena administratorska uloga.")
}

// --- Contact messages ---

func (a *App) handleMessageRead(c echo.Context) error {
	if err := a.Store.MarkContactMessageRead(c.Request().Context(), c.Param("id")); err != nil {
		return a.failWrite(c, ViewMessages, "označavanje poruke", err)
	}
	return c.Redirect(http.StatusSeeOther, dashboardURL(ViewMessages))
}

func (a *App) handleMessageDelete(c echo.Context) error {
	if err := a.Store.DeleteContactMessage(c.Request().Context(), c.Param("id")); err != nil {
		return a.failWrite(c, ViewMessages, "brisanje poruke", err)
	}
	a.Metrics.Mutations.WithLabelValues("message", "delete").Inc()
	return redirectWithFlash(c, ViewMessages, FlashSuccess, "Poruka je obrisana.")
}
