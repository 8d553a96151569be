package aktivnatura

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// dummyHash is compared against when the email is unknown so that unknown
// and known accounts take the same time to reject.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func (a *App) handleAuth(c echo.Context) error {
	if a.IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin-dashboard")
	}
	mode := AuthModeSignIn
	if c.QueryParam("mode") == AuthModeSignUp {
		mode = AuthModeSignUp
	}
	return Render(c, a.Views.AdminAuth(AuthPage{
		Mode:    mode,
		Flashes: takeFlashes(c),
		CSRF:    CsrfToken(c),
	}))
}

func (a *App) renderAuth(c echo.Context, code int, page AuthPage) error {
	page.CSRF = CsrfToken(c)
	return RenderStatus(c, code, a.Views.AdminAuth(page))
}

func (a *App) handleSignIn(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.Metrics.Logins.WithLabelValues("limited").Inc()
		return a.renderAuth(c, http.StatusTooManyRequests, AuthPage{
			Mode:  AuthModeSignIn,
			Error: "Previše neuspjelih pokušaja prijave. Pokušajte ponovno za minutu.",
		})
	}
	var form SignInForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if errs := Validate(form); errs != nil {
		return a.renderAuth(c, http.StatusUnprocessableEntity, AuthPage{
			Mode:   AuthModeSignIn,
			Email:  form.Email,
			Errors: errs,
		})
	}

	ctx := c.Request().Context()
	user, err := a.Store.GetUserByEmail(ctx, form.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	hash := dummyHash
	if err == nil {
		hash = []byte(user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(form.Password)) != nil || err != nil {
		a.loginLimiter.Record(ip)
		a.Metrics.Logins.WithLabelValues("failed").Inc()
		a.Log.WithField("ip", ip).Warn("failed sign-in")
		return a.renderAuth(c, http.StatusUnauthorized, AuthPage{
			Mode:  AuthModeSignIn,
			Email: form.Email,
			Error: "Neispravan e-mail ili lozinka.",
		})
	}

	a.loginLimiter.Reset(ip)
	if err := setUserSession(c, user.ID); err != nil {
		return err
	}
	a.Metrics.Logins.WithLabelValues("ok").Inc()
	a.Log.WithField("user", user.Email).Info("signed in")
	return c.Redirect(http.StatusSeeOther, "/admin-dashboard")
}

func (a *App) handleSignUp(c echo.Context) error {
	var form SignUpForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if errs := Validate(form); errs != nil {
		a.Metrics.Signups.WithLabelValues("invalid").Inc()
		return a.renderAuth(c, http.StatusUnprocessableEntity, AuthPage{
			Mode:   AuthModeSignUp,
			Email:  form.Email,
			Errors: errs,
		})
	}
	hash, err := HashPassword(form.Password)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	user, err := a.Store.CreateUser(ctx, form.Email, hash)
	if errors.Is(err, ErrConflict) {
		a.Metrics.Signups.WithLabelValues("duplicate").Inc()
		return a.renderAuth(c, http.StatusConflict, AuthPage{
			Mode:   AuthModeSignUp,
			Email:  form.Email,
			Errors: FieldErrors{"email": "Korisnik s ovom e-mail adresom već postoji."},
		})
	}
	if err != nil {
		return err
	}
	bootstrap, err := a.isBootstrapAdmin(ctx, user)
	if err != nil {
		return err
	}
	if bootstrap {
		if err := a.Store.GrantRole(ctx, user.ID, RoleAdmin); err != nil {
			return err
		}
		a.Log.WithField("user", user.Email).Info("bootstrap admin granted")
	}
	if err := setUserSession(c, user.ID); err != nil {
		return err
	}
	a.Metrics.Signups.WithLabelValues("ok").Inc()
	a.Log.WithField("user", user.Email).Info("signed up")
	// Non-admins land on the access denied panel until an admin promotes them.
	return c.Redirect(http.StatusSeeOther, "/admin-dashboard")
}

func (a *App) handleSignOut(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin-auth")
}

// isBootstrapAdmin reports whether a fresh sign-up should become admin: the
// configured bootstrap email always does, and with AllowFirstAdmin so does
// anyone while there is no admin yet.
func (a *App) isBootstrapAdmin(ctx context.Context, u User) (bool, error) {
	if a.Config.BootstrapAdminEmail != "" && strings.EqualFold(u.Email, normalizeEmail(a.Config.BootstrapAdminEmail)) {
		return true, nil
	}
	if !a.Config.AllowFirstAdmin {
		return false, nil
	}
	n, err := a.Store.CountAdmins(ctx)
	return n == 0, err
}
