// Package views holds the default page templates of the club site.
//
// Templates are plain html/template files embedded from templates/ and
// exposed to the app as templ components, so a site can swap any single
// page for its own templ component through aktivnatura.ViewFuncs.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/a-h/templ"

	aktivnatura "github.com/Juraj2254/pd-aktivnatura-blog-website"
)

//go:embed templates/*.html
var files embed.FS

// data is what every template receives as dot.
type data struct {
	Site aktivnatura.SiteConfig
	Page any
}

// errorPage fills the public layout for the error pages.
type errorPage struct {
	Meta aktivnatura.PageMeta
	Body template.HTML
}

// Views renders pages from the embedded templates.
type Views struct {
	site  aktivnatura.SiteConfig
	pages map[string]*template.Template
}

// layouts maps each page template to the layout it is rendered in.
var layouts = map[string]string{
	"home.html":      "public",
	"trips.html":     "public",
	"trip.html":      "public",
	"blog.html":      "public",
	"post.html":      "public",
	"contact.html":   "public",
	"error.html":     "public",
	"auth.html":      "admin",
	"dashboard.html": "admin",
	"denied.html":    "admin",
}

// New parses all page templates.
func New(site aktivnatura.SiteConfig) (*Views, error) {
	v := &Views{site: site, pages: make(map[string]*template.Template, len(layouts))}
	for page, layout := range layouts {
		t, err := template.New(page).Funcs(funcs()).ParseFS(files,
			"templates/partials.html",
			"templates/layout_"+layout+".html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", page, err)
		}
		v.pages[page] = t.Lookup(layout)
	}
	return v, nil
}

func (v *Views) render(page string, p any) templ.Component {
	return templ.FromGoHTML(v.pages[page], data{Site: v.site, Page: p})
}

// Funcs returns the view set wired into aktivnatura.ViewFuncs.
func (v *Views) Funcs() aktivnatura.ViewFuncs {
	return aktivnatura.ViewFuncs{
		Home:           func(p aktivnatura.HomePage) templ.Component { return v.render("home.html", p) },
		Trips:          func(p aktivnatura.TripsPage) templ.Component { return v.render("trips.html", p) },
		Trip:           func(p aktivnatura.TripPage) templ.Component { return v.render("trip.html", p) },
		Blog:           func(p aktivnatura.BlogPage) templ.Component { return v.render("blog.html", p) },
		Post:           func(p aktivnatura.PostPage) templ.Component { return v.render("post.html", p) },
		Contact:        func(p aktivnatura.ContactPage) templ.Component { return v.render("contact.html", p) },
		AdminAuth:      func(p aktivnatura.AuthPage) templ.Component { return v.render("auth.html", p) },
		AdminDashboard: func(p aktivnatura.DashboardPage) templ.Component { return v.render("dashboard.html", p) },
		AccessDenied:   func(p aktivnatura.DeniedPage) templ.Component { return v.render("denied.html", p) },
		NotFound: func() templ.Component {
			return v.errorView(404, "Stranica nije pronađena",
				"Stranica koju tražite ne postoji ili je uklonjena.")
		},
		ServerError: func() templ.Component {
			return v.errorView(500, "Nešto je pošlo po zlu",
				"Došlo je do pogreške na poslužitelju. Pokušajte ponovno za nekoliko trenutaka.")
		},
	}
}

// Default returns the stock view set. It panics if the embedded templates
// do not parse, which is a build defect.
func Default(site aktivnatura.SiteConfig) aktivnatura.ViewFuncs {
	v, err := New(site)
	if err != nil {
		panic(err)
	}
	return v.Funcs()
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"date":       aktivnatura.FormatDate,
		"dateRange":  aktivnatura.FormatDateRange,
		"difficulty": aktivnatura.DifficultyLabel,
		"difficulties": func() []string {
			return aktivnatura.Difficulties
		},
		"buckets":   func() []string { return aktivnatura.Buckets },
		"views":     func() []string { return aktivnatura.DashboardViews },
		"viewLabel": ViewLabel,
		// Stored content is sanitized on save; it is sanitized again here
		// so rows written by other tools cannot inject markup.
		"richText": func(s string) template.HTML {
			return template.HTML(aktivnatura.SanitizeHTML(s))
		},
		"jsonLD": func(s string) template.JS { return template.JS(s) },
		"lines":  func(l []string) string { return strings.Join(l, "\n") },
		"year":   func() int { return time.Now().Year() },
		"day":    func(ts string) string { return cut(ts, 10) },
		"stamp":  func(ts string) string { return strings.Replace(cut(ts, 16), "T", " ", 1) },
		"dict":   dict,
	}
}

func cut(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// dict builds a map from alternating keys and values for passing several
// arguments to a partial.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// ViewLabel is the menu label of a dashboard view.
func ViewLabel(view string) string {
	switch view {
	case aktivnatura.ViewTrips:
		return "Izleti"
	case aktivnatura.ViewPosts:
		return "Blog"
	case aktivnatura.ViewCategories:
		return "Kategorije"
	case aktivnatura.ViewFeatured:
		return "Istaknuti izlet"
	case aktivnatura.ViewImages:
		return "Slike"
	case aktivnatura.ViewUsers:
		return "Korisnici"
	case aktivnatura.ViewMessages:
		return "Poruke"
	}
	return view
}
