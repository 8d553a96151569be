package aktivnatura

import "github.com/a-h/templ"

// ViewFuncs holds the templ components the App calls when rendering pages.
// The default set lives in the views package; callers may supply their own.
type ViewFuncs struct {
	Home           func(HomePage) templ.Component
	Trips          func(TripsPage) templ.Component
	Trip           func(TripPage) templ.Component
	Blog           func(BlogPage) templ.Component
	Post           func(PostPage) templ.Component
	Contact        func(ContactPage) templ.Component
	AdminAuth      func(AuthPage) templ.Component
	AdminDashboard func(DashboardPage) templ.Component
	AccessDenied   func(DeniedPage) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot toast message.
type Flash struct {
	Kind    string
	Message string
}

// HomePage is the data for "/".
type HomePage struct {
	Meta     PageMeta
	JsonLD   string
	Upcoming []Trip
	Posts    []BlogPost
	// Featured is nil when there is no active featured trip or the visitor
	// dismissed it recently.
	Featured *FeaturedTrip
	CSRF     string
}

// TripsPage is the data for "/izleti".
type TripsPage struct {
	Meta           PageMeta
	Upcoming       []Trip
	Past           []Trip
	Categories     []Category
	ActiveCategory string
}

// TripPage is the data for "/izleti/:slug".
type TripPage struct {
	Meta    PageMeta
	JsonLD  string
	Trip    Trip
	Related []Trip
}

// BlogPage is the data for "/blog".
type BlogPage struct {
	Meta           PageMeta
	Posts          []BlogPost
	Categories     []Category
	ActiveCategory string
}

// PostPage is the data for "/blog/:slug".
type PostPage struct {
	Meta    PageMeta
	JsonLD  string
	Post    BlogPost
	Related []BlogPost
}

// ContactPage is the data for "/kontakt".
type ContactPage struct {
	Meta   PageMeta
	Form   ContactForm
	Errors FieldErrors
	Error  string
	Sent   bool
	Email  string
	Phone  string
	CSRF   string
}

// Auth panel modes.
const (
	AuthModeSignIn = "signin"
	AuthModeSignUp = "signup"
)

// AuthPage is the data for "/admin-auth".
type AuthPage struct {
	Mode    string
	Email   string
	Errors  FieldErrors
	Error   string
	Flashes []Flash
	CSRF    string
}

// Dashboard views, selected with ?view=.
const (
	ViewTrips      = "trips"
	ViewPosts      = "posts"
	ViewCategories = "categories"
	ViewFeatured   = "featured"
	ViewImages     = "images"
	ViewUsers      = "users"
	ViewMessages   = "messages"
)

// DashboardViews lists the dashboard views in menu order.
var DashboardViews = []string{ViewTrips, ViewPosts, ViewCategories, ViewFeatured, ViewImages, ViewUsers, ViewMessages}

// DashboardPage is the data for "/admin-dashboard". Only the slices needed
// by View are populated.
type DashboardPage struct {
	User    User
	View    string
	CSRF    string
	Flashes []Flash
	Unread  int

	Trips      []Trip
	Posts      []BlogPost
	Categories []Category
	Featured   []FeaturedTrip
	Images     []Image
	Users      []User
	Messages   []ContactMessage

	// At most one editor is open.
	TripForm     *TripForm
	PostForm     *PostForm
	CategoryForm *CategoryForm
	FeaturedForm *FeaturedForm
	Errors       FieldErrors

	Bucket string
}

// DeniedPage is shown to signed-in users without the admin role.
type DeniedPage struct {
	User User
	CSRF string
}
