package aktivnatura

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps form field names to user-facing messages.
type FieldErrors map[string]string

// Has reports whether field has an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Get returns the message for field, or "".
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// commonPasswords are fragments that make a password trivially guessable.
var commonPasswords = []string{"password", "12345678", "qwerty", "abc123", "password123", "admin123"}

// PasswordProblem describes why a password fails the complexity rules:
// at least 12 characters with an upper case letter, a lower case letter, a
// digit and a special character, and no common password fragment. It
// returns "" for an acceptable password.
func PasswordProblem(pw string) string {
	if len([]rune(pw)) < 12 {
		return "Lozinka mora imati najmanje 12 znakova."
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	switch {
	case !upper:
		return "Lozinka mora sadržavati barem jedno veliko slovo."
	case !lower:
		return "Lozinka mora sadržavati barem jedno malo slovo."
	case !digit:
		return "Lozinka mora sadržavati barem jednu znamenku."
	case !special:
		return "Lozinka mora sadržavati barem jedan poseban znak."
	}
	lowered := strings.ToLower(pw)
	for _, w := range commonPasswords {
		if strings.Contains(lowered, w) {
			return "Lozinka ne smije sadržavati česte riječi poput \"password\" ili \"qwerty\"."
		}
	}
	return ""
}

// Validate checks a form struct and returns field errors, or nil when valid.
func Validate(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Ovo polje je obavezno."
	case "email":
		return "Unesite ispravnu e-mail adresu."
	case "password":
		return PasswordProblem(fe.Value().(string))
	case "eqfield":
		return "Lozinke se ne podudaraju."
	case "date":
		return "Datum mora biti u obliku GGGG-MM-DD."
	case "oneof":
		return "Odaberite jednu od ponuđenih vrijednosti."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Unesite najmanje %s znakova.", fe.Param())
		}
		return fmt.Sprintf("Vrijednost mora biti najmanje %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Dopušteno je najviše %s znakova.", fe.Param())
		}
		return fmt.Sprintf("Vrijednost može biti najviše %s.", fe.Param())
	}
	return "Neispravna vrijednost."
}

// TripForm is the dashboard trip editor.
type TripForm struct {
	ID              string `form:"id"`
	Title           string `form:"title" validate:"required,max=200"`
	Subtitle        string `form:"subtitle" validate:"max=300"`
	Slug            string `form:"slug" validate:"max=200"`
	Content         string `form:"content"`
	CategoryID      string `form:"category_id"`
	FeaturedImage   string `form:"featured_image" validate:"max=500"`
	GalleryImages   string `form:"gallery_images"`
	Date            string `form:"date" validate:"required,date"`
	MaxParticipants int    `form:"max_participants" validate:"min=0,max=1000"`
	Location        string `form:"location" validate:"max=200"`
	Difficulty      string `form:"difficulty" validate:"required,oneof=easy moderate demanding alpine"`
	Duration        string `form:"duration" validate:"max=100"`
	Published       bool   `form:"-"`
}

// Trip converts the form into a Trip ready to save.
func (f TripForm) Trip() Trip {
	slug := Slugify(f.Slug)
	if slug == "" {
		slug = Slugify(f.Title)
	}
	content := SanitizeHTML(f.Content)
	featured := strings.TrimSpace(f.FeaturedImage)
	if featured == "" {
		featured = FirstImage(content)
	}
	return Trip{
		ID:              f.ID,
		Title:           strings.TrimSpace(f.Title),
		Subtitle:        strings.TrimSpace(f.Subtitle),
		Slug:            slug,
		Content:         content,
		CategoryID:      f.CategoryID,
		FeaturedImage:   featured,
		GalleryImages:   StringList(SplitLines(f.GalleryImages)),
		Date:            f.Date,
		MaxParticipants: f.MaxParticipants,
		Location:        strings.TrimSpace(f.Location),
		Difficulty:      f.Difficulty,
		Duration:        strings.TrimSpace(f.Duration),
		Published:       f.Published,
	}
}

// TripFormFrom fills the editor from a stored trip.
func TripFormFrom(t Trip) TripForm {
	return TripForm{
		ID:              t.ID,
		Title:           t.Title,
		Subtitle:        t.Subtitle,
		Slug:            t.Slug,
		Content:         t.Content,
		CategoryID:      t.CategoryID,
		FeaturedImage:   t.FeaturedImage,
		GalleryImages:   strings.Join(t.GalleryImages, "\n"),
		Date:            t.Date,
		MaxParticipants: t.MaxParticipants,
		Location:        t.Location,
		Difficulty:      t.Difficulty,
		Duration:        t.Duration,
		Published:       t.Published,
	}
}

// PostForm is the dashboard blog post editor.
type PostForm struct {
	ID            string `form:"id"`
	Title         string `form:"title" validate:"required,max=200"`
	Slug          string `form:"slug" validate:"max=200"`
	Content       string `form:"content" validate:"required"`
	Excerpt       string `form:"excerpt" validate:"max=300"`
	FeaturedImage string `form:"featured_image" validate:"max=500"`
	CategoryID    string `form:"category_id"`
	StartDate     string `form:"start_date" validate:"omitempty,date"`
	EndDate       string `form:"end_date" validate:"omitempty,date"`
	Published     bool   `form:"-"`
}

// Check runs struct validation plus the date range rule.
func (f PostForm) Check() FieldErrors {
	errs := Validate(f)
	if f.StartDate != "" && f.EndDate != "" && f.EndDate < f.StartDate && !errs.Has("end_date") {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs["end_date"] = "Datum završetka ne može biti prije datuma početka."
	}
	if f.EndDate != "" && f.StartDate == "" && !errs.Has("start_date") {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs["start_date"] = "Unesite datum početka."
	}
	return errs
}

// Post converts the form into a BlogPost ready to save.
func (f PostForm) Post() BlogPost {
	slug := Slugify(f.Slug)
	if slug == "" {
		slug = Slugify(f.Title)
	}
	content := SanitizeHTML(f.Content)
	excerpt := strings.TrimSpace(f.Excerpt)
	if excerpt == "" {
		excerpt = Excerpt(content)
	}
	featured := strings.TrimSpace(f.FeaturedImage)
	if featured == "" {
		featured = FirstImage(content)
	}
	return BlogPost{
		ID:            f.ID,
		Title:         strings.TrimSpace(f.Title),
		Slug:          slug,
		Content:       content,
		Excerpt:       excerpt,
		FeaturedImage: featured,
		CategoryID:    f.CategoryID,
		StartDate:     f.StartDate,
		EndDate:       f.EndDate,
		Published:     f.Published,
	}
}

// PostFormFrom fills the editor from a stored post.
func PostFormFrom(p BlogPost) PostForm {
	return PostForm{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		CategoryID:    p.CategoryID,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Published:     p.Published,
	}
}

// CategoryForm is the dashboard category editor.
type CategoryForm struct {
	ID          string `form:"id"`
	Name        string `form:"name" validate:"required,max=100"`
	Slug        string `form:"slug" validate:"max=100"`
	Description string `form:"description" validate:"max=500"`
	Type        string `form:"type" validate:"required,oneof=blog trip"`
}

// Category converts the form into a Category ready to save.
func (f CategoryForm) Category() Category {
	slug := Slugify(f.Slug)
	if slug == "" {
		slug = Slugify(f.Name)
	}
	return Category{
		ID:          f.ID,
		Name:        strings.TrimSpace(f.Name),
		Slug:        slug,
		Description: strings.TrimSpace(f.Description),
		Type:        f.Type,
	}
}

// FeaturedForm is the dashboard featured trip editor.
type FeaturedForm struct {
	ID         string `form:"id"`
	Title      string `form:"title" validate:"required,max=200"`
	Date       string `form:"date" validate:"omitempty,date"`
	CoverImage string `form:"cover_image" validate:"max=500"`
	Link       string `form:"link" validate:"max=500"`
	IsActive   bool   `form:"-"`
}

// FeaturedTrip converts the form into a FeaturedTrip ready to save.
func (f FeaturedForm) FeaturedTrip() FeaturedTrip {
	return FeaturedTrip{
		ID:         f.ID,
		Title:      strings.TrimSpace(f.Title),
		Date:       f.Date,
		CoverImage: strings.TrimSpace(f.CoverImage),
		Link:       strings.TrimSpace(f.Link),
		IsActive:   f.IsActive,
	}
}

// SignInForm is the login panel.
type SignInForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// SignUpForm is the registration panel.
type SignUpForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,password"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

// ContactForm is the public contact form.
type ContactForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Subject string `form:"subject" validate:"max=150"`
	Message string `form:"message" validate:"required,min=10,max=5000"`
	// Website is a honeypot; people leave it empty.
	Website string `form:"website"`
}
