package aktivnatura

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordProblem(t *testing.T) {
	tests := []struct {
		pw string
		ok bool
	}{
		{"Planina#2025", true},
		{"Šumski-put-7A", true},
		{"Velebit 2025 Z", true},
		{"Abcdefg1", false},
		{"Kratk1!", false},
		{"planina#2025", false},
		{"PLANINA#2025", false},
		{"Planina#Vrh!", false},
		{"Planina20251", false},
		{"Password123A", false},
		{"Qwerty12Abcd", false},
		{"MojAdmin123!x", false},
	}
	for _, tt := range tests {
		got := PasswordProblem(tt.pw)
		if tt.ok {
			assert.Empty(t, got, "PasswordProblem(%q)", tt.pw)
		} else {
			assert.NotEmpty(t, got, "PasswordProblem(%q)", tt.pw)
		}
	}
}

func TestValidateSignUp(t *testing.T) {
	errs := Validate(SignUpForm{Email: "not-an-email", Password: "weak", Confirm: "other"})
	require.NotNil(t, errs)
	assert.Equal(t, "Unesite ispravnu e-mail adresu.", errs.Get("email"))
	assert.Equal(t, "Lozinka mora imati najmanje 12 znakova.", errs.Get("password"))
	assert.Equal(t, "Lozinke se ne podudaraju.", errs.Get("confirm"))

	errs = Validate(SignUpForm{Email: "ana@example.com", Password: "Qwerty12Abcd!", Confirm: "Qwerty12Abcd!"})
	assert.Contains(t, errs.Get("password"), "česte riječi")
	errs = Validate(SignUpForm{Email: "ana@example.com", Password: "Planina20251", Confirm: "Planina20251"})
	assert.Equal(t, "Lozinka mora sadržavati barem jedan poseban znak.", errs.Get("password"))

	assert.Nil(t, Validate(SignUpForm{Email: "ana@example.com", Password: "Planina#2025", Confirm: "Planina#2025"}))
}

func TestValidateTripForm(t *testing.T) {
	errs := Validate(TripForm{Title: "", Date: "07.06.2025.", Difficulty: "extreme"})
	require.NotNil(t, errs)
	assert.True(t, errs.Has("title"))
	assert.True(t, errs.Has("date"))
	assert.True(t, errs.Has("difficulty"))
	assert.False(t, errs.Has("slug"))

	assert.Nil(t, Validate(TripForm{Title: "Velebit", Date: "2025-06-07", Difficulty: DifficultyAlpine}))
}

func TestPostFormDateRange(t *testing.T) {
	base := PostForm{Title: "Tura", Content: "<p>x</p>"}

	f := base
	f.StartDate, f.EndDate = "2025-06-09", "2025-06-07"
	assert.True(t, f.Check().Has("end_date"))

	f = base
	f.EndDate = "2025-06-07"
	assert.True(t, f.Check().Has("start_date"))

	f = base
	f.StartDate, f.EndDate = "2025-06-07", "2025-06-07"
	assert.Nil(t, f.Check())

	assert.Nil(t, base.Check())
}

func TestPostFormDerivesExcerptAndImage(t *testing.T) {
	f := PostForm{
		Title:   "Zimski uspon na Klek",
		Content: `<p>Krenuli smo rano.</p><img src="/public/uploads/blog/klek.jpg" width="400"><script>alert(1)</script>`,
	}
	p := f.Post()
	assert.Equal(t, "zimski-uspon-na-klek", p.Slug)
	assert.Equal(t, "Krenuli smo rano.", p.Excerpt)
	assert.Equal(t, "/public/uploads/blog/klek.jpg", p.FeaturedImage)
	assert.NotContains(t, p.Content, "script")

	f.Excerpt = "Vlastiti sažetak"
	f.FeaturedImage = "/public/uploads/blog/naslovna.jpg"
	p = f.Post()
	assert.Equal(t, "Vlastiti sažetak", p.Excerpt)
	assert.Equal(t, "/public/uploads/blog/naslovna.jpg", p.FeaturedImage)
}

func TestTripFormRoundTrip(t *testing.T) {
	f := TripForm{
		Title:         "Risnjak",
		Date:          "2025-08-02",
		Difficulty:    DifficultyModerate,
		GalleryImages: "/a.jpg\n\n/b.jpg\n",
	}
	trip := f.Trip()
	assert.Equal(t, "risnjak", trip.Slug)
	assert.Equal(t, StringList{"/a.jpg", "/b.jpg"}, trip.GalleryImages)

	back := TripFormFrom(trip)
	assert.Equal(t, "/a.jpg\n/b.jpg", back.GalleryImages)
}

func TestValidateContactForm(t *testing.T) {
	errs := Validate(ContactForm{Name: "Ivo", Email: "ivo@example.com", Message: "kratko"})
	require.NotNil(t, errs)
	assert.Equal(t, "Unesite najmanje 10 znakova.", errs.Get("message"))

	assert.Nil(t, Validate(ContactForm{Name: "Ivo", Email: "ivo@example.com", Message: "Ima li još mjesta na izletu?"}))
}
