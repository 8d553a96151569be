package aktivnatura

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Izlet na Učku", "izlet-na-ucku"},
		{"Đurđevac i Čakovec", "djurdjevac-i-cakovec"},
		{"  Šumski put -- Žumberak!  ", "sumski-put-zumberak"},
		{"Velebit 2025.", "velebit-2025"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://aktivnatura.hr/", BuildURL("https://aktivnatura.hr"))
	assert.Equal(t, "https://aktivnatura.hr/izleti/velebit", BuildURL("https://aktivnatura.hr", "izleti", "velebit"))
	assert.Equal(t, "https://aktivnatura.hr/blog", BuildURL("https://aktivnatura.hr/", "blog"))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, SplitLines("/a.jpg\r\n\n  /b.jpg  \n"))
	assert.Nil(t, SplitLines("  \n "))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "7. lipnja 2025.", FormatDate("2025-06-07"))
	assert.Equal(t, "31. prosinca 2024.", FormatDate("2024-12-31"))
	assert.Equal(t, "nije datum", FormatDate("nije datum"))

	assert.Equal(t, "7. lipnja 2025.", FormatDateRange("2025-06-07", ""))
	assert.Equal(t, "7. lipnja 2025.", FormatDateRange("2025-06-07", "2025-06-07"))
	assert.Equal(t, "7. lipnja 2025. – 9. lipnja 2025.", FormatDateRange("2025-06-07", "2025-06-09"))
}

func TestDifficultyLabel(t *testing.T) {
	for _, d := range Difficulties {
		assert.NotEqual(t, d, DifficultyLabel(d), "missing label for %q", d)
	}
	assert.Equal(t, "nepoznato", DifficultyLabel("nepoznato"))
}

func TestRelatedTrips(t *testing.T) {
	current := Trip{ID: "1", CategoryID: "hike"}
	trips := []Trip{
		{ID: "1", CategoryID: "hike"},
		{ID: "2", CategoryID: "hike"},
		{ID: "3", CategoryID: "ski"},
		{ID: "4", CategoryID: "hike"},
		{ID: "5", CategoryID: "hike"},
	}
	related := RelatedTrips(current, trips, 2)
	require.Len(t, related, 2)
	assert.Equal(t, "2", related[0].ID)
	assert.Equal(t, "4", related[1].ID)

	assert.Empty(t, RelatedTrips(Trip{ID: "9"}, trips, 3))
}

func TestRelatedPostsPrefersSameCategory(t *testing.T) {
	current := BlogPost{ID: "1", CategoryID: "news"}
	posts := []BlogPost{
		{ID: "2", CategoryID: "stories"},
		{ID: "1", CategoryID: "news"},
		{ID: "3", CategoryID: "news"},
		{ID: "4"},
	}
	related := RelatedPosts(current, posts, 2)
	require.Len(t, related, 2)
	assert.Equal(t, "3", related[0].ID)
	assert.Equal(t, "2", related[1].ID)
}

func TestTripJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "PD Aktivnatura", URL: "https://aktivnatura.hr"}
	trip := Trip{
		Title:           "Risnjak",
		Slug:            "risnjak",
		Date:            "2025-08-02",
		Location:        "Gorski kotar",
		FeaturedImage:   "/public/uploads/trips/risnjak.jpg",
		MaxParticipants: 25,
	}
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(TripJsonLD(trip, cfg)), &data))
	assert.Equal(t, "Event", data["@type"])
	assert.Equal(t, "https://aktivnatura.hr/izleti/risnjak", data["url"])
	assert.Equal(t, "https://aktivnatura.hr/public/uploads/trips/risnjak.jpg", data["image"])
	assert.Equal(t, "2025-08-02", data["startDate"])
	assert.EqualValues(t, 25, data["maximumAttendeeCapacity"])
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "PD Aktivnatura", URL: "https://aktivnatura.hr"}
	post := BlogPost{Title: "Dojmovi", Slug: "dojmovi", Excerpt: "Kratko", CategoryName: "Putopisi"}
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg)), &data))
	assert.Equal(t, "BlogPosting", data["@type"])
	assert.Equal(t, "Dojmovi", data["headline"])
	assert.Equal(t, "Putopisi", data["articleSection"])
	assert.NotContains(t, data, "image")
}
