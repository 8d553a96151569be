package aktivnatura

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a clock that advances one minute per call, so rows
// written in a test get distinct, ordered timestamps.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	s.now = steppingClock(time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC))
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCategory(t *testing.T, s *Store, name, typ string) Category {
	t.Helper()
	c := Category{Name: name, Slug: Slugify(name), Type: typ}
	require.NoError(t, s.SaveCategory(context.Background(), &c))
	return c
}

func mustUser(t *testing.T, s *Store, email string, admin bool) User {
	t.Helper()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, email, "hash")
	require.NoError(t, err)
	if admin {
		require.NoError(t, s.GrantRole(ctx, u.ID, RoleAdmin))
	}
	u, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	return u
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)
	require.NotNil(t, s.db)
	assert.NoError(t, s.Ping(context.Background()))

	// Reopening runs the schema again without error.
	path := filepath.Join(t.TempDir(), "again.db")
	s1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())
	s2, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestSaveAndGetTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cat := mustCategory(t, s, "Višednevni", CategoryTrip)

	trip := Trip{
		Title:           "Velebit",
		Subtitle:        "Premužićeva staza",
		Slug:            "velebit",
		Content:         "<p>Opis</p>",
		CategoryID:      cat.ID,
		FeaturedImage:   "/public/uploads/trips/velebit.jpg",
		GalleryImages:   StringList{"/a.jpg", "/b.jpg"},
		Date:            "2025-06-07",
		MaxParticipants: 30,
		Location:        "Zavižan",
		Difficulty:      DifficultyModerate,
		Duration:        "6 sati",
		Published:       true,
	}
	require.NoError(t, s.SaveTrip(ctx, &trip))
	require.NotEmpty(t, trip.ID)
	require.NotEmpty(t, trip.CreatedAt)

	got, err := s.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Velebit", got.Title)
	assert.Equal(t, StringList{"/a.jpg", "/b.jpg"}, got.GalleryImages)
	assert.Equal(t, "Višednevni", got.CategoryName)
	assert.Equal(t, cat.Slug, got.CategorySlug)
	assert.Equal(t, 30, got.MaxParticipants)
	assert.True(t, got.Published)

	got.Title = "Sjeverni Velebit"
	got.CategoryID = ""
	require.NoError(t, s.SaveTrip(ctx, &got))

	updated, err := s.GetTripBySlug(ctx, "velebit", true)
	require.NoError(t, err)
	assert.Equal(t, "Sjeverni Velebit", updated.Title)
	assert.Empty(t, updated.CategoryID)
	assert.Equal(t, trip.CreatedAt, updated.CreatedAt)
	assert.NotEqual(t, trip.UpdatedAt, updated.UpdatedAt)
}

func TestTripDraftsHiddenFromPublicQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	draft := Trip{Title: "Skica", Slug: "skica", Date: "2025-07-01", Difficulty: DifficultyEasy}
	require.NoError(t, s.SaveTrip(ctx, &draft))

	_, err := s.GetTripBySlug(ctx, "skica", true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetTripBySlug(ctx, "skica", false)
	assert.NoError(t, err)

	trips, err := s.ListTrips(ctx, TripFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, trips)

	require.NoError(t, s.SetTripPublished(ctx, draft.ID, true))
	trips, err = s.ListTrips(ctx, TripFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, trips, 1)
}

func TestListTripsOrderingAndFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	hike := mustCategory(t, s, "Pohodi", CategoryTrip)

	for _, tr := range []Trip{
		{Title: "A", Slug: "a", Date: "2025-03-01", Published: true, CategoryID: hike.ID},
		{Title: "B", Slug: "b", Date: "2025-09-01", Published: true},
		{Title: "C", Slug: "c", Date: "2025-06-01", Published: true, CategoryID: hike.ID},
	} {
		tr.Difficulty = DifficultyEasy
		require.NoError(t, s.SaveTrip(ctx, &tr))
	}

	all, err := s.ListTrips(ctx, TripFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{all[0].Slug, all[1].Slug, all[2].Slug})

	upcoming, err := s.ListTrips(ctx, TripFilter{FromDate: "2025-05-01", Limit: 1})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "c", upcoming[0].Slug)

	byCat, err := s.ListTrips(ctx, TripFilter{CategorySlug: "pohodi"})
	require.NoError(t, err)
	assert.Len(t, byCat, 2)
}

func TestSaveTripRejectsBlogCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	blogCat := mustCategory(t, s, "Novosti", CategoryBlog)

	trip := Trip{Title: "X", Slug: "x", Date: "2025-01-01", Difficulty: DifficultyEasy, CategoryID: blogCat.ID}
	err := s.SaveTrip(ctx, &trip)
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Empty(t, trip.ID)

	trip.CategoryID = "missing"
	assert.ErrorIs(t, s.SaveTrip(ctx, &trip), ErrInvalidCategory)
}

func TestDuplicateSlugIsConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := Trip{Title: "Učka", Slug: "ucka", Date: "2025-01-01", Difficulty: DifficultyEasy}
	require.NoError(t, s.SaveTrip(ctx, &first))
	second := Trip{Title: "Učka 2", Slug: "ucka", Date: "2025-02-01", Difficulty: DifficultyEasy}
	err := s.SaveTrip(ctx, &second)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, second.ID)

	p1 := BlogPost{Title: "Post", Slug: "post", Content: "<p>x</p>"}
	require.NoError(t, s.SavePost(ctx, &p1))
	p2 := BlogPost{Title: "Post", Slug: "post", Content: "<p>y</p>"}
	assert.ErrorIs(t, s.SavePost(ctx, &p2), ErrConflict)
}

func TestDeleteTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trip := Trip{Title: "Kalnik", Slug: "kalnik", Date: "2025-01-01", Difficulty: DifficultyEasy}
	require.NoError(t, s.SaveTrip(ctx, &trip))
	require.NoError(t, s.DeleteTrip(ctx, trip.ID))

	_, err := s.GetTrip(ctx, trip.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteTrip(ctx, trip.ID), ErrNotFound)
}

func TestSaveAndGetPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "ana@example.com", true)
	cat := mustCategory(t, s, "Putopisi", CategoryBlog)

	post := BlogPost{
		Title:      "Zimski uspon",
		Slug:       "zimski-uspon",
		Content:    "<p>Bilo je hladno.</p>",
		Excerpt:    "Bilo je hladno.",
		CategoryID: cat.ID,
		StartDate:  "2025-01-10",
		EndDate:    "2025-01-12",
		AuthorID:   author.ID,
	}
	require.NoError(t, s.SavePost(ctx, &post))

	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.AuthorEmail)
	assert.Equal(t, "Putopisi", got.CategoryName)
	assert.False(t, got.Published)

	_, err = s.GetPostBySlug(ctx, "zimski-uspon", true)
	assert.ErrorIs(t, err, ErrNotFound)

	// The author is kept when another admin edits the post.
	got.AuthorID = ""
	got.Published = true
	require.NoError(t, s.SavePost(ctx, &got))
	pub, err := s.GetPostBySlug(ctx, "zimski-uspon", true)
	require.NoError(t, err)
	assert.Equal(t, author.ID, pub.AuthorID)
}

func TestListPostsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, slug := range []string{"prvi", "drugi", "treci"} {
		p := BlogPost{Title: slug, Slug: slug, Content: "<p>x</p>", Published: slug != "drugi"}
		require.NoError(t, s.SavePost(ctx, &p))
	}

	posts, err := s.ListPosts(ctx, PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "treci", posts[0].Slug)

	published, err := s.ListPosts(ctx, PostFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, []string{"treci", "prvi"}, []string{published[0].Slug, published[1].Slug})
}

func TestDeleteCategoryDetachesContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cat := mustCategory(t, s, "Pohodi", CategoryTrip)

	trip := Trip{Title: "Sljeme", Slug: "sljeme", Date: "2025-01-01", Difficulty: DifficultyEasy, CategoryID: cat.ID}
	require.NoError(t, s.SaveTrip(ctx, &trip))
	require.NoError(t, s.DeleteCategory(ctx, cat.ID))

	got, err := s.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CategoryID)
	assert.Empty(t, got.CategoryName)
}

func TestCategoryTypeChangeBlockedWhileInUse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cat := mustCategory(t, s, "Pohodi", CategoryTrip)

	// Unused categories may switch type.
	cat.Type = CategoryBlog
	require.NoError(t, s.SaveCategory(ctx, &cat))
	cat.Type = CategoryTrip
	require.NoError(t, s.SaveCategory(ctx, &cat))

	trip := Trip{Title: "Klek", Slug: "klek", Date: "2025-01-01", Difficulty: DifficultyEasy, CategoryID: cat.ID}
	require.NoError(t, s.SaveTrip(ctx, &trip))

	cat.Type = CategoryBlog
	assert.ErrorIs(t, s.SaveCategory(ctx, &cat), ErrInvalidCategory)

	// The same slug may exist once per type.
	mustCategory(t, s, "Pohodi", CategoryBlog)
	dup := Category{Name: "Pohodi", Slug: "pohodi", Type: CategoryTrip}
	assert.ErrorIs(t, s.SaveCategory(ctx, &dup), ErrConflict)

	cats, err := s.ListCategories(ctx, CategoryTrip)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestSingleActiveFeaturedTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ActiveFeaturedTrip(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first := FeaturedTrip{Title: "Triglav", IsActive: true}
	require.NoError(t, s.SaveFeaturedTrip(ctx, &first))
	second := FeaturedTrip{Title: "Durmitor", IsActive: true}
	require.NoError(t, s.SaveFeaturedTrip(ctx, &second))

	active, err := s.ActiveFeaturedTrip(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	got, err := s.GetFeaturedTrip(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, s.SetFeaturedTripActive(ctx, first.ID, true))
	active, err = s.ActiveFeaturedTrip(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	all, err := s.ListFeaturedTrips(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.False(t, all[1].IsActive)

	require.NoError(t, s.SetFeaturedTripActive(ctx, first.ID, false))
	_, err = s.ActiveFeaturedTrip(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteFeaturedTrip(ctx, second.ID))
	assert.ErrorIs(t, s.SetFeaturedTripActive(ctx, second.ID, true), ErrNotFound)
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "  Ana@Example.COM ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Empty(t, u.Roles)

	_, err = s.CreateUser(ctx, "ana@example.com", "hash")
	assert.ErrorIs(t, err, ErrConflict)

	got, err := s.GetUserByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminRoleOperations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := mustUser(t, s, "admin@example.com", true)
	member := mustUser(t, s, "member@example.com", false)

	// Members cannot grant roles.
	assert.ErrorIs(t, s.AssignAdminRole(ctx, member.ID, member.ID), ErrForbidden)

	require.NoError(t, s.AssignAdminRole(ctx, admin.ID, member.ID))
	ok, err := s.HasRole(ctx, member.ID, RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	// Granting twice is harmless.
	require.NoError(t, s.AssignAdminRole(ctx, admin.ID, member.ID))
	n, err := s.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Nobody removes their own role.
	assert.ErrorIs(t, s.RemoveAdminRole(ctx, admin.ID, admin.ID), ErrForbidden)

	require.NoError(t, s.RemoveAdminRole(ctx, admin.ID, member.ID))
	ok, err = s.HasRole(ctx, member.ID, RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	// A demoted user lost the right to change roles.
	assert.ErrorIs(t, s.RemoveAdminRole(ctx, member.ID, admin.ID), ErrForbidden)

	assert.ErrorIs(t, s.AssignAdminRole(ctx, admin.ID, "missing"), ErrNotFound)
}

func TestRevokeLastAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := mustUser(t, s, "admin@example.com", true)

	assert.ErrorIs(t, s.RevokeRole(ctx, admin.ID, RoleAdmin), ErrLastAdmin)

	other := mustUser(t, s, "other@example.com", true)
	require.NoError(t, s.RevokeRole(ctx, admin.ID, RoleAdmin))
	assert.ErrorIs(t, s.RevokeRole(ctx, other.ID, RoleAdmin), ErrLastAdmin)
}

func TestListUsersIncludesRoles(t *testing.T) {
	s := newTestStore(t)
	mustUser(t, s, "admin@example.com", true)
	mustUser(t, s, "member@example.com", false)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	roles := map[string]bool{}
	for _, u := range users {
		roles[u.Email] = u.IsAdmin()
	}
	assert.Equal(t, map[string]bool{"admin@example.com": true, "member@example.com": false}, roles)
}

func TestImages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	img := Image{Bucket: BucketTrips, Filename: "velebit.jpg", OriginalName: "Velebit.PNG", Width: 800, Height: 600, Size: 1234, UploadedAt: "2025-05-01T08:00:00Z"}
	require.NoError(t, s.SaveImage(ctx, img))
	assert.ErrorIs(t, s.SaveImage(ctx, img), ErrConflict)

	// Same name in another bucket is a different image.
	img.Bucket = BucketBlog
	require.NoError(t, s.SaveImage(ctx, img))

	ok, err := s.ImageExists(ctx, BucketTrips, "velebit.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	trips, err := s.ListImages(ctx, BucketTrips)
	require.NoError(t, err)
	assert.Len(t, trips, 1)
	all, err := s.ListImages(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteImage(ctx, BucketTrips, "velebit.jpg"))
	assert.ErrorIs(t, s.DeleteImage(ctx, BucketTrips, "velebit.jpg"), ErrNotFound)
}

func TestContactMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := ContactMessage{Name: "Ivo", Email: "ivo@example.com", Message: "Ima li mjesta?"}
	require.NoError(t, s.SaveContactMessage(ctx, &m))
	require.NotEmpty(t, m.ID)

	n, err := s.CountUnreadMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.MarkContactMessageRead(ctx, m.ID))
	n, err = s.CountUnreadMessages(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	msgs, err := s.ListContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Read)

	require.NoError(t, s.DeleteContactMessage(ctx, m.ID))
	assert.ErrorIs(t, s.DeleteContactMessage(ctx, m.ID), ErrNotFound)
}
