package query_test

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/apperr"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/pkg/database"
)

type fixture struct {
	t    *testing.T
	db   *gorm.DB
	tags map[string]model.Tag
	now  time.Time
}

func newFixture(t *testing.T) *fixture {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	return &fixture{t: t, db: db, tags: map[string]model.Tag{}, now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fixture) user(name string) string {
	u := model.User{ID: uuid.NewString(), Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u.ID
}

func (f *fixture) tag(name string) model.Tag {
	if tg, ok := f.tags[name]; ok {
		return tg
	}
	tg := model.Tag{ID: uuid.NewString(), Name: name, Slug: strings.ToLower(name)}
	require.NoError(f.t, f.db.Create(&tg).Error)
	f.tags[name] = tg
	return tg
}

func (f *fixture) post(author, title, content string, tags ...string) model.Post {
	f.now = f.now.Add(time.Minute)
	p := model.Post{ID: uuid.NewString(), AuthorID: author, Title: title, Content: content, CreatedAt: f.now, UpdatedAt: f.now}
	for _, name := range tags {
		p.Tags = append(p.Tags, f.tag(name))
	}
	require.NoError(f.t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) follow(follower, followee string) {
	require.NoError(f.t, f.db.Create(&model.Follow{ID: uuid.NewString(), FollowerID: follower, FolloweeID: followee}).Error)
}

func (f *fixture) run(p query.Params) *query.Page[model.Post] {
	spec, err := query.Build(query.Posts, p)
	require.NoError(f.t, err)
	page, err := query.Materialize[model.Post](context.Background(), f.db, spec, "Tags")
	require.NoError(f.t, err)
	return page
}

func ids(posts []model.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	sort.Strings(out)
	return out
}

func sorted(vals ...string) []string {
	sort.Strings(vals)
	return vals
}

func strp(s string) *string { return &s }

func TestSearchMatchesTitleAndTags(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	p1 := f.post(a, "Django Basics", "models and views", "python", "django")
	f.post(a, "Rust Intro", "ownership", "rust")
	p3 := f.post(a, "Python Tips", "list comprehensions", "python")

	page := f.run(query.Params{Search: strp("python")})
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, sorted(p1.ID, p3.ID), ids(page.Items))
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	byTitle := f.post(a, "GoLang generics", "")
	byContent := f.post(a, "Notes", "we use GOLANG daily")
	byTag := f.post(a, "Misc", "nothing here", "golang-tips")
	f.post(a, "Other", "unrelated")

	page := f.run(query.Params{Search: strp("golang")})
	assert.Equal(t, sorted(byTitle.ID, byContent.ID, byTag.ID), ids(page.Items))
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	hit := f.post(a, "100% coverage", "")
	f.post(a, "100 percent", "")

	page := f.run(query.Params{Search: strp("100%")})
	assert.Equal(t, []string{hit.ID}, ids(page.Items))
}

func TestSearchOnlyWithEmptyTermMatchesNothing(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	f.post(a, "Anything", "content")

	page := f.run(query.Params{SearchOnly: true, Search: strp("   ")})
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Items)

	page = f.run(query.Params{SearchOnly: true})
	assert.Equal(t, int64(0), page.Total)

	// list endpoints treat a missing term as "no filter"
	page = f.run(query.Params{})
	assert.Equal(t, int64(1), page.Total)
}

func TestTagNameIsExactAndCaseSensitive(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	p1 := f.post(a, "One", "", "Go")
	f.post(a, "Two", "", "golang")

	assert.Equal(t, []string{p1.ID}, ids(f.run(query.Params{TagName: strp("Go")}).Items))
	assert.Empty(t, f.run(query.Params{TagName: strp("go")}).Items)
	assert.Empty(t, f.run(query.Params{TagName: strp("missing")}).Items)
}

func TestDistinctCountWithManyMatchingTags(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	// every tag matches the search term, so a plain join would return the post three times
	p := f.post(a, "Python everywhere", "python", "python", "python3", "cpython")

	page := f.run(query.Params{Search: strp("python")})
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, []string{p.ID}, ids(page.Items))
	assert.Len(t, page.Items[0].Tags, 3)
}

func TestCountEqualsDistinctMatchesForCombinedFilters(t *testing.T) {
	f := newFixture(t)
	a, b := f.user("alice"), f.user("bob")
	var want []string
	for i := 0; i < 25; i++ {
		author := a
		if i%3 == 0 {
			author = b
		}
		tags := []string{"common"}
		body := "plain body"
		if i%2 == 0 {
			tags = append(tags, "even", "even-more")
			body = "even body"
		}
		p := f.post(author, fmt.Sprintf("post %02d", i), body, tags...)
		if author == a && i%2 == 0 {
			want = append(want, p.ID)
		}
	}

	var got []string
	for pg := 1; ; pg++ {
		page := f.run(query.Params{Search: strp("even"), AuthorID: &a, TagName: strp("common"), Page: pg, PageSize: 3})
		assert.Equal(t, int64(len(want)), page.Total)
		got = append(got, ids(page.Items)...)
		if !page.HasNext {
			break
		}
	}
	sort.Strings(got)
	assert.Equal(t, sorted(want...), got)
}

func TestFollowedByReturnsOnlyFollowedAuthors(t *testing.T) {
	f := newFixture(t)
	a, b, c, d := f.user("a"), f.user("b"), f.user("c"), f.user("d")
	f.follow(a, b)
	f.follow(a, c)
	f.follow(d, a) // reverse edge must not leak into a's feed
	x := f.post(b, "X", "")
	y := f.post(c, "Y", "")
	f.post(d, "Z", "")
	f.post(a, "own", "")

	page := f.run(query.Params{FollowedBy: &a})
	assert.Equal(t, sorted(x.ID, y.ID), ids(page.Items))
	assert.Equal(t, int64(2), page.Total)
}

func TestOrderingByTitleAcrossPages(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	for i := 0; i < 23; i++ {
		f.post(a, fmt.Sprintf("title-%02d", (i*7)%23), "")
	}
	// duplicate titles exercise the id tie breaker
	f.post(a, "title-05", "")
	f.post(a, "title-05", "")

	p1 := f.run(query.Params{Ordering: "title", Page: 1})
	p2 := f.run(query.Params{Ordering: "title", Page: 2})
	require.Len(t, p1.Items, 10)
	require.Len(t, p2.Items, 10)
	assert.False(t, p1.HasPrevious)
	assert.True(t, p1.HasNext)
	assert.True(t, p2.HasPrevious)

	seen := map[string]bool{}
	var titles []string
	for _, p := range append(p1.Items, p2.Items...) {
		assert.False(t, seen[p.ID], "page overlap on %s", p.ID)
		seen[p.ID] = true
		titles = append(titles, p.Title)
	}
	assert.True(t, sort.StringsAreSorted(titles))

	again := f.run(query.Params{Ordering: "title", Page: 1})
	assert.Equal(t, p1.Items[9].ID, again.Items[9].ID)
}

func TestDefaultOrderingIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	first := f.post(a, "first", "")
	second := f.post(a, "second", "")

	page := f.run(query.Params{})
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.Equal(t, first.ID, page.Items[1].ID)

	page = f.run(query.Params{Ordering: "created_at"})
	assert.Equal(t, first.ID, page.Items[0].ID)
}

func TestPageBeyondLastIsEmpty(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	f.post(a, "only", "")

	page := f.run(query.Params{Page: 5})
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(1), page.Total)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)
}

func TestHugePageDoesNotWrapAround(t *testing.T) {
	f := newFixture(t)
	a := f.user("alice")
	f.post(a, "only", "")

	page, size, err := query.ParsePaging("922337203685477582", "10")
	require.NoError(t, err)
	got := f.run(query.Params{Page: page, PageSize: size})
	assert.Empty(t, got.Items)
	assert.Equal(t, int64(1), got.Total)
	assert.False(t, got.HasNext)
	assert.True(t, got.HasPrevious)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, query.Offset(1, 10))
	assert.Equal(t, 20, query.Offset(3, 10))
	assert.Equal(t, 0, query.Offset(0, 10))
	huge := query.Offset(math.MaxInt/2, 10)
	assert.Positive(t, huge)
	assert.Equal(t, huge, query.Offset(math.MaxInt, 100))
}

func TestBookOrderingDescending(t *testing.T) {
	f := newFixture(t)
	w := model.Writer{ID: uuid.NewString(), Name: "Octavia Butler"}
	require.NoError(t, f.db.Create(&w).Error)
	for _, b := range []model.Book{
		{ID: uuid.NewString(), Title: "Kindred", PublicationYear: 1979, WriterID: w.ID},
		{ID: uuid.NewString(), Title: "Parable of the Sower", PublicationYear: 1993, WriterID: w.ID},
		{ID: uuid.NewString(), Title: "Dawn", PublicationYear: 1987, WriterID: w.ID},
	} {
		require.NoError(t, f.db.Create(&b).Error)
	}

	spec, err := query.Build(query.Books, query.Params{Ordering: "-publication_year"})
	require.NoError(t, err)
	page, err := query.Materialize[model.Book](context.Background(), f.db, spec)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	var years []int
	for _, b := range page.Items {
		years = append(years, b.PublicationYear)
	}
	assert.Equal(t, []int{1993, 1987, 1979}, years)
}

func TestInvalidOrderingIsRejected(t *testing.T) {
	_, err := query.Build(query.Posts, query.Params{Ordering: "nonexistent_field"})
	assert.ErrorIs(t, err, apperr.ErrInvalidQueryParameter)

	_, err = query.Build(query.Posts, query.Params{Ordering: "-updated_at"})
	assert.NoError(t, err)
}

func TestUnsupportedFilterForSchema(t *testing.T) {
	_, err := query.Build(query.Books, query.Params{TagName: strp("x")})
	assert.ErrorIs(t, err, apperr.ErrInvalidQueryParameter)
	_, err = query.Build(query.Books, query.Params{FollowedBy: strp("u")})
	assert.ErrorIs(t, err, apperr.ErrInvalidQueryParameter)
}

func TestParsePaging(t *testing.T) {
	page, size, err := query.ParsePaging("", "")
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, query.DefaultPageSize, size)

	page, size, err = query.ParsePaging("3", "25")
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, size)

	for _, bad := range [][2]string{{"abc", ""}, {"0", ""}, {"", "-1"}, {"", "1000"}} {
		_, _, err = query.ParsePaging(bad[0], bad[1])
		assert.ErrorIs(t, err, apperr.ErrInvalidQueryParameter, "%v", bad)
	}
}
