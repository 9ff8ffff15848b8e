package repository

import (
	"context"
	"errors"
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

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.NewString(), Username: name, Email: name + "@example.com", PasswordHash: "h"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func TestFollowCreateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	a, b := createUser(t, db, "a"), createUser(t, db, "b")
	repo := NewFollowRepository(db)

	created, err := repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err := repo.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")
}

func TestFollowAndFanRollBackTogether(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	a, b := createUser(t, db, "a"), createUser(t, db, "b")
	follows, fans := NewFollowRepository(db), NewFanRepository(db)

	boom := errors.New("boom")
	err := NewTxManager(db).InTx(ctx, func(tx *gorm.DB) error {
		if _, err := follows.WithTx(tx).Create(ctx, a.ID, b.ID); err != nil {
			return err
		}
		if err := fans.WithTx(tx).Create(ctx, b.ID, a.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ids, err := fans.FanIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUserCreateDuplicate(t *testing.T) {
	db := setupDB(t)
	createUser(t, db, "dup")
	err := NewUserRepository(db).Create(context.Background(),
		&model.User{ID: uuid.NewString(), Username: "dup", Email: "other@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUserGetMissing(t *testing.T) {
	db := setupDB(t)
	_, err := NewUserRepository(db).GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTagGetOrCreate(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository(db)

	t1, err := repo.GetOrCreate(ctx, "Go Lang")
	require.NoError(t, err)
	assert.Equal(t, "go-lang", t1.Slug)

	again, err := repo.GetOrCreate(ctx, "Go Lang")
	require.NoError(t, err)
	assert.Equal(t, t1.ID, again.ID)

	// different name, same derived slug
	t2, err := repo.GetOrCreate(ctx, "go lang")
	require.NoError(t, err)
	assert.NotEqual(t, t1.ID, t2.ID)
	assert.NotEqual(t, t1.Slug, t2.Slug)
	assert.Contains(t, t2.Slug, "go-lang-")

	t3, err := repo.GetOrCreate(ctx, "!!!")
	require.NoError(t, err)
	assert.NotEmpty(t, t3.Slug)

	got, err := repo.GetBySlug(ctx, "go-lang")
	require.NoError(t, err)
	assert.Equal(t, "Go Lang", got.Name)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTagSlugFitsColumn(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository(db)

	name := strings.Repeat("中", 64)
	first, err := repo.GetOrCreate(ctx, name)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(first.Slug), slugLimit)
	assert.False(t, strings.HasSuffix(first.Slug, "-"))

	// same transliteration, so the second one needs the digest suffix
	second, err := repo.GetOrCreate(ctx, strings.Repeat("中", 63)+"钟")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(second.Slug), slugLimit)
	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestTagGetOrCreateRetriesTakenSlug(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewTagRepository(db)

	// another writer claims the slug between freeSlug and the insert
	var stolen bool
	err := db.Callback().Create().Before("gorm:create").Register("test:take_slug", func(tx *gorm.DB) {
		tag, ok := tx.Statement.Dest.(*model.Tag)
		if !ok || stolen {
			return
		}
		stolen = true
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO tags (id, name, slug, created_at) VALUES (?, ?, ?, ?)",
			uuid.NewString(), "other", tag.Slug, time.Now().UTC())
		require.NoError(t, err)
	})
	require.NoError(t, err)

	got, err := repo.GetOrCreate(ctx, "rust")
	require.NoError(t, err)
	assert.True(t, stolen)
	assert.Equal(t, "rust", got.Name)
	assert.True(t, strings.HasPrefix(got.Slug, "rust-"), got.Slug)

	other, err := repo.GetBySlug(ctx, "rust")
	require.NoError(t, err)
	assert.Equal(t, "other", other.Name)
}

func TestPostLifecycleAndCascade(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	author, reader := createUser(t, db, "author"), createUser(t, db, "reader")
	tags := NewTagRepository(db)
	posts := NewPostRepository(db)

	goTag, err := tags.GetOrCreate(ctx, "go")
	require.NoError(t, err)
	dbTag, err := tags.GetOrCreate(ctx, "db")
	require.NoError(t, err)

	p := &model.Post{ID: uuid.NewString(), AuthorID: author.ID, Title: "t", Content: "c", Tags: []model.Tag{*goTag, *dbTag}}
	require.NoError(t, posts.Create(ctx, p))

	got, err := posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 2)

	got.Title = "t2"
	got.Tags = []model.Tag{*goTag}
	require.NoError(t, posts.Update(ctx, got, true))
	got, err = posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "go", got.Tags[0].Name)

	require.NoError(t, NewCommentRepository(db).Create(ctx, &model.Comment{ID: uuid.NewString(), PostID: p.ID, AuthorID: reader.ID, Content: "hi"}))
	_, err = NewLikeRepository(db).Create(ctx, p.ID, reader.ID)
	require.NoError(t, err)

	comments, err := posts.CommentCounts(ctx, []string{p.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), comments[p.ID])
	likes, err := posts.LikeCounts(ctx, []string{p.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes[p.ID])

	counts, err := tags.ListWithCounts(ctx)
	require.NoError(t, err)
	byName := map[string]int64{}
	for _, c := range counts {
		byName[c.Name] = c.PostCount
	}
	assert.Equal(t, map[string]int64{"db": 0, "go": 1}, byName)

	require.NoError(t, NewTxManager(db).InTx(ctx, func(tx *gorm.DB) error {
		return posts.WithTx(tx).Delete(ctx, p.ID)
	}))
	_, err = posts.Get(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var left int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&left).Error)
	assert.Zero(t, left)
	require.NoError(t, db.Table("post_tags").Count(&left).Error)
	assert.Zero(t, left)

	assert.ErrorIs(t, posts.Delete(ctx, p.ID), apperr.ErrNotFound)
}

func TestLikeCreateDelete(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewLikeRepository(db)

	created, err := repo.Create(ctx, "p", "u")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.Create(ctx, "p", "u")
	require.NoError(t, err)
	assert.False(t, created)

	removed, err := repo.Delete(ctx, "p", "u")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Delete(ctx, "p", "u")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestNotifications(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Notification{
			ID: uuid.NewString(), RecipientID: "r", ActorID: "a", Verb: model.VerbFollowed,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, &model.Notification{ID: "other", RecipientID: "x", ActorID: "a", Verb: model.VerbFollowed}))

	items, total, err := repo.List(ctx, "r", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.True(t, items[0].CreatedAt.After(items[2].CreatedAt))

	_, err = repo.Get(ctx, "r", "other")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, repo.MarkRead(ctx, "r", "other"), apperr.ErrNotFound)

	require.NoError(t, repo.MarkRead(ctx, "r", items[0].ID))
	unread, err := repo.UnreadCount(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	n, err := repo.MarkAllRead(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	purged, err := repo.PurgeRead(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)
}

func TestBooksQueryAndWriterCascade(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	writers, books := NewWriterRepository(db), NewBookRepository(db)

	w := &model.Writer{ID: uuid.NewString(), Name: "Le Guin"}
	require.NoError(t, writers.Create(ctx, w))
	for i, title := range []string{"The Dispossessed", "A Wizard of Earthsea", "The Lathe of Heaven"} {
		require.NoError(t, books.Create(ctx, &model.Book{ID: uuid.NewString(), Title: title, PublicationYear: 1968 + i, WriterID: w.ID}))
	}

	term := "the"
	spec, err := query.Build(query.Books, query.Params{Search: &term, AuthorID: &w.ID})
	require.NoError(t, err)
	page, err := books.Query(ctx, spec)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "The Dispossessed", page.Items[0].Title)

	got, err := writers.Get(ctx, w.ID, true)
	require.NoError(t, err)
	assert.Len(t, got.Books, 3)

	require.NoError(t, writers.Delete(ctx, w.ID))
	var n int64
	require.NoError(t, db.Model(&model.Book{}).Count(&n).Error)
	assert.Zero(t, n)
}
