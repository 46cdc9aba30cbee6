package dao

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/true1ck/blog-editor/internal/blog/editor/edtypes"
	"github.com/true1ck/blog-editor/internal/blog/editor/tiptap"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.Must(uuid.NewV4()))), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return NewGormStore(db)
}

func mustParse(t *testing.T, s string) *edtypes.Document {
	t.Helper()
	doc, err := tiptap.Parse([]byte(s))
	require.NoError(t, err)
	return doc
}

const postJSON = `{"type":"doc","content":[
	{"type":"paragraph","content":[{"type":"text","text":"Hello   world"}]},
	{"type":"image","attrs":{"src":"https://cdn/a.png"}}
]}`

func createPost(t *testing.T, s *GormStore, user uuid.UUID, title string) *Post {
	t.Helper()
	post := &Post{UserID: user, Title: title, Content: *mustParse(t, postJSON)}
	require.NoError(t, s.CreatePost(context.Background(), post))
	return post
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"  Go  1.25 -- release ", "go-1-25-release"},
		{"Привет, мир", "privet-mir"},
		{"Ёжик и йогурт", "yozhik-i-jogurt"},
		{"Café déjà vu", "cafe-deja-vu"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.title), tt.title)
	}

	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "hello-1700000000123", NewSlug("Hello", now))
	assert.Equal(t, "post-1700000000123", NewSlug("!!!", now))
}

func TestCreatePost(t *testing.T) {
	s := newTestStore(t)
	user := GenUUID()
	post := createPost(t, s, user, "First post")

	assert.False(t, post.ID.IsNil())
	assert.Regexp(t, `^first-post-\d+$`, post.Slug)
	assert.Equal(t, StatusDraft, post.Status)
	assert.Equal(t, ContentTipTap, post.ContentType)
	assert.Equal(t, "en", post.Language)
	assert.Equal(t, "Hello world", post.Excerpt)
	require.NotNil(t, post.ThumbnailURL)
	assert.Equal(t, "https://cdn/a.png", *post.ThumbnailURL)

	got, err := s.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Slug, got.Slug)
	assert.Equal(t, string(tiptap.Serialize(&post.Content)), string(tiptap.Serialize(&got.Content)))
}

func TestCreatePostUniqueSlug(t *testing.T) {
	s := newTestStore(t)
	user := GenUUID()
	seen := map[string]bool{}
	for range 5 {
		post := createPost(t, s, user, "Same title")
		assert.False(t, seen[post.Slug], post.Slug)
		seen[post.Slug] = true
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPost(context.Background(), GenUUID())
	assert.ErrorIs(t, err, ErrNotFound)

	post := createPost(t, s, GenUUID(), "Owned")
	_, err = s.GetUserPost(context.Background(), GenUUID(), post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPublishedPostBySlug(t *testing.T) {
	s := newTestStore(t)
	user := GenUUID()
	post := createPost(t, s, user, "Draft")

	_, err := s.GetPublishedPostBySlug(context.Background(), post.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	published := StatusPublished
	_, err = s.UpdatePost(context.Background(), user, post.ID, PostUpdate{Status: &published})
	require.NoError(t, err)

	got, err := s.GetPublishedPostBySlug(context.Background(), post.Slug)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestListPosts(t *testing.T) {
	s := newTestStore(t)
	user := GenUUID()
	for i := range 3 {
		createPost(t, s, user, fmt.Sprintf("Post %d", i))
	}
	createPost(t, s, GenUUID(), "Foreign")

	res, err := s.ListPosts(context.Background(), user, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Count)
	posts := *res.Result.(*[]Post)
	assert.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, user, p.UserID)
		assert.Empty(t, p.Content.Content)
		assert.NotEmpty(t, p.Excerpt)
	}
}

func TestUpdatePost(t *testing.T) {
	s := newTestStore(t)
	user := GenUUID()
	post := createPost(t, s, user, "Old title")

	title := "New title"
	doc := mustParse(t, `{"type":"doc","content":[{"type":"heading","attrs":{"level":1},"content":[{"type":"text","text":"Changed"}]}]}`)
	updated, err := s.UpdatePost(context.Background(), user, post.ID, PostUpdate{Title: &title, Content: doc})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Regexp(t, `^new-title-\d+$`, updated.Slug)
	assert.Equal(t, "Changed", updated.Excerpt)
	assert.Nil(t, updated.ThumbnailURL)

	_, err = s.UpdatePost(context.Background(), GenUUID(), post.ID, PostUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCorruptDocument(t *testing.T) {
	s := newTestStore(t)
	user := GenUUID()
	post := createPost(t, s, user, "Broken")
	require.NoError(t, s.db.Exec("UPDATE posts SET content_json = ? WHERE id = ?", "[1,2]", post.ID).Error)

	var perr *tiptap.ParseError
	_, err := s.GetUserPost(context.Background(), user, post.ID)
	assert.ErrorAs(t, err, &perr)

	meta, err := s.GetUserPostMeta(context.Background(), user, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Broken", meta.Title)
	assert.Equal(t, post.Slug, meta.Slug)

	title := "Renamed"
	_, err = s.UpdatePost(context.Background(), user, post.ID, PostUpdate{Title: &title})
	assert.ErrorAs(t, err, &perr)

	doc := mustParse(t, `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Fixed"}]}]}`)
	updated, err := s.UpdatePost(context.Background(), user, post.ID, PostUpdate{Title: &title, Content: doc})
	require.NoError(t, err)
	assert.Equal(t, "Fixed", updated.Excerpt)

	got, err := s.GetUserPost(context.Background(), user, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "Fixed", got.Content.Excerpt(100))
}

func TestDeletePost(t *testing.T) {
	s := newTestStore(t)
	user := GenUUID()
	post := createPost(t, s, user, "To delete")

	assert.ErrorIs(t, s.DeletePost(context.Background(), GenUUID(), post.ID), ErrNotFound)
	require.NoError(t, s.DeletePost(context.Background(), user, post.ID))
	assert.ErrorIs(t, s.DeletePost(context.Background(), user, post.ID), ErrNotFound)
}

func TestDocumentStore(t *testing.T) {
	s := newTestStore(t)
	var store DocumentStore = s
	post := createPost(t, s, GenUUID(), "Doc")

	err := store.StoreDocumentJSON(context.Background(), post.ID, []byte(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"stored"}]}]}`))
	require.NoError(t, err)

	data, err := store.FetchDocumentJSON(context.Background(), post.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doc","content":[{"type":"paragraph","attrs":{"textAlign":"left"},"content":[{"type":"text","text":"stored"}]}]}`, string(data))

	got, err := s.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "stored", got.Excerpt)
	assert.Nil(t, got.ThumbnailURL)

	var perr *tiptap.ParseError
	err = store.StoreDocumentJSON(context.Background(), post.ID, []byte(`{"content":[]}`))
	assert.True(t, errors.As(err, &perr))

	_, err = store.FetchDocumentJSON(context.Background(), GenUUID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.StoreDocumentJSON(context.Background(), GenUUID(), []byte(`{"type":"doc"}`)), ErrNotFound)
}
