package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tayar/internal/model"
	"github.com/d60-Lab/tayar/internal/testutil"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.NewDB(t))
}

func seedSource(t *testing.T, s *Store) *model.Source {
	t.Helper()
	src, err := s.Sources.GetOrCreate(context.Background(), "ExampleBlog", nil)
	require.NoError(t, err)
	return src
}

func seedArticle(t *testing.T, s *Store, sourceID uint, title, body string, publishedAt time.Time) *model.Article {
	t.Helper()
	a := &model.Article{
		Title:       title,
		Description: title + " description",
		Content:     body,
		ImageURL:    "https://img.example.com/x.png",
		SourceID:    sourceID,
		URL:         fmt.Sprintf("https://example.com/%d/%s", publishedAt.Unix(), title),
		PublishedAt: publishedAt,
		ReadTime:    1,
	}
	require.NoError(t, s.Articles.Create(context.Background(), a))
	return a
}

func TestBookmarkIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	src := seedSource(t, s)
	a1 := seedArticle(t, s, src.ID, "one", "body", base)
	a2 := seedArticle(t, s, src.ID, "two", "body", base.Add(time.Hour))

	first, err := s.Bookmarks.Create(ctx, 1, a1.ID, base)
	require.NoError(t, err)
	second, err := s.Bookmarks.Create(ctx, 1, a1.ID, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	list, err := s.Bookmarks.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// 删除从未收藏过的文章
	removed, err := s.Bookmarks.Delete(ctx, 1, a2.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err := s.Bookmarks.Exists(ctx, 1, a1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err = s.Bookmarks.Delete(ctx, 1, a1.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	ok, err = s.Bookmarks.Exists(ctx, 1, a1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReactionIdempotentAndSummary(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	src := seedSource(t, s)
	a := seedArticle(t, s, src.ID, "x", "body", base)

	r1, err := s.Reactions.Create(ctx, 1, a.ID, model.ReactionLike)
	require.NoError(t, err)
	r2, err := s.Reactions.Create(ctx, 1, a.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, r1.ID, r2.ID)

	for uid := uint(2); uid <= 3; uid++ {
		_, err := s.Reactions.Create(ctx, uid, a.ID, model.ReactionLike)
		require.NoError(t, err)
	}
	// 非 like 类型不计入聚合
	_, err = s.Reactions.Create(ctx, 4, a.ID, "dislike")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Comments.Create(ctx, &model.Comment{UserID: 1, ArticleID: a.ID, Content: "c", CreatedAt: base}))
	}

	sum, err := s.Reactions.Summary(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionSummary{Likes: 3, Comments: 5}, sum)

	removed, err := s.Reactions.Delete(ctx, 9, a.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.False(t, removed)
	removed, err = s.Reactions.Delete(ctx, 1, a.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.True(t, removed)

	sum, err = s.Reactions.Summary(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, sum.Likes)
}

func TestReadingHistoryUpsert(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	src := seedSource(t, s)
	a := seedArticle(t, s, src.ID, "x", "body", base)
	b := seedArticle(t, s, src.ID, "y", "body", base)

	_, err := s.History.Add(ctx, 1, a.ID, base)
	require.NoError(t, err)
	later := base.Add(2 * time.Hour)
	h, err := s.History.Update(ctx, 1, a.ID, later)
	require.NoError(t, err)
	assert.True(t, h.ViewedAt.Equal(later))

	_, err = s.History.Update(ctx, 1, b.ID, base.Add(time.Hour))
	require.NoError(t, err)

	rows, err := s.History.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, a.ID, rows[0].ArticleID)
	assert.True(t, rows[0].ViewedAt.Equal(later))
	assert.Equal(t, b.ID, rows[1].ArticleID)

	require.NoError(t, s.History.Clear(ctx, 1))
	require.NoError(t, s.History.Clear(ctx, 1))
	rows, err = s.History.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestArticleSearchAndPagination(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	src := seedSource(t, s)

	seedArticle(t, s, src.ID, "Intro to Kubernetes", "pods", base.Add(1*time.Hour))
	seedArticle(t, s, src.ID, "Go generics", "we deploy on KUBERNETES clusters", base.Add(2*time.Hour))
	seedArticle(t, s, src.ID, "CSS grid", "layout", base.Add(3*time.Hour))
	seedArticle(t, s, src.ID, "React hooks", "state", base.Add(4*time.Hour))
	seedArticle(t, s, src.ID, "100% coverage", "testing", base.Add(5*time.Hour))

	found, err := s.Articles.List(ctx, ListOptions{Search: "kubernetes"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Go generics", found[0].Title)
	assert.Equal(t, "Intro to Kubernetes", found[1].Title)

	// LIKE 通配符按字面匹配
	found, err = s.Articles.List(ctx, ListOptions{Search: "%"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% coverage", found[0].Title)

	page, err := s.Articles.List(ctx, ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "CSS grid", page[0].Title)
	assert.Equal(t, "Go generics", page[1].Title)

	all, err := s.Articles.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestArticleCreateIfAbsent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	src := seedSource(t, s)
	tag, err := s.Tags.GetOrCreate(ctx, "Go", "#3776AB")
	require.NoError(t, err)

	a := &model.Article{Title: "t", SourceID: src.ID, URL: "https://example.com/a", PublishedAt: base, ReadTime: 1}
	created, err := s.Articles.CreateIfAbsent(ctx, a, []uint{tag.ID})
	require.NoError(t, err)
	require.True(t, created)
	require.NotZero(t, a.ID)

	dup := &model.Article{Title: "t2", SourceID: src.ID, URL: "https://example.com/a", PublishedAt: base, ReadTime: 1}
	created, err = s.Articles.CreateIfAbsent(ctx, dup, []uint{tag.ID})
	require.NoError(t, err)
	assert.False(t, created)

	cnt, err := s.Articles.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	tags, err := s.Tags.ListByArticleID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Go", tags[0].Name)

	ids, err := s.Tags.ListArticleIDsByTagID(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, ids)

	exists, err := s.Articles.ExistsByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTagLookupIsCaseInsensitive(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Tags.GetOrCreate(ctx, "JavaScript", "#F7DF1E")
	require.NoError(t, err)
	again, err := s.Tags.GetOrCreate(ctx, "javascript", "#000000")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "#F7DF1E", again.Color)

	got, err := s.Tags.GetByName(ctx, "JAVASCRIPT")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.Tags.GetByName(ctx, "rust")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]uint, 16)
	errs := make([]error, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src, err := s.Sources.GetOrCreate(ctx, "Dev.to", nil)
			errs[i] = err
			if err == nil {
				ids[i] = src.ID
			}
		}(i)
	}
	wg.Wait()
	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	list, err := s.Sources.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLookupsReturnNotFound(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Articles.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Sources.GetByName(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentsNewestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	src := seedSource(t, s)
	a := seedArticle(t, s, src.ID, "x", "body", base)

	require.NoError(t, s.Comments.Create(ctx, &model.Comment{UserID: 1, ArticleID: a.ID, Content: "old", CreatedAt: base}))
	require.NoError(t, s.Comments.Create(ctx, &model.Comment{UserID: 1, ArticleID: a.ID, Content: "new", CreatedAt: base.Add(time.Hour)}))

	list, err := s.Comments.ListByArticle(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Content)
	assert.Equal(t, "old", list[1].Content)
}
