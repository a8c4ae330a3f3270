package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tayar/internal/model"
	"github.com/d60-Lab/tayar/internal/repository"
	"github.com/d60-Lab/tayar/internal/testutil"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store      *repository.Store
	enricher   *Enricher
	articles   *articleService
	engagement *engagementService
	source     *model.Source
	user       *model.User
	clock      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewStore(testutil.NewDB(t))
	enricher := NewEnricher(store)
	f := &fixture{store: store, enricher: enricher, clock: base}
	now := func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	f.articles = &articleService{store: store, enricher: enricher, now: now}
	f.engagement = &engagementService{store: store, enricher: enricher, now: now}

	ctx := context.Background()
	src, err := store.Sources.GetOrCreate(ctx, "Go Blog", nil)
	require.NoError(t, err)
	f.source = src
	u := &model.User{Username: "reader", Password: "x", Email: "reader@example.com"}
	require.NoError(t, store.Users.Create(ctx, u))
	f.user = u
	return f
}

func (f *fixture) article(t *testing.T, n int, tags ...string) *model.ArticleWithRelations {
	t.Helper()
	published := base.Add(time.Duration(n) * time.Hour)
	a, err := f.articles.Create(context.Background(), CreateArticleInput{
		Title:       fmt.Sprintf("Article %d", n),
		Description: "desc",
		Content:     "<p>hello world</p>",
		ImageURL:    "https://img.example.com/a.png",
		SourceID:    f.source.ID,
		URL:         fmt.Sprintf("https://example.com/a/%d", n),
		PublishedAt: &published,
		Tags:        tags,
	})
	require.NoError(t, err)
	return a
}

func TestEnrichWithoutViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, 1, "go", "backend")

	for _, typ := range []string{"like", "like", "dislike"} {
		// 第二个 like 是同一用户的重复操作
		_, err := f.store.Reactions.Create(ctx, f.user.ID, a.ID, typ)
		require.NoError(t, err)
	}
	require.NoError(t, f.store.Comments.Create(ctx, &model.Comment{UserID: f.user.ID, ArticleID: a.ID, Content: "nice", CreatedAt: base}))

	got, err := f.enricher.Enrich(ctx, &a.Article, nil)
	require.NoError(t, err)
	assert.Equal(t, "Go Blog", got.Source.Name)
	assert.Len(t, got.Tags, 2)
	assert.Equal(t, int64(1), got.Reactions.Likes)
	assert.Equal(t, int64(1), got.Reactions.Comments)
	assert.False(t, got.Bookmarked)
}

func TestEnrichBookmarkedForViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, 1)
	_, err := f.engagement.AddBookmark(ctx, f.user.ID, a.ID)
	require.NoError(t, err)

	got, err := f.enricher.Enrich(ctx, &a.Article, &f.user.ID)
	require.NoError(t, err)
	assert.True(t, got.Bookmarked)

	other := uint(999)
	got, err = f.enricher.Enrich(ctx, &a.Article, &other)
	require.NoError(t, err)
	assert.False(t, got.Bookmarked)
	assert.NotNil(t, got.Tags)
}

func TestEnrichMissingSourceFails(t *testing.T) {
	f := newFixture(t)
	orphan := &model.Article{ID: 42, SourceID: 777}
	_, err := f.enricher.Enrich(context.Background(), orphan, nil)
	require.Error(t, err)
}

func TestGetRecordsViewOnlyWithViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, 1)

	_, err := f.articles.Get(ctx, a.ID, nil)
	require.NoError(t, err)
	hist, err := f.store.History.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, hist)

	_, err = f.articles.Get(ctx, a.ID, &f.user.ID)
	require.NoError(t, err)
	_, err = f.articles.Get(ctx, a.ID, &f.user.ID)
	require.NoError(t, err)
	hist, err = f.store.History.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)

	_, err = f.articles.Get(ctx, 9999, &f.user.ID)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestListByTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.article(t, 1, "go")
	f.article(t, 2, "rust")
	f.article(t, 3, "Go")

	got, err := f.articles.ListByTag(ctx, "GO", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// 新发布的排前面
	assert.Equal(t, "Article 3", got[0].Title)
	assert.Equal(t, "Article 1", got[1].Title)

	got, err = f.articles.ListByTag(ctx, "missing", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreateArticle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.article(t, 1, "Go", "go", " ", "web")
	assert.Len(t, a.Tags, 2)
	assert.Equal(t, 1, a.ReadTime)

	_, err := f.articles.Create(ctx, CreateArticleInput{
		Title: "dup", Content: "x", ImageURL: "i", SourceID: f.source.ID, URL: "https://example.com/a/1",
	})
	assert.ErrorIs(t, err, ErrDuplicateURL)

	_, err = f.articles.Create(ctx, CreateArticleInput{
		Title: "orphan", Content: "x", ImageURL: "i", SourceID: 12345, URL: "https://example.com/orphan",
	})
	assert.ErrorIs(t, err, ErrSourceNotFound)

	n, err := f.store.Articles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBookmarks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a1 := f.article(t, 1)
	a2 := f.article(t, 2)

	_, err := f.engagement.AddBookmark(ctx, f.user.ID, a2.ID)
	require.NoError(t, err)
	_, err = f.engagement.AddBookmark(ctx, f.user.ID, a1.ID)
	require.NoError(t, err)
	_, err = f.engagement.AddBookmark(ctx, f.user.ID, a1.ID)
	require.NoError(t, err)

	list, err := f.engagement.ListBookmarks(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// 最近收藏的在前
	assert.Equal(t, a1.ID, list[0].ID)
	assert.True(t, list[0].Bookmarked)

	require.NoError(t, f.engagement.RemoveBookmark(ctx, f.user.ID, a1.ID))
	assert.ErrorIs(t, f.engagement.RemoveBookmark(ctx, f.user.ID, a1.ID), ErrBookmarkNotFound)

	_, err = f.engagement.AddBookmark(ctx, f.user.ID, 9999)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a1 := f.article(t, 1)
	a2 := f.article(t, 2)

	_, err := f.engagement.RecordView(ctx, f.user.ID, a1.ID, nil)
	require.NoError(t, err)
	_, err = f.engagement.RecordView(ctx, f.user.ID, a2.ID, nil)
	require.NoError(t, err)
	// 再看一次 a1，应移到最前
	_, err = f.engagement.RecordView(ctx, f.user.ID, a1.ID, nil)
	require.NoError(t, err)

	list, err := f.engagement.ListHistory(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a1.ID, list[0].ID)
	assert.Equal(t, a2.ID, list[1].ID)

	require.NoError(t, f.engagement.ClearHistory(ctx, f.user.ID))
	list, err = f.engagement.ListHistory(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReactionsAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, 1)

	_, err := f.engagement.AddReaction(ctx, f.user.ID, a.ID, model.ReactionLike)
	require.NoError(t, err)
	sum, err := f.engagement.ReactionSummary(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.Likes)

	require.NoError(t, f.engagement.RemoveReaction(ctx, f.user.ID, a.ID, model.ReactionLike))
	assert.ErrorIs(t, f.engagement.RemoveReaction(ctx, f.user.ID, a.ID, model.ReactionLike), ErrReactionNotFound)

	_, err = f.engagement.AddComment(ctx, f.user.ID, a.ID, "first", nil)
	require.NoError(t, err)
	_, err = f.engagement.AddComment(ctx, f.user.ID, a.ID, "second", nil)
	require.NoError(t, err)
	_, err = f.engagement.AddComment(ctx, 4242, a.ID, "ghost", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)

	comments, err := f.engagement.ListComments(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "reader", comments[0].User.Username)
}
