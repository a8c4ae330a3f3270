package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/d60-Lab/tayar/internal/model"
	"github.com/d60-Lab/tayar/internal/repository"
	"github.com/d60-Lab/tayar/pkg/htmltext"
)

// CreateArticleInput 直接发布文章（不经过订阅源）
type CreateArticleInput struct {
	Title       string
	Description string
	Content     string
	ImageURL    string
	SourceID    uint
	URL         string
	ReadTime    int
	PublishedAt *time.Time
	Tags        []string
}

type ArticleService interface {
	List(ctx context.Context, opts repository.ListOptions, viewerID *uint) ([]*model.ArticleWithRelations, error)
	// Get 带 viewerID 时顺带记录一次浏览
	Get(ctx context.Context, id uint, viewerID *uint) (*model.ArticleWithRelations, error)
	ListByTag(ctx context.Context, tagName string, viewerID *uint) ([]*model.ArticleWithRelations, error)
	Create(ctx context.Context, in CreateArticleInput) (*model.ArticleWithRelations, error)
}

type articleService struct {
	store    *repository.Store
	enricher *Enricher
	now      func() time.Time
}

func NewArticleService(store *repository.Store, enricher *Enricher) ArticleService {
	return &articleService{store: store, enricher: enricher, now: time.Now}
}

func (s *articleService) List(ctx context.Context, opts repository.ListOptions, viewerID *uint) ([]*model.ArticleWithRelations, error) {
	articles, err := s.store.Articles.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return s.enricher.EnrichMany(ctx, articles, viewerID)
}

func (s *articleService) Get(ctx context.Context, id uint, viewerID *uint) (*model.ArticleWithRelations, error) {
	a, err := s.store.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	if viewerID != nil {
		if _, err := s.store.History.Update(ctx, *viewerID, id, s.now()); err != nil {
			return nil, fmt.Errorf("record view: %w", err)
		}
	}
	return s.enricher.Enrich(ctx, a, viewerID)
}

func (s *articleService) ListByTag(ctx context.Context, tagName string, viewerID *uint) ([]*model.ArticleWithRelations, error) {
	tag, err := s.store.Tags.GetByName(ctx, tagName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []*model.ArticleWithRelations{}, nil
		}
		return nil, err
	}
	ids, err := s.store.Tags.ListArticleIDsByTagID(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	articles, err := s.store.Articles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.enricher.EnrichMany(ctx, articles, viewerID)
}

func (s *articleService) Create(ctx context.Context, in CreateArticleInput) (*model.ArticleWithRelations, error) {
	if _, err := s.store.Sources.GetByID(ctx, in.SourceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, err
	}

	tagIDs, err := EnsureTags(ctx, s.store.Tags, in.Tags)
	if err != nil {
		return nil, err
	}

	readTime := in.ReadTime
	if readTime <= 0 {
		readTime = htmltext.EstimateReadTime(in.Content)
	}
	publishedAt := s.now()
	if in.PublishedAt != nil {
		publishedAt = *in.PublishedAt
	}
	a := &model.Article{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Content:     in.Content,
		ImageURL:    in.ImageURL,
		SourceID:    in.SourceID,
		URL:         strings.TrimSpace(in.URL),
		PublishedAt: publishedAt,
		ReadTime:    readTime,
	}
	created, err := s.store.Articles.CreateIfAbsent(ctx, a, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	if !created {
		return nil, ErrDuplicateURL
	}
	return s.enricher.Enrich(ctx, a, nil)
}

// EnsureTags 按名称 get-or-create 标签，名称大小写不敏感去重，保持首次出现顺序
func EnsureTags(ctx context.Context, tags repository.TagRepository, names []string) ([]uint, error) {
	seen := make(map[string]struct{}, len(names))
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := model.TagSlug(name)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		tag, err := tags.GetOrCreate(ctx, name, model.TagColor(name))
		if err != nil {
			return nil, fmt.Errorf("ensure tag %q: %w", name, err)
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
