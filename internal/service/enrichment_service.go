package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/tayar/internal/model"
	"github.com/d60-Lab/tayar/internal/repository"
)

// Enricher 组装 ArticleWithRelations：来源、标签、互动聚合、当前用户收藏状态。
// 纯读，每次都从存储现查，不做缓存。
type Enricher struct {
	store *repository.Store
}

func NewEnricher(store *repository.Store) *Enricher { return &Enricher{store: store} }

// Enrich viewerID 为 nil 时 Bookmarked 恒为 false
func (e *Enricher) Enrich(ctx context.Context, a *model.Article, viewerID *uint) (*model.ArticleWithRelations, error) {
	src, err := e.store.Sources.GetByID(ctx, a.SourceID)
	if err != nil {
		// 文章指向不存在的来源属于数据完整性问题
		return nil, fmt.Errorf("article %d: resolve source %d: %w", a.ID, a.SourceID, err)
	}
	tags, err := e.store.Tags.ListByArticleID(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("article %d: list tags: %w", a.ID, err)
	}
	summary, err := e.store.Reactions.Summary(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("article %d: reaction summary: %w", a.ID, err)
	}

	out := &model.ArticleWithRelations{
		Article:   *a,
		Source:    *src,
		Tags:      tags,
		Reactions: summary,
	}
	if out.Tags == nil {
		out.Tags = []model.Tag{}
	}
	if viewerID != nil {
		bookmarked, err := e.store.Bookmarks.Exists(ctx, *viewerID, a.ID)
		if err != nil {
			return nil, fmt.Errorf("article %d: bookmark state: %w", a.ID, err)
		}
		out.Bookmarked = bookmarked
	}
	return out, nil
}

// EnrichMany 保持输入顺序
func (e *Enricher) EnrichMany(ctx context.Context, articles []*model.Article, viewerID *uint) ([]*model.ArticleWithRelations, error) {
	res := make([]*model.ArticleWithRelations, 0, len(articles))
	for _, a := range articles {
		ea, err := e.Enrich(ctx, a, viewerID)
		if err != nil {
			return nil, err
		}
		res = append(res, ea)
	}
	return res, nil
}
