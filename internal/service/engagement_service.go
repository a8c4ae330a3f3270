package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d60-Lab/tayar/internal/model"
	"github.com/d60-Lab/tayar/internal/repository"
)

// EngagementService 收藏 / 阅读记录 / 表态 / 评论
type EngagementService interface {
	AddBookmark(ctx context.Context, userID, articleID uint) (*model.Bookmark, error)
	RemoveBookmark(ctx context.Context, userID, articleID uint) error
	ListBookmarks(ctx context.Context, userID uint) ([]*model.ArticleWithRelations, error)

	RecordView(ctx context.Context, userID, articleID uint, viewedAt *time.Time) (*model.ReadingHistory, error)
	ListHistory(ctx context.Context, userID uint) ([]*model.ArticleWithRelations, error)
	ClearHistory(ctx context.Context, userID uint) error

	AddReaction(ctx context.Context, userID, articleID uint, typ string) (*model.Reaction, error)
	RemoveReaction(ctx context.Context, userID, articleID uint, typ string) error
	ReactionSummary(ctx context.Context, articleID uint) (model.ReactionSummary, error)

	AddComment(ctx context.Context, userID, articleID uint, content string, createdAt *time.Time) (*model.Comment, error)
	ListComments(ctx context.Context, articleID uint) ([]*model.CommentWithUser, error)
}

type engagementService struct {
	store    *repository.Store
	enricher *Enricher
	now      func() time.Time
}

func NewEngagementService(store *repository.Store, enricher *Enricher) EngagementService {
	return &engagementService{store: store, enricher: enricher, now: time.Now}
}

func (s *engagementService) requireArticle(ctx context.Context, articleID uint) (*model.Article, error) {
	a, err := s.store.Articles.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *engagementService) AddBookmark(ctx context.Context, userID, articleID uint) (*model.Bookmark, error) {
	if _, err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.store.Bookmarks.Create(ctx, userID, articleID, s.now())
}

func (s *engagementService) RemoveBookmark(ctx context.Context, userID, articleID uint) error {
	removed, err := s.store.Bookmarks.Delete(ctx, userID, articleID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrBookmarkNotFound
	}
	return nil
}

func (s *engagementService) ListBookmarks(ctx context.Context, userID uint) ([]*model.ArticleWithRelations, error) {
	bookmarks, err := s.store.Bookmarks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	ids := make([]uint, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.ArticleID
	}
	return s.enrichInOrder(ctx, ids, &userID)
}

func (s *engagementService) RecordView(ctx context.Context, userID, articleID uint, viewedAt *time.Time) (*model.ReadingHistory, error) {
	if _, err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	at := s.now()
	if viewedAt != nil {
		at = *viewedAt
	}
	return s.store.History.Update(ctx, userID, articleID, at)
}

func (s *engagementService) ListHistory(ctx context.Context, userID uint) ([]*model.ArticleWithRelations, error) {
	rows, err := s.store.History.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	ids := make([]uint, len(rows))
	for i, h := range rows {
		ids[i] = h.ArticleID
	}
	return s.enrichInOrder(ctx, ids, &userID)
}

func (s *engagementService) ClearHistory(ctx context.Context, userID uint) error {
	return s.store.History.Clear(ctx, userID)
}

func (s *engagementService) AddReaction(ctx context.Context, userID, articleID uint, typ string) (*model.Reaction, error) {
	if _, err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.store.Reactions.Create(ctx, userID, articleID, typ)
}

func (s *engagementService) RemoveReaction(ctx context.Context, userID, articleID uint, typ string) error {
	removed, err := s.store.Reactions.Delete(ctx, userID, articleID, typ)
	if err != nil {
		return err
	}
	if !removed {
		return ErrReactionNotFound
	}
	return nil
}

func (s *engagementService) ReactionSummary(ctx context.Context, articleID uint) (model.ReactionSummary, error) {
	return s.store.Reactions.Summary(ctx, articleID)
}

func (s *engagementService) AddComment(ctx context.Context, userID, articleID uint, content string, createdAt *time.Time) (*model.Comment, error) {
	if _, err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	c := &model.Comment{UserID: userID, ArticleID: articleID, Content: content, CreatedAt: s.now()}
	if createdAt != nil {
		c.CreatedAt = *createdAt
	}
	if err := s.store.Comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *engagementService) ListComments(ctx context.Context, articleID uint) ([]*model.CommentWithUser, error) {
	comments, err := s.store.Comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.store.Users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	res := make([]*model.CommentWithUser, 0, len(comments))
	for _, c := range comments {
		cw := &model.CommentWithUser{Comment: *c}
		if u, ok := users[c.UserID]; ok {
			cw.User = *u
		}
		res = append(res, cw)
	}
	return res, nil
}

// enrichInOrder 按给定 id 顺序组装，已不存在的文章跳过
func (s *engagementService) enrichInOrder(ctx context.Context, ids []uint, viewerID *uint) ([]*model.ArticleWithRelations, error) {
	articles, err := s.store.Articles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	ordered := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return s.enricher.EnrichMany(ctx, ordered, viewerID)
}
