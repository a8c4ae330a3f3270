package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/tayar/internal/model"
)

type ReadingHistoryRepository interface {
	// Add 与 Update 语义相同：同一 (user, article) 只保留一行，重复浏览只刷新 viewed_at
	Add(ctx context.Context, userID, articleID uint, viewedAt time.Time) (*model.ReadingHistory, error)
	Update(ctx context.Context, userID, articleID uint, viewedAt time.Time) (*model.ReadingHistory, error)
	// ListByUser 最近浏览在前
	ListByUser(ctx context.Context, userID uint) ([]*model.ReadingHistory, error)
	Clear(ctx context.Context, userID uint) error
}

type readingHistoryRepository struct{ db *gorm.DB }

func NewReadingHistoryRepository(db *gorm.DB) ReadingHistoryRepository {
	return &readingHistoryRepository{db: db}
}

func (r *readingHistoryRepository) Add(ctx context.Context, userID, articleID uint, viewedAt time.Time) (*model.ReadingHistory, error) {
	return r.upsert(ctx, userID, articleID, viewedAt)
}

func (r *readingHistoryRepository) Update(ctx context.Context, userID, articleID uint, viewedAt time.Time) (*model.ReadingHistory, error) {
	return r.upsert(ctx, userID, articleID, viewedAt)
}

func (r *readingHistoryRepository) upsert(ctx context.Context, userID, articleID uint, viewedAt time.Time) (*model.ReadingHistory, error) {
	h := &model.ReadingHistory{UserID: userID, ArticleID: articleID, ViewedAt: viewedAt.UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
	}).Create(h).Error
	if err != nil {
		return nil, err
	}
	var stored model.ReadingHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&stored).Error; err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *readingHistoryRepository) ListByUser(ctx context.Context, userID uint) ([]*model.ReadingHistory, error) {
	var res []*model.ReadingHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("viewed_at DESC").Order("id DESC").
		Find(&res).Error
	return res, err
}

func (r *readingHistoryRepository) Clear(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ReadingHistory{}).Error
}
