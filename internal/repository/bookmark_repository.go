package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/tayar/internal/model"
)

type BookmarkRepository interface {
	// Create 幂等：已收藏时返回已有记录
	Create(ctx context.Context, userID, articleID uint, createdAt time.Time) (*model.Bookmark, error)
	// Delete 返回是否确实删除了记录
	Delete(ctx context.Context, userID, articleID uint) (bool, error)
	Exists(ctx context.Context, userID, articleID uint) (bool, error)
	// ListByUser 最新收藏在前
	ListByUser(ctx context.Context, userID uint) ([]*model.Bookmark, error)
}

type bookmarkRepository struct{ db *gorm.DB }

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository { return &bookmarkRepository{db: db} }

func (r *bookmarkRepository) Create(ctx context.Context, userID, articleID uint, createdAt time.Time) (*model.Bookmark, error) {
	b := &model.Bookmark{UserID: userID, ArticleID: articleID, CreatedAt: createdAt.UTC()}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(b).Error; err != nil {
		return nil, err
	}
	var stored model.Bookmark
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&stored).Error; err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID, articleID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&model.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, articleID uint) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint) ([]*model.Bookmark, error) {
	var res []*model.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&res).Error
	return res, err
}
