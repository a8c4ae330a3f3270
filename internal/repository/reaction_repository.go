package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/tayar/internal/model"
)

type ReactionRepository interface {
	// Create 幂等：(user, article, type) 已存在时返回已有记录
	Create(ctx context.Context, userID, articleID uint, typ string) (*model.Reaction, error)
	Delete(ctx context.Context, userID, articleID uint, typ string) (bool, error)
	// Summary likes 只数 type=like；comments 来自评论表
	Summary(ctx context.Context, articleID uint) (model.ReactionSummary, error)
}

type reactionRepository struct{ db *gorm.DB }

func NewReactionRepository(db *gorm.DB) ReactionRepository { return &reactionRepository{db: db} }

func (r *reactionRepository) Create(ctx context.Context, userID, articleID uint, typ string) (*model.Reaction, error) {
	re := &model.Reaction{UserID: userID, ArticleID: articleID, Type: typ}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(re).Error; err != nil {
		return nil, err
	}
	var stored model.Reaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ? AND type = ?", userID, articleID, typ).
		First(&stored).Error; err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

func (r *reactionRepository) Delete(ctx context.Context, userID, articleID uint, typ string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ? AND type = ?", userID, articleID, typ).
		Delete(&model.Reaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reactionRepository) Summary(ctx context.Context, articleID uint) (model.ReactionSummary, error) {
	var s model.ReactionSummary
	if err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Where("article_id = ? AND type = ?", articleID, model.ReactionLike).
		Count(&s.Likes).Error; err != nil {
		return s, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("article_id = ?", articleID).
		Count(&s.Comments).Error; err != nil {
		return s, err
	}
	return s, nil
}
