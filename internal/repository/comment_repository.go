package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/tayar/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByArticle 最新评论在前
	ListByArticle(ctx context.Context, articleID uint) ([]*model.Comment, error)
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	comment.CreatedAt = comment.CreatedAt.UTC()
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ListByArticle(ctx context.Context, articleID uint) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC").Order("id DESC").
		Find(&res).Error
	return res, err
}
