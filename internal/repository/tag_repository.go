package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/tayar/internal/model"
)

type TagRepository interface {
	// GetByName 大小写不敏感的精确匹配
	GetByName(ctx context.Context, name string) (*model.Tag, error)
	GetOrCreate(ctx context.Context, name, color string) (*model.Tag, error)
	List(ctx context.Context) ([]*model.Tag, error)

	ListByArticleID(ctx context.Context, articleID uint) ([]model.Tag, error)
	ListArticleIDsByTagID(ctx context.Context, tagID uint) ([]uint, error)
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", model.TagSlug(name)).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *tagRepository) GetOrCreate(ctx context.Context, name, color string) (*model.Tag, error) {
	t := &model.Tag{Name: name, Slug: model.TagSlug(name), Color: color}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(t).Error; err != nil {
		return nil, err
	}
	return r.GetByName(ctx, name)
}

func (r *tagRepository) List(ctx context.Context) ([]*model.Tag, error) {
	var res []*model.Tag
	err := r.db.WithContext(ctx).Order("id ASC").Find(&res).Error
	return res, err
}

func (r *tagRepository) ListByArticleID(ctx context.Context, articleID uint) ([]model.Tag, error) {
	res := make([]model.Tag, 0)
	err := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Select("DISTINCT tags.*").
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("article_tags.article_id = ?", articleID).
		Order("tags.id ASC").
		Find(&res).Error
	return res, err
}

func (r *tagRepository) ListArticleIDsByTagID(ctx context.Context, tagID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.ArticleTag{}).
		Distinct().
		Where("tag_id = ?", tagID).
		Pluck("article_id", &ids).Error
	return ids, err
}
