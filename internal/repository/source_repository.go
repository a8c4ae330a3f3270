package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/tayar/internal/model"
)

type SourceRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Source, error)
	GetByName(ctx context.Context, name string) (*model.Source, error)
	// GetOrCreate 按名称取来源，不存在则创建（并发安全）
	GetOrCreate(ctx context.Context, name string, logoURL *string) (*model.Source, error)
	List(ctx context.Context) ([]*model.Source, error)
}

type sourceRepository struct{ db *gorm.DB }

func NewSourceRepository(db *gorm.DB) SourceRepository { return &sourceRepository{db: db} }

func (r *sourceRepository) GetByID(ctx context.Context, id uint) (*model.Source, error) {
	var s model.Source
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *sourceRepository) GetByName(ctx context.Context, name string) (*model.Source, error) {
	var s model.Source
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *sourceRepository) GetOrCreate(ctx context.Context, name string, logoURL *string) (*model.Source, error) {
	s := &model.Source{Name: name, LogoURL: logoURL}
	// 名称唯一：冲突时什么都不做，再按名称读回
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s).Error; err != nil {
		return nil, err
	}
	return r.GetByName(ctx, name)
}

func (r *sourceRepository) List(ctx context.Context) ([]*model.Source, error) {
	var res []*model.Source
	err := r.db.WithContext(ctx).Order("id ASC").Find(&res).Error
	return res, err
}
