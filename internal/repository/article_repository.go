package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/tayar/internal/model"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ListOptions 文章列表参数
type ListOptions struct {
	Limit  int
	Offset int
	// Search 在标题/摘要/正文中做大小写不敏感的子串匹配，任一字段命中即可
	Search string
}

func (o ListOptions) normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.Search = strings.TrimSpace(o.Search)
	return o
}

type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	// CreateIfAbsent 在一个事务内写入文章和标签关联；URL 已存在时不写入并返回 false
	CreateIfAbsent(ctx context.Context, article *model.Article, tagIDs []uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*model.Article, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]*model.Article, error)
	// ListByIDs 按发布时间倒序返回
	ListByIDs(ctx context.Context, ids []uint) ([]*model.Article, error)
	Count(ctx context.Context) (int64, error)
}

type articleRepository struct{ db *gorm.DB }

func NewArticleRepository(db *gorm.DB) ArticleRepository { return &articleRepository{db: db} }

func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	article.PublishedAt = article.PublishedAt.UTC()
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) CreateIfAbsent(ctx context.Context, article *model.Article, tagIDs []uint) (bool, error) {
	article.PublishedAt = article.PublishedAt.UTC()
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).Create(article)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		for _, tagID := range tagIDs {
			if err := tx.Create(&model.ArticleTag{ArticleID: article.ID, TagID: tagID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if !created {
		article.ID = 0
	}
	return created, nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	var a model.Article
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *articleRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Article{}).
		Where("url = ?", url).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *articleRepository) List(ctx context.Context, opts ListOptions) ([]*model.Article, error) {
	opts = opts.normalize()
	q := r.db.WithContext(ctx).Model(&model.Article{})
	if opts.Search != "" {
		p := "%" + escapeLike(strings.ToLower(opts.Search)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`, p, p, p)
	}
	var res []*model.Article
	err := q.Order("published_at DESC").Order("id DESC").
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&res).Error
	return res, err
}

func (r *articleRepository) ListByIDs(ctx context.Context, ids []uint) ([]*model.Article, error) {
	res := make([]*model.Article, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("published_at DESC").Order("id DESC").
		Find(&res).Error
	return res, err
}

func (r *articleRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Article{}).Count(&cnt).Error
	return cnt, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
