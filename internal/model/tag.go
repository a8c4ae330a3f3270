package model

import "strings"

// Tag 标签；Slug 为小写名称，保证大小写不敏感的唯一性
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name" gorm:"type:varchar(64);not null"`
	Slug  string `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	Color string `json:"color" gorm:"type:varchar(16);not null"`
}

func (Tag) TableName() string { return "tags" }

// TagSlug 标签名归一化
func TagSlug(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ArticleTag 文章-标签多对多
type ArticleTag struct {
	ID        uint `json:"id" gorm:"primaryKey;autoIncrement"`
	ArticleID uint `json:"articleId" gorm:"index:idx_article_tag_article;not null"`
	TagID     uint `json:"tagId" gorm:"index:idx_article_tag_tag;not null"`
}

func (ArticleTag) TableName() string { return "article_tags" }

// TagPalette 新标签的颜色候选
var TagPalette = []string{"#F7DF1E", "#61DAFB", "#4285F4", "#F29111", "#FF5722", "#9C27B0", "#E91E63", "#3776AB", "#05122A"}

// TagColor 名称各字符码点之和对调色板取模，同名标签颜色稳定
func TagColor(name string) string {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return TagPalette[sum%len(TagPalette)]
}
