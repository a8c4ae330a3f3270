package model

import "time"

// Article 文章；URL 是去重键
type Article struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ImageURL    string    `json:"imageUrl" gorm:"type:text;not null"`
	SourceID    uint      `json:"sourceId" gorm:"index;not null"`
	URL         string    `json:"url" gorm:"type:varchar(2048);uniqueIndex;not null"`
	PublishedAt time.Time `json:"publishedAt" gorm:"index:idx_article_published;not null"`
	ReadTime    int       `json:"readTime" gorm:"not null"`
}

func (Article) TableName() string { return "articles" }

// ReactionSummary 文章互动聚合
// Comments 取自评论表，Likes 只统计 type=like 的 reaction
type ReactionSummary struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// ArticleWithRelations 文章读模型，每次请求从当前存储状态重新组装
type ArticleWithRelations struct {
	Article
	Source     Source          `json:"source"`
	Tags       []Tag           `json:"tags"`
	Reactions  ReactionSummary `json:"reactions"`
	Bookmarked bool            `json:"bookmarked"`
}
