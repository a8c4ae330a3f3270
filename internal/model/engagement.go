package model

import "time"

// Bookmark 收藏，(user_id, article_id) 唯一
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:ux_bookmark_user_article;not null"`
	ArticleID uint      `json:"articleId" gorm:"uniqueIndex:ux_bookmark_user_article;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

func (Bookmark) TableName() string { return "bookmarks" }

// ReadingHistory 阅读记录，每个 (user, article) 只保留最近一次
type ReadingHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:ux_history_user_article;index:idx_history_user_viewed;not null"`
	ArticleID uint      `json:"articleId" gorm:"uniqueIndex:ux_history_user_article;not null"`
	ViewedAt  time.Time `json:"viewedAt" gorm:"index:idx_history_user_viewed;not null"`
}

func (ReadingHistory) TableName() string { return "reading_history" }

// ReactionLike 唯一计入聚合的 reaction 类型
const ReactionLike = "like"

// Reaction 表态，(user, article, type) 唯一
type Reaction struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint   `json:"userId" gorm:"uniqueIndex:ux_reaction_user_article_type;not null"`
	ArticleID uint   `json:"articleId" gorm:"uniqueIndex:ux_reaction_user_article_type;index:idx_reaction_article;not null"`
	Type      string `json:"type" gorm:"type:varchar(32);uniqueIndex:ux_reaction_user_article_type;not null"`
}

func (Reaction) TableName() string { return "reactions" }

// Comment 评论，只追加
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	ArticleID uint      `json:"articleId" gorm:"index:idx_comment_article;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

func (Comment) TableName() string { return "comments" }

// CommentWithUser 评论 + 作者
type CommentWithUser struct {
	Comment
	User User `json:"user"`
}
