package repository

import "gorm.io/gorm"

// Store 全部实体仓储的聚合，启动时创建一次并注入到服务层
type Store struct {
	Users     UserRepository
	Sources   SourceRepository
	Tags      TagRepository
	Articles  ArticleRepository
	Bookmarks BookmarkRepository
	History   ReadingHistoryRepository
	Reactions ReactionRepository
	Comments  CommentRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:     NewUserRepository(db),
		Sources:   NewSourceRepository(db),
		Tags:      NewTagRepository(db),
		Articles:  NewArticleRepository(db),
		Bookmarks: NewBookmarkRepository(db),
		History:   NewReadingHistoryRepository(db),
		Reactions: NewReactionRepository(db),
		Comments:  NewCommentRepository(db),
	}
}
