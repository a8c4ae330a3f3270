package model

// All 返回需要建表的全部模型，供 AutoMigrate 使用
func All() []interface{} {
	return []interface{}{
		&User{},
		&Source{},
		&Tag{},
		&ArticleTag{},
		&Article{},
		&Bookmark{},
		&ReadingHistory{},
		&Reaction{},
		&Comment{},
	}
}
