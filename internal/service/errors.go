package service

import "errors"

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrSourceNotFound   = errors.New("source not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrReactionNotFound = errors.New("reaction not found")
	ErrDuplicateURL     = errors.New("an article with this url already exists")
)
