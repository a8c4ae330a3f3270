package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound 按主键或唯一键查询不到记录
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
