package model

// User 用户（本系统无登录，默认使用单一内置用户）
type User struct {
	ID        uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string  `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Password  string  `json:"-" gorm:"type:varchar(255);not null"`
	Email     string  `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	AvatarURL *string `json:"avatarUrl" gorm:"type:text"`
}

func (User) TableName() string { return "users" }
