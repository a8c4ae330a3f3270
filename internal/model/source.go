package model

// Source 文章来源（一般对应一个订阅源）
type Source struct {
	ID      uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string  `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	LogoURL *string `json:"logoUrl" gorm:"type:text"`
}

func (Source) TableName() string { return "sources" }
