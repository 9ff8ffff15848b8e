package model

import "time"

// Tag is a named label. Slug is derived from Name and both are unique.
type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(64);uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(80);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string { return "tags" }

// TagCount is a tag together with the number of posts carrying it.
type TagCount struct {
	Tag
	PostCount int64 `json:"post_count"`
}
