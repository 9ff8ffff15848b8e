package model

import "time"

// Post 内容主体（Record），作者即 owner
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);index:idx_post_author;not null"`
	Title     string    `json:"title" gorm:"type:varchar(200);index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Tags      []Tag     `json:"tags" gorm:"many2many:post_tags;"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

func (Post) TableName() string { return "posts" }
