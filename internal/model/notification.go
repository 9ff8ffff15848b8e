package model

import "time"

const (
	VerbFollowed  = "followed you"
	VerbLiked     = "liked your post"
	VerbCommented = "commented on your post"

	TargetUser = "user"
	TargetPost = "post"
)

// Notification 用户交互通知，按时间倒序展示
type Notification struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipientID string    `json:"recipient_id" gorm:"type:varchar(36);index:idx_notification_recipient;not null"`
	ActorID     string    `json:"actor_id" gorm:"type:varchar(36);index;not null"`
	Verb        string    `json:"verb" gorm:"type:varchar(255);not null"`
	TargetType  string    `json:"target_type,omitempty" gorm:"type:varchar(20)"`
	TargetID    string    `json:"target_id,omitempty" gorm:"type:varchar(36);index"`
	Read        bool      `json:"read" gorm:"index;not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string { return "notifications" }
