package model

import "time"

// Follow 关注关系（A 关注 B），有向、非对称
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;uniqueIndex:idx_follow_pair;not null"`
	FolloweeID string `gorm:"type:varchar(36);index:idx_follow_followee;uniqueIndex:idx_follow_pair;not null"`
	// idx_follow_pair = (follower_id, followee_id)，重复关注幂等
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
