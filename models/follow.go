package models

import "time"

// Follow is a directed edge meaning the follower receives the followed
// author's posts in their feed. The composite unique index makes repeated
// follows a constraint violation rather than a silent duplicate.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"index;uniqueIndex:idx_follower_followed;not null" json:"follower_id"`
	FollowedID uint      `gorm:"index;uniqueIndex:idx_follower_followed;not null" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
