package models

import "time"

// Post is a blog entry created by a user, optionally attached to a group.
// CreatedAt is assigned once at creation and never mutated afterwards; every
// listing orders by it descending.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `gorm:"size:512" json:"image"` // public URL like /static/uploads/...
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"author"`
	Group     *Group    `json:"group,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
}
