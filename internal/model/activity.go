package model

import "time"

// Activity action values.
const (
	ActivityPostCreated = "post.created"
	ActivityPostUpdated = "post.updated"
	ActivityPostDeleted = "post.deleted"
)

// Activity is one audit-trail row describing a post mutation. Rows are
// written asynchronously by the activity worker, never on the request path.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Action    string    `gorm:"size:32;not null" json:"action"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
