package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID           uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	CommentatorID    uuid.UUID `gorm:"type:uuid;not null" json:"commentator_id"`
	CommentatorLogin string    `gorm:"size:50;not null" json:"commentator_login"`
	LikesCounters
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
