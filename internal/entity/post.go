package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlogID           uuid.UUID `gorm:"type:uuid;not null;index" json:"blog_id"`
	BlogName         string    `gorm:"size:100;not null" json:"blog_name"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	ShortDescription string    `gorm:"size:255" json:"short_description"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	LikesCounters
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
