package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeStatus string

const (
	LikeStatusNone    LikeStatus = "None"
	LikeStatusLike    LikeStatus = "Like"
	LikeStatusDislike LikeStatus = "Dislike"
)

func (s LikeStatus) Valid() bool {
	switch s {
	case LikeStatusNone, LikeStatusLike, LikeStatusDislike:
		return true
	}
	return false
}

type SubjectType string

const (
	SubjectPost    SubjectType = "post"
	SubjectComment SubjectType = "comment"
)

// PostReaction is one user's reaction to a post. The row is never deleted:
// Status holds Like or Dislike while active and None once the user withdrew
// (suppressed). FirstReactionConsumed flips to true on the first status
// change and stays there.
type PostReaction struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID                uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_post_reactions_pair,priority:1;index:idx_post_reactions_newest,priority:1" json:"post_id"`
	UserID                uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_post_reactions_pair,priority:2" json:"user_id"`
	UserLogin             string     `gorm:"size:50;not null" json:"user_login"`
	Status                LikeStatus `gorm:"size:10;not null;index:idx_post_reactions_newest,priority:2" json:"status"`
	FirstReactionConsumed bool       `gorm:"not null;default:false" json:"first_reaction_consumed"`
	CreatedAt             time.Time  `gorm:"not null;index:idx_post_reactions_newest,priority:3" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *PostReaction) TableName() string {
	return "post_reactions"
}

func (r *PostReaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

func (r *PostReaction) IsSuppressed() bool {
	return r.Status == LikeStatusNone
}

func (r *PostReaction) IsFirstReaction() bool {
	return !r.FirstReactionConsumed
}

// ActiveStatus is the status the record contributes to the post counters.
func (r *PostReaction) ActiveStatus() LikeStatus {
	if r == nil {
		return LikeStatusNone
	}
	return r.Status
}

// CommentReaction exists only while the user likes or dislikes the comment.
type CommentReaction struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CommentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_comment_reactions_pair,priority:1" json:"comment_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_comment_reactions_pair,priority:2" json:"user_id"`
	Status    LikeStatus `gorm:"size:10;not null" json:"status"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *CommentReaction) TableName() string {
	return "comment_reactions"
}

func (r *CommentReaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

func (r *CommentReaction) ActiveStatus() LikeStatus {
	if r == nil {
		return LikeStatusNone
	}
	return r.Status
}
