package repository

import (
	"context"
	"errors"

	"anoa.com/bloggerplatform/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionRepository is plain data access for reaction records. Find methods
// return (nil, nil) when no record exists for the pair.
type ReactionRepository interface {
	WithTx(tx *gorm.DB) ReactionRepository

	FindPostReaction(ctx context.Context, postID, userID uuid.UUID) (*entity.PostReaction, error)
	CreatePostReaction(ctx context.Context, reaction *entity.PostReaction) error
	UpdatePostReaction(ctx context.Context, reaction *entity.PostReaction) error
	FindNewestPostLikes(ctx context.Context, postID uuid.UUID, limit int) ([]entity.PostReaction, error)
	CountPostReactions(ctx context.Context, postID uuid.UUID) (entity.LikesCounters, error)

	FindCommentReaction(ctx context.Context, commentID, userID uuid.UUID) (*entity.CommentReaction, error)
	CreateCommentReaction(ctx context.Context, reaction *entity.CommentReaction) error
	UpdateCommentReaction(ctx context.Context, reaction *entity.CommentReaction) error
	DeleteCommentReaction(ctx context.Context, reaction *entity.CommentReaction) error
	CountCommentReactions(ctx context.Context, commentID uuid.UUID) (entity.LikesCounters, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) WithTx(tx *gorm.DB) ReactionRepository {
	return &reactionRepository{db: tx}
}

func (r *reactionRepository) FindPostReaction(ctx context.Context, postID, userID uuid.UUID) (*entity.PostReaction, error) {
	// Find with a slice avoids gorm's "record not found" log noise from First()
	var existing []entity.PostReaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, nil
	}
	return &existing[0], nil
}

func (r *reactionRepository) CreatePostReaction(ctx context.Context, reaction *entity.PostReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) UpdatePostReaction(ctx context.Context, reaction *entity.PostReaction) error {
	return checkAffected(r.db.WithContext(ctx).
		Model(reaction).
		Select("status", "first_reaction_consumed", "updated_at").
		Updates(reaction))
}

func (r *reactionRepository) FindNewestPostLikes(ctx context.Context, postID uuid.UUID, limit int) ([]entity.PostReaction, error) {
	var likes []entity.PostReaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND status = ? AND first_reaction_consumed = ?", postID, entity.LikeStatusLike, false).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&likes).Error
	return likes, err
}

func (r *reactionRepository) CountPostReactions(ctx context.Context, postID uuid.UUID) (entity.LikesCounters, error) {
	return countByStatus(ctx, r.db.Model(&entity.PostReaction{}).Where("post_id = ?", postID))
}

func (r *reactionRepository) FindCommentReaction(ctx context.Context, commentID, userID uuid.UUID) (*entity.CommentReaction, error) {
	var existing []entity.CommentReaction
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, nil
	}
	return &existing[0], nil
}

func (r *reactionRepository) CreateCommentReaction(ctx context.Context, reaction *entity.CommentReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *reactionRepository) UpdateCommentReaction(ctx context.Context, reaction *entity.CommentReaction) error {
	return checkAffected(r.db.WithContext(ctx).
		Model(reaction).
		Select("status", "updated_at").
		Updates(reaction))
}

func (r *reactionRepository) DeleteCommentReaction(ctx context.Context, reaction *entity.CommentReaction) error {
	return checkAffected(r.db.WithContext(ctx).Delete(reaction))
}

func (r *reactionRepository) CountCommentReactions(ctx context.Context, commentID uuid.UUID) (entity.LikesCounters, error) {
	return countByStatus(ctx, r.db.Model(&entity.CommentReaction{}).Where("comment_id = ?", commentID))
}

func countByStatus(ctx context.Context, query *gorm.DB) (entity.LikesCounters, error) {
	type Result struct {
		Status entity.LikeStatus
		Count  int64
	}
	var results []Result

	err := query.WithContext(ctx).
		Select("status, count(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return entity.LikesCounters{}, err
	}

	var counters entity.LikesCounters
	for _, res := range results {
		switch res.Status {
		case entity.LikeStatusLike:
			counters.LikesCount = res.Count
		case entity.LikeStatusDislike:
			counters.DislikesCount = res.Count
		}
	}
	return counters, nil
}

var ErrNoRowsAffected = errors.New("no rows affected")

func checkAffected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
