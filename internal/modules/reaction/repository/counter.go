package repository

import (
	"context"
	"fmt"

	"anoa.com/bloggerplatform/internal/entity"
	"anoa.com/bloggerplatform/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository owns the likes/dislikes columns of posts and comments.
// It knows nothing about reactions beyond the delta it is handed.
type CounterRepository interface {
	WithTx(tx *gorm.DB) CounterRepository

	// Lock takes a row lock on the subject for the rest of the transaction
	// and returns its current counters.
	Lock(ctx context.Context, subject entity.SubjectType, id uuid.UUID) (entity.LikesCounters, error)
	ApplyDelta(ctx context.Context, subject entity.SubjectType, id uuid.UUID, delta entity.CounterDelta) (entity.LikesCounters, error)
	Set(ctx context.Context, subject entity.SubjectType, id uuid.UUID, counters entity.LikesCounters) error
	ListIDs(ctx context.Context, subject entity.SubjectType) ([]uuid.UUID, error)
}

type counterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) WithTx(tx *gorm.DB) CounterRepository {
	return &counterRepository{db: tx}
}

func modelFor(subject entity.SubjectType) (interface{}, error) {
	switch subject {
	case entity.SubjectPost:
		return &entity.Post{}, nil
	case entity.SubjectComment:
		return &entity.Comment{}, nil
	}
	return nil, fmt.Errorf("unknown subject type %q", subject)
}

func (r *counterRepository) Lock(ctx context.Context, subject entity.SubjectType, id uuid.UUID) (entity.LikesCounters, error) {
	model, err := modelFor(subject)
	if err != nil {
		return entity.LikesCounters{}, err
	}

	// sqlite has no row locks; its dialect drops the clause
	query := r.db.WithContext(ctx).Model(model).
		Select("likes_count", "dislikes_count").
		Where("id = ?", id).
		Clauses(clause.Locking{Strength: "UPDATE"})

	var rows []entity.LikesCounters
	if err := query.Limit(1).Find(&rows).Error; err != nil {
		return entity.LikesCounters{}, err
	}
	if len(rows) == 0 {
		return entity.LikesCounters{}, apperror.ErrNotFound
	}
	return rows[0], nil
}

// ApplyDelta must run inside the transaction that holds the subject lock,
// otherwise concurrent deltas on the same subject can be lost.
func (r *counterRepository) ApplyDelta(ctx context.Context, subject entity.SubjectType, id uuid.UUID, delta entity.CounterDelta) (entity.LikesCounters, error) {
	current, err := r.Lock(ctx, subject, id)
	if err != nil {
		return entity.LikesCounters{}, err
	}
	if delta.IsZero() {
		return current, nil
	}

	next, err := entity.ApplyDelta(current, delta)
	if err != nil {
		return current, fmt.Errorf("%w: %s %s: %v", apperror.ErrConsistency, subject, id, err)
	}

	if err := r.Set(ctx, subject, id, next); err != nil {
		return current, err
	}
	return next, nil
}

func (r *counterRepository) Set(ctx context.Context, subject entity.SubjectType, id uuid.UUID, counters entity.LikesCounters) error {
	model, err := modelFor(subject)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(model).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"likes_count":    counters.LikesCount,
		"dislikes_count": counters.DislikesCount,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *counterRepository) ListIDs(ctx context.Context, subject entity.SubjectType) ([]uuid.UUID, error) {
	model, err := modelFor(subject)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	err = r.db.WithContext(ctx).Model(model).Order("id").Pluck("id", &ids).Error
	return ids, err
}
