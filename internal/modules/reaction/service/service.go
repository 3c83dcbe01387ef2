package reaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/bloggerplatform/internal/entity"
	reactionCache "anoa.com/bloggerplatform/internal/modules/reaction/cache"
	reactionDto "anoa.com/bloggerplatform/internal/modules/reaction/dto"
	reactionRepo "anoa.com/bloggerplatform/internal/modules/reaction/repository"
	userRepo "anoa.com/bloggerplatform/internal/modules/user/repository"
	"anoa.com/bloggerplatform/pkg/apperror"
	"anoa.com/bloggerplatform/pkg/lock"
	"anoa.com/bloggerplatform/pkg/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const NewestLikesLimit = 3

type ReactionService interface {
	// SetPostLikeStatus resolves the caller's login and applies the post reaction.
	SetPostLikeStatus(ctx context.Context, userID uuid.UUID, postID uuid.UUID, status entity.LikeStatus) error
	ApplyPostReaction(ctx context.Context, postID uuid.UUID, userID uuid.UUID, login string, status entity.LikeStatus) error
	ApplyCommentReaction(ctx context.Context, commentID uuid.UUID, userID uuid.UUID, status entity.LikeStatus) error

	RecentLikes(ctx context.Context, postID uuid.UUID) ([]reactionDto.NewestLike, error)
	MyPostStatus(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) (entity.LikeStatus, error)
	MyCommentStatus(ctx context.Context, commentID uuid.UUID, viewerID *uuid.UUID) (entity.LikeStatus, error)

	ReconcilePostCounters(ctx context.Context, postID uuid.UUID) (entity.LikesCounters, error)
	ReconcileCommentCounters(ctx context.Context, commentID uuid.UUID) (entity.LikesCounters, error)
	ReconcileAll(ctx context.Context, subject entity.SubjectType) (int, error)
}

type reactionService struct {
	db        *gorm.DB
	reactions reactionRepo.ReactionRepository
	counters  reactionRepo.CounterRepository
	users     userRepo.UserRepository
	locker    lock.Locker
	cache     reactionCache.NewestLikesCache
	sf        singleflight.Group
	now       func() time.Time
}

// NewReactionService wires the reaction core. newestLikes may be nil, in
// which case the feed is always read from the database.
func NewReactionService(db *gorm.DB, reactions reactionRepo.ReactionRepository, counters reactionRepo.CounterRepository, users userRepo.UserRepository, locker lock.Locker, newestLikes reactionCache.NewestLikesCache) ReactionService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &reactionService{
		db:        db,
		reactions: reactions,
		counters:  counters,
		users:     users,
		locker:    locker,
		cache:     newestLikes,
		now:       time.Now,
	}
}

var errInvalidStatus = apperror.Wrap(apperror.ErrInvalidInput, "likeStatus must be one of None, Like, Dislike")

func pairKey(subject entity.SubjectType, subjectID, userID uuid.UUID) string {
	return fmt.Sprintf("reaction:%s:%s:%s", subject, subjectID, userID)
}

func consistencyError(op string, err error) error {
	if errors.Is(err, apperror.ErrConsistency) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", apperror.ErrConsistency, op, err)
}

func notFound(subject entity.SubjectType, err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.Wrap(apperror.ErrNotFound, fmt.Sprintf("%s not found", subject))
	}
	return err
}

func (s *reactionService) SetPostLikeStatus(ctx context.Context, userID uuid.UUID, postID uuid.UUID, status entity.LikeStatus) error {
	if !status.Valid() {
		return errInvalidStatus
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Wrap(apperror.ErrUnauthorized, "unknown user")
		}
		return err
	}

	return s.ApplyPostReaction(ctx, postID, user.ID, user.Login, status)
}

// serialize runs fn while holding the lock for one (subject, user) pair.
func (s *reactionService) serialize(ctx context.Context, key string, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		return consistencyError("acquire reaction lock", err)
	}
	defer unlock()
	return fn()
}

func (s *reactionService) ApplyPostReaction(ctx context.Context, postID uuid.UUID, userID uuid.UUID, login string, status entity.LikeStatus) error {
	if !status.Valid() {
		return errInvalidStatus
	}

	var tr postTransition
	err := s.serialize(ctx, pairKey(entity.SubjectPost, postID, userID), func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			counters := s.counters.WithTx(tx)
			reactions := s.reactions.WithTx(tx)

			if _, err := counters.Lock(ctx, entity.SubjectPost, postID); err != nil {
				return notFound(entity.SubjectPost, err)
			}

			current, err := reactions.FindPostReaction(ctx, postID, userID)
			if err != nil {
				return consistencyError("load post reaction", err)
			}

			tr = decidePostTransition(current, status)
			switch tr.action {
			case actionNone:
				return nil
			case actionCreate:
				tr.record.PostID = postID
				tr.record.UserID = userID
				tr.record.UserLogin = login
				tr.record.CreatedAt = s.now()
				if err := reactions.CreatePostReaction(ctx, tr.record); err != nil {
					return consistencyError("create post reaction", err)
				}
			case actionUpdate:
				if err := reactions.UpdatePostReaction(ctx, tr.record); err != nil {
					return consistencyError("update post reaction", err)
				}
			}

			if _, err := counters.ApplyDelta(ctx, entity.SubjectPost, postID, tr.delta); err != nil {
				return consistencyError("apply post counters", err)
			}
			return nil
		})
	})

	l := log.Ctx(ctx)
	if err != nil {
		if errors.Is(err, apperror.ErrConsistency) {
			l.Error().Err(err).
				Str("post_id", postID.String()).
				Str("user_id", userID.String()).
				Str("status", string(status)).
				Msg("post reaction write failed")
		}
		return err
	}

	l.Debug().
		Str("post_id", postID.String()).
		Str("user_id", userID.String()).
		Str("status", string(status)).
		Stringer("action", tr.action).
		Int64("like_delta", tr.delta.Likes).
		Int64("dislike_delta", tr.delta.Dislikes).
		Msg("post reaction applied")

	if tr.action != actionNone && s.cache != nil {
		if err := s.cache.Invalidate(ctx, postID); err != nil {
			l.Warn().Err(err).Str("post_id", postID.String()).Msg("newest likes cache invalidation failed")
		}
	}
	return nil
}

func (s *reactionService) ApplyCommentReaction(ctx context.Context, commentID uuid.UUID, userID uuid.UUID, status entity.LikeStatus) error {
	if !status.Valid() {
		return errInvalidStatus
	}

	var tr commentTransition
	err := s.serialize(ctx, pairKey(entity.SubjectComment, commentID, userID), func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			counters := s.counters.WithTx(tx)
			reactions := s.reactions.WithTx(tx)

			if _, err := counters.Lock(ctx, entity.SubjectComment, commentID); err != nil {
				return notFound(entity.SubjectComment, err)
			}

			current, err := reactions.FindCommentReaction(ctx, commentID, userID)
			if err != nil {
				return consistencyError("load comment reaction", err)
			}

			tr = decideCommentTransition(current, status)
			switch tr.action {
			case actionNone:
				return nil
			case actionCreate:
				tr.record.CommentID = commentID
				tr.record.UserID = userID
				tr.record.CreatedAt = s.now()
				if err := reactions.CreateCommentReaction(ctx, tr.record); err != nil {
					return consistencyError("create comment reaction", err)
				}
			case actionUpdate:
				if err := reactions.UpdateCommentReaction(ctx, tr.record); err != nil {
					return consistencyError("update comment reaction", err)
				}
			case actionDelete:
				if err := reactions.DeleteCommentReaction(ctx, tr.record); err != nil {
					return consistencyError("delete comment reaction", err)
				}
			}

			if _, err := counters.ApplyDelta(ctx, entity.SubjectComment, commentID, tr.delta); err != nil {
				return consistencyError("apply comment counters", err)
			}
			return nil
		})
	})

	l := log.Ctx(ctx)
	if err != nil {
		if errors.Is(err, apperror.ErrConsistency) {
			l.Error().Err(err).
				Str("comment_id", commentID.String()).
				Str("user_id", userID.String()).
				Str("status", string(status)).
				Msg("comment reaction write failed")
		}
		return err
	}

	l.Debug().
		Str("comment_id", commentID.String()).
		Str("user_id", userID.String()).
		Str("status", string(status)).
		Stringer("action", tr.action).
		Msg("comment reaction applied")
	return nil
}

func (s *reactionService) RecentLikes(ctx context.Context, postID uuid.UUID) ([]reactionDto.NewestLike, error) {
	result, err, _ := s.sf.Do(postID.String(), func() (interface{}, error) {
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, postID)
			if err == nil {
				return cached, nil
			}
			if !errors.Is(err, reactionCache.ErrCacheMiss) {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Str("post_id", postID.String()).Msg("newest likes cache get error")
			}
		}

		// the generation is read before the rows so a write committed in
		// between makes the Set below a no-op
		var version int64
		cacheable := false
		if s.cache != nil {
			v, err := s.cache.Version(ctx, postID)
			if err == nil {
				version, cacheable = v, true
			} else {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Str("post_id", postID.String()).Msg("newest likes cache version error")
			}
		}

		records, err := s.reactions.FindNewestPostLikes(ctx, postID, NewestLikesLimit)
		if err != nil {
			return nil, err
		}
		likes := toNewestLikes(records)

		if cacheable {
			if err := s.cache.Set(ctx, postID, version, likes); err != nil {
				l := log.Ctx(ctx)
				l.Warn().Err(err).Str("post_id", postID.String()).Msg("newest likes cache set error")
			}
		}
		return likes, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]reactionDto.NewestLike), nil
}

func toNewestLikes(records []entity.PostReaction) []reactionDto.NewestLike {
	likes := make([]reactionDto.NewestLike, 0, len(records))
	for _, r := range records {
		likes = append(likes, reactionDto.NewestLike{
			AddedAt: r.CreatedAt,
			UserID:  r.UserID,
			Login:   r.UserLogin,
		})
	}
	return likes
}

func (s *reactionService) MyPostStatus(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) (entity.LikeStatus, error) {
	if viewerID == nil {
		return entity.LikeStatusNone, nil
	}
	record, err := s.reactions.FindPostReaction(ctx, postID, *viewerID)
	if err != nil {
		return entity.LikeStatusNone, err
	}
	// suppressed records carry None already
	return record.ActiveStatus(), nil
}

func (s *reactionService) MyCommentStatus(ctx context.Context, commentID uuid.UUID, viewerID *uuid.UUID) (entity.LikeStatus, error) {
	if viewerID == nil {
		return entity.LikeStatusNone, nil
	}
	record, err := s.reactions.FindCommentReaction(ctx, commentID, *viewerID)
	if err != nil {
		return entity.LikeStatusNone, err
	}
	return record.ActiveStatus(), nil
}

func (s *reactionService) ReconcilePostCounters(ctx context.Context, postID uuid.UUID) (entity.LikesCounters, error) {
	return s.reconcile(ctx, entity.SubjectPost, postID, func(r reactionRepo.ReactionRepository) (entity.LikesCounters, error) {
		return r.CountPostReactions(ctx, postID)
	})
}

func (s *reactionService) ReconcileCommentCounters(ctx context.Context, commentID uuid.UUID) (entity.LikesCounters, error) {
	return s.reconcile(ctx, entity.SubjectComment, commentID, func(r reactionRepo.ReactionRepository) (entity.LikesCounters, error) {
		return r.CountCommentReactions(ctx, commentID)
	})
}

// reconcile recounts the active records of one subject and overwrites its
// counters, all under the subject row lock.
func (s *reactionService) reconcile(ctx context.Context, subject entity.SubjectType, id uuid.UUID, count func(reactionRepo.ReactionRepository) (entity.LikesCounters, error)) (entity.LikesCounters, error) {
	var fixed entity.LikesCounters
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counters := s.counters.WithTx(tx)

		stored, err := counters.Lock(ctx, subject, id)
		if err != nil {
			return notFound(subject, err)
		}

		actual, err := count(s.reactions.WithTx(tx))
		if err != nil {
			return err
		}
		fixed = actual

		if stored == actual {
			return nil
		}

		l := log.Ctx(ctx)
		l.Warn().
			Str("subject", string(subject)).
			Str("subject_id", id.String()).
			Int64("stored_likes", stored.LikesCount).
			Int64("stored_dislikes", stored.DislikesCount).
			Int64("actual_likes", actual.LikesCount).
			Int64("actual_dislikes", actual.DislikesCount).
			Msg("reaction counters drifted, repairing")
		return counters.Set(ctx, subject, id, actual)
	})
	return fixed, err
}

func (s *reactionService) ReconcileAll(ctx context.Context, subject entity.SubjectType) (int, error) {
	ids, err := s.counters.ListIDs(ctx, subject)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		var err error
		switch subject {
		case entity.SubjectPost:
			_, err = s.ReconcilePostCounters(ctx, id)
		case entity.SubjectComment:
			_, err = s.ReconcileCommentCounters(ctx, id)
		}
		if err != nil {
			return 0, fmt.Errorf("reconcile %s %s: %w", subject, id, err)
		}
	}
	return len(ids), nil
}
