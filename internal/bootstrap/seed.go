package bootstrap

import (
	"context"
	"errors"

	"anoa.com/bloggerplatform/internal/entity"
	commentRepo "anoa.com/bloggerplatform/internal/modules/comment/repository"
	postRepo "anoa.com/bloggerplatform/internal/modules/post/repository"
	userRepo "anoa.com/bloggerplatform/internal/modules/user/repository"
	"anoa.com/bloggerplatform/pkg/apperror"
	"anoa.com/bloggerplatform/pkg/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Post{},
		&entity.Comment{},
		&entity.PostReaction{},
		&entity.CommentReaction{},
	)
}

const demoLogin = "demo"

// SeedDemo inserts a user, a post and a comment to react to in development.
func SeedDemo(db *gorm.DB) error {
	l := log.L()
	ctx := context.Background()

	existing, err := userRepo.NewUserRepository(db).FindByLogin(ctx, demoLogin)
	if err == nil {
		l.Info().Str("user_id", existing.ID.String()).Msg("demo data already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := entity.User{Login: demoLogin, Email: "demo@example.com"}
		if err := userRepo.NewUserRepository(tx).Create(ctx, &user); err != nil {
			return err
		}

		post := entity.Post{
			BlogID:           uuid.New(),
			BlogName:         "demo blog",
			Title:            "Hello reactions",
			ShortDescription: "A post to like and dislike",
			Content:          "Try PUT /api/posts/{id}/like-status",
		}
		if err := postRepo.NewPostRepository(tx).Create(ctx, &post); err != nil {
			return err
		}

		comment := entity.Comment{
			PostID:           post.ID,
			Content:          "First comment on the demo post",
			CommentatorID:    user.ID,
			CommentatorLogin: user.Login,
		}
		if err := commentRepo.NewCommentRepository(tx).Create(ctx, &comment); err != nil {
			return err
		}

		l.Info().
			Str("user_id", user.ID.String()).
			Str("post_id", post.ID.String()).
			Str("comment_id", comment.ID.String()).
			Msg("demo data seeded")
		return nil
	})
}
