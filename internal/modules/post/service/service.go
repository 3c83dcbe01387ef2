package post

import (
	"context"
	"errors"

	"anoa.com/bloggerplatform/internal/entity"
	postDto "anoa.com/bloggerplatform/internal/modules/post/dto"
	postRepo "anoa.com/bloggerplatform/internal/modules/post/repository"
	reactionDto "anoa.com/bloggerplatform/internal/modules/reaction/dto"
	reaction "anoa.com/bloggerplatform/internal/modules/reaction/service"
	"anoa.com/bloggerplatform/pkg/apperror"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PostService interface {
	GetPostByID(ctx context.Context, postID uuid.UUID, userID *uuid.UUID) (*postDto.PostResponse, error)
}

type postService struct {
	postRepo        postRepo.PostRepository
	reactionService reaction.ReactionService
}

func NewPostService(postRepo postRepo.PostRepository, reactionService reaction.ReactionService) PostService {
	return &postService{
		postRepo:        postRepo,
		reactionService: reactionService,
	}
}

func (s *postService) GetPostByID(ctx context.Context, postID uuid.UUID, userID *uuid.UUID) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "post not found")
		}
		return nil, err
	}

	var (
		myStatus entity.LikeStatus
		newest   []reactionDto.NewestLike
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		myStatus, err = s.reactionService.MyPostStatus(gctx, postID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		newest, err = s.reactionService.RecentLikes(gctx, postID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mapToResponse(post, myStatus, newest), nil
}
