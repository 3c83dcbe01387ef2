package comment

import (
	"context"
	"errors"
	"time"

	commentDto "anoa.com/bloggerplatform/internal/modules/comment/dto"
	commentRepo "anoa.com/bloggerplatform/internal/modules/comment/repository"
	reactionDto "anoa.com/bloggerplatform/internal/modules/reaction/dto"
	reaction "anoa.com/bloggerplatform/internal/modules/reaction/service"
	"anoa.com/bloggerplatform/pkg/apperror"
	"github.com/google/uuid"
)

type CommentService interface {
	GetCommentByID(ctx context.Context, commentID uuid.UUID, userID *uuid.UUID) (*commentDto.CommentResponse, error)
}

type commentService struct {
	commentRepo     commentRepo.CommentRepository
	reactionService reaction.ReactionService
}

func NewCommentService(commentRepo commentRepo.CommentRepository, reactionService reaction.ReactionService) CommentService {
	return &commentService{
		commentRepo:     commentRepo,
		reactionService: reactionService,
	}
}

func (s *commentService) GetCommentByID(ctx context.Context, commentID uuid.UUID, userID *uuid.UUID) (*commentDto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "comment not found")
		}
		return nil, err
	}

	myStatus, err := s.reactionService.MyCommentStatus(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	return &commentDto.CommentResponse{
		ID:      comment.ID,
		Content: comment.Content,
		CommentatorInfo: commentDto.CommentatorInfo{
			UserID:    comment.CommentatorID,
			UserLogin: comment.CommentatorLogin,
		},
		CreatedAt: comment.CreatedAt.UTC().Format(time.RFC3339),
		LikesInfo: reactionDto.LikesInfo{
			LikesCount:    comment.LikesCount,
			DislikesCount: comment.DislikesCount,
			MyStatus:      myStatus,
		},
	}, nil
}
