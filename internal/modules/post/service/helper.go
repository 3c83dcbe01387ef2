package post

import (
	"time"

	"anoa.com/bloggerplatform/internal/entity"
	postDto "anoa.com/bloggerplatform/internal/modules/post/dto"
	reactionDto "anoa.com/bloggerplatform/internal/modules/reaction/dto"
)

func mapToResponse(post *entity.Post, myStatus entity.LikeStatus, newest []reactionDto.NewestLike) *postDto.PostResponse {
	if newest == nil {
		newest = []reactionDto.NewestLike{}
	}
	return &postDto.PostResponse{
		ID:               post.ID,
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		Content:          post.Content,
		BlogID:           post.BlogID,
		BlogName:         post.BlogName,
		CreatedAt:        post.CreatedAt.UTC().Format(time.RFC3339),
		ExtendedLikesInfo: reactionDto.ExtendedLikesInfo{
			LikesCount:    post.LikesCount,
			DislikesCount: post.DislikesCount,
			MyStatus:      myStatus,
			NewestLikes:   newest,
		},
	}
}
