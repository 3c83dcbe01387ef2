package dto

import (
	"time"

	"anoa.com/bloggerplatform/internal/entity"
	"github.com/google/uuid"
)

type LikeStatusRequest struct {
	LikeStatus string `json:"likeStatus" binding:"required,oneof=None Like Dislike"`
}

type NewestLike struct {
	AddedAt time.Time `json:"addedAt"`
	UserID  uuid.UUID `json:"userId"`
	Login   string    `json:"login"`
}

type LikesInfo struct {
	LikesCount    int64             `json:"likesCount"`
	DislikesCount int64             `json:"dislikesCount"`
	MyStatus      entity.LikeStatus `json:"myStatus"`
}

type ExtendedLikesInfo struct {
	LikesCount    int64             `json:"likesCount"`
	DislikesCount int64             `json:"dislikesCount"`
	MyStatus      entity.LikeStatus `json:"myStatus"`
	NewestLikes   []NewestLike      `json:"newestLikes"`
}
