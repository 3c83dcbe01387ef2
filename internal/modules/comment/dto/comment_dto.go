package dto

import (
	reactionDto "anoa.com/bloggerplatform/internal/modules/reaction/dto"
	"github.com/google/uuid"
)

type CommentatorInfo struct {
	UserID    uuid.UUID `json:"userId"`
	UserLogin string    `json:"userLogin"`
}

type CommentResponse struct {
	ID              uuid.UUID             `json:"id"`
	Content         string                `json:"content"`
	CommentatorInfo CommentatorInfo       `json:"commentatorInfo"`
	CreatedAt       string                `json:"createdAt"`
	LikesInfo       reactionDto.LikesInfo `json:"likesInfo"`
}
