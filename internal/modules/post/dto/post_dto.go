package dto

import (
	reactionDto "anoa.com/bloggerplatform/internal/modules/reaction/dto"
	"github.com/google/uuid"
)

type PostResponse struct {
	ID                uuid.UUID                     `json:"id"`
	Title             string                        `json:"title"`
	ShortDescription  string                        `json:"shortDescription"`
	Content           string                        `json:"content"`
	BlogID            uuid.UUID                     `json:"blogId"`
	BlogName          string                        `json:"blogName"`
	CreatedAt         string                        `json:"createdAt"`
	ExtendedLikesInfo reactionDto.ExtendedLikesInfo `json:"extendedLikesInfo"`
}
