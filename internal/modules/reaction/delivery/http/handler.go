package handler

import (
	"net/http"

	"anoa.com/bloggerplatform/internal/entity"
	reactionDto "anoa.com/bloggerplatform/internal/modules/reaction/dto"
	reaction "anoa.com/bloggerplatform/internal/modules/reaction/service"
	"anoa.com/bloggerplatform/pkg/response"
	"anoa.com/bloggerplatform/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReactionHandler struct {
	service reaction.ReactionService
}

func NewReactionHandler(service reaction.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

// SetPostLikeStatus handles PUT /posts/:post_id/like-status
func (h *ReactionHandler) SetPostLikeStatus(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	status, ok := bindLikeStatus(c)
	if !ok {
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.SetPostLikeStatus(c.Request.Context(), userID, postID, status); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetCommentLikeStatus handles PUT /comments/:comment_id/like-status
func (h *ReactionHandler) SetCommentLikeStatus(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}

	status, ok := bindLikeStatus(c)
	if !ok {
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.ApplyCommentReaction(c.Request.Context(), commentID, userID, status); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bindLikeStatus(c *gin.Context) (entity.LikeStatus, bool) {
	var req reactionDto.LikeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return "", false
	}
	return entity.LikeStatus(req.LikeStatus), true
}
