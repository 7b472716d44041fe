package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/types"
	"github.com/planora-dev/planora/internal/utils"
)

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

type CommentResponse struct {
	ID           uint               `json:"id"`
	AssignmentID uint               `json:"assignment_id"`
	Author       types.UserResponse `json:"author"`
	Content      string             `json:"content"`
	IsEdited     bool               `json:"is_edited"`
	LikeCount    int64              `json:"like_count"`
	Liked        bool               `json:"liked"`
	CreatedAt    time.Time          `json:"created_at"`
}

func (h *AssignmentHandler) toCommentResponse(c models.Comment, userID uint) CommentResponse {
	resp := CommentResponse{
		ID:           c.ID,
		AssignmentID: c.AssignmentID,
		Author:       toUserResponse(c.Author),
		Content:      c.Content,
		IsEdited:     c.IsEdited,
		CreatedAt:    c.CreatedAt,
	}

	// Like counts are derived from like rows, never stored.
	if err := h.DB.Model(&models.Like{}).Where("comment_id = ?", c.ID).
		Count(&resp.LikeCount).Error; err != nil {
		log.Printf("counting likes for comment %d: %v", c.ID, err)
	}

	var mine int64
	if err := h.DB.Model(&models.Like{}).Where("comment_id = ? AND user_id = ?", c.ID, userID).
		Count(&mine).Error; err != nil {
		log.Printf("checking like for comment %d: %v", c.ID, err)
	}
	resp.Liked = mine > 0

	return resp
}

// findActiveComment resolves a comment on an assignment, ignoring
// soft-deleted rows.
func (h *AssignmentHandler) findActiveComment(assignmentID, commentID uint) (models.Comment, error) {
	var comment models.Comment
	err := h.DB.Scopes(models.ActiveComments).
		Preload("Author").
		Where("id = ? AND assignment_id = ?", commentID, assignmentID).
		First(&comment).Error
	return comment, err
}

func (h *AssignmentHandler) CreateComment(ctx *gin.Context) {
	var req CreateCommentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "content is required and limited to 1000 characters")
		return
	}

	assignment, userID, ok := h.authorize(ctx)

	if !ok {
		return
	}

	comment := models.Comment{
		AssignmentID: assignment.ID,
		AuthorID:     userID,
		Content:      req.Content,
	}

	if err := h.DB.Create(&comment).Error; err != nil {
		log.Printf("creating comment: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to create comment")
		return
	}

	created, err := h.findActiveComment(assignment.ID, comment.ID)

	if err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load comment")
		return
	}

	ctx.JSON(http.StatusCreated, h.toCommentResponse(created, userID))
}

// ListComments returns the assignment's active comments, newest first.
func (h *AssignmentHandler) ListComments(ctx *gin.Context) {
	assignment, userID, ok := h.authorize(ctx)

	if !ok {
		return
	}

	var comments []models.Comment

	if err := h.DB.Scopes(models.ActiveComments).
		Where("assignment_id = ?", assignment.ID).
		Preload("Author").
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve comments")
		return
	}

	response := []CommentResponse{}

	for _, c := range comments {
		response = append(response, h.toCommentResponse(c, userID))
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateComment edits a comment's content. Author only; the edit is marked.
func (h *AssignmentHandler) UpdateComment(ctx *gin.Context) {
	var req UpdateCommentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "content is required and limited to 1000 characters")
		return
	}

	assignment, userID, ok := h.authorize(ctx)

	if !ok {
		return
	}

	commentID, err := utils.GetCommentID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, err.Error())
		return
	}

	comment, err := h.findActiveComment(assignment.ID, commentID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "Comment not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve comment")
		}
		return
	}

	if comment.AuthorID != userID {
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only the author can edit a comment")
		return
	}

	updates := map[string]interface{}{"content": req.Content, "is_edited": true}

	if err := h.DB.Model(&models.Comment{}).Where("id = ?", comment.ID).Updates(updates).Error; err != nil {
		log.Printf("updating comment: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to update comment")
		return
	}

	updated, err := h.findActiveComment(assignment.ID, commentID)

	if err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load comment")
		return
	}

	ctx.JSON(http.StatusOK, h.toCommentResponse(updated, userID))
}

// DeleteComment soft-deletes a comment. The author or the project creator
// may delete; the row stays for audit but disappears from every read path.
func (h *AssignmentHandler) DeleteComment(ctx *gin.Context) {
	assignment, userID, ok := h.authorize(ctx)

	if !ok {
		return
	}

	commentID, err := utils.GetCommentID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, err.Error())
		return
	}

	comment, err := h.findActiveComment(assignment.ID, commentID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "Comment not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve comment")
		}
		return
	}

	if comment.AuthorID != userID && assignment.Project.CreatorID != userID {
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only the author or the project creator can delete a comment")
		return
	}

	if err := h.DB.Model(&models.Comment{}).Where("id = ?", comment.ID).
		Update("is_deleted", true).Error; err != nil {
		log.Printf("deleting comment: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to delete comment")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ToggleLike likes an unliked comment and unlikes a liked one. The unique
// index on (user_id, comment_id) keeps counts honest under races.
func (h *AssignmentHandler) ToggleLike(ctx *gin.Context) {
	assignment, userID, ok := h.authorize(ctx)

	if !ok {
		return
	}

	commentID, err := utils.GetCommentID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, err.Error())
		return
	}

	comment, err := h.findActiveComment(assignment.ID, commentID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "Comment not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve comment")
		}
		return
	}

	var existing models.Like

	err = h.DB.Where("user_id = ? AND comment_id = ?", userID, comment.ID).First(&existing).Error

	switch {
	case err == nil:
		if err := h.DB.Unscoped().Delete(&existing).Error; err != nil {
			log.Printf("removing like: %v", err)
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to unlike comment")
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.Like{UserID: userID, CommentID: comment.ID}
		if err := h.DB.Create(&like).Error; err != nil {
			log.Printf("creating like: %v", err)
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to like comment")
			return
		}
	default:
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to toggle like")
		return
	}

	updated, err := h.findActiveComment(assignment.ID, commentID)

	if err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load comment")
		return
	}

	ctx.JSON(http.StatusOK, h.toCommentResponse(updated, userID))
}
