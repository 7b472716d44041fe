package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/access"
	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/types"
	"github.com/planora-dev/planora/internal/utils"
)

type ProjectStatsResponse struct {
	TotalAssignments     int            `json:"total_assignments"`
	AssignmentsByStatus  map[string]int `json:"assignments_by_status"`
	ImportantAssignments int            `json:"important_assignments"`
	TotalComments        int64          `json:"total_comments"`
	CommentsThisWeek     int64          `json:"comments_this_week"`
}

type RecentCommentResponse struct {
	ID           uint               `json:"id"`
	AssignmentID uint               `json:"assignment_id"`
	Author       types.UserResponse `json:"author"`
	Content      string             `json:"content"`
	IsEdited     bool               `json:"is_edited"`
	CreatedAt    time.Time          `json:"created_at"`
}

// GetStats aggregates assignment and comment statistics over the
// assignments the requester may see.
func (h *ProjectHandler) GetStats(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, types.KindUnauthorized, "User not authenticated")
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, err.Error())
		return
	}

	project, err := h.loadProject(projectID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "Project not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve project")
		}
		return
	}

	visible, ok := access.VisibleAssignments(project, userID)

	if !ok {
		respondError(ctx, http.StatusNotFound, types.KindNotFound, "Project not found")
		return
	}

	stats := ProjectStatsResponse{
		TotalAssignments:    len(visible),
		AssignmentsByStatus: make(map[string]int),
	}

	assignmentIDs := make([]uint, 0, len(visible))
	for _, a := range visible {
		stats.AssignmentsByStatus[a.Status]++
		if a.Important {
			stats.ImportantAssignments++
		}
		assignmentIDs = append(assignmentIDs, a.ID)
	}

	if len(assignmentIDs) > 0 {
		base := h.DB.Model(&models.Comment{}).Scopes(models.ActiveComments).
			Where("assignment_id IN ?", assignmentIDs)

		if err := base.Count(&stats.TotalComments).Error; err != nil {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to count comments")
			return
		}

		weekAgo := time.Now().AddDate(0, 0, -7)
		if err := h.DB.Model(&models.Comment{}).Scopes(models.ActiveComments).
			Where("assignment_id IN ? AND created_at >= ?", assignmentIDs, weekAgo).
			Count(&stats.CommentsThisWeek).Error; err != nil {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to count comments")
			return
		}
	}

	ctx.JSON(http.StatusOK, stats)
}

// GetRecentComments returns the newest active comments across the
// requester's visible assignments on a project.
func (h *ProjectHandler) GetRecentComments(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, types.KindUnauthorized, "User not authenticated")
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, err.Error())
		return
	}

	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(ctx, http.StatusBadRequest, types.KindValidation, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	project, err := h.loadProject(projectID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "Project not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve project")
		}
		return
	}

	visible, ok := access.VisibleAssignments(project, userID)

	if !ok {
		respondError(ctx, http.StatusNotFound, types.KindNotFound, "Project not found")
		return
	}

	response := []RecentCommentResponse{}

	if len(visible) > 0 {
		assignmentIDs := make([]uint, 0, len(visible))
		for _, a := range visible {
			assignmentIDs = append(assignmentIDs, a.ID)
		}

		var comments []models.Comment

		if err := h.DB.Scopes(models.ActiveComments).
			Where("assignment_id IN ?", assignmentIDs).
			Preload("Author").
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&comments).Error; err != nil {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve comments")
			return
		}

		for _, c := range comments {
			response = append(response, RecentCommentResponse{
				ID:           c.ID,
				AssignmentID: c.AssignmentID,
				Author:       toUserResponse(c.Author),
				Content:      c.Content,
				IsEdited:     c.IsEdited,
				CreatedAt:    c.CreatedAt,
			})
		}
	}

	ctx.JSON(http.StatusOK, response)
}
