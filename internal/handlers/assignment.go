package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/access"
	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/types"
	"github.com/planora-dev/planora/internal/utils"
	"github.com/planora-dev/planora/internal/workflow"
)

type AssignmentHandler struct {
	DB *gorm.DB
}

func NewAssignmentHandler(db *gorm.DB) *AssignmentHandler {
	return &AssignmentHandler{DB: db}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateImportanceRequest struct {
	Important *bool `json:"important" binding:"required"`
}

type UpdateAssigneeRequest struct {
	AssigneeID *uint `json:"assignee_id"`
}

type UpdateStartDateRequest struct {
	RecommendedStartDate string `json:"recommended_start_date" binding:"required"`
}

type UpdateDueDateRequest struct {
	DueDate             *string `json:"due_date"`
	EstimatedCompletion *string `json:"estimated_completion"`
}

// loadAssignment fetches an assignment together with the project context the
// access scoper needs.
func (h *AssignmentHandler) loadAssignment(assignmentID uint) (models.ProjectAssignment, error) {
	var assignment models.ProjectAssignment
	err := h.DB.
		Preload("Template").
		Preload("Assignee").
		Preload("Project.Editors").
		Preload("Project.Assignments").
		First(&assignment, assignmentID).Error
	return assignment, err
}

// authorize resolves the requester's rights over an assignment. Creators may
// always act; editors and assignees only on assignments assigned to them.
// A requester with no relationship gets not-found, never forbidden, so the
// response does not leak that the assignment exists.
func (h *AssignmentHandler) authorize(ctx *gin.Context) (models.ProjectAssignment, uint, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, types.KindUnauthorized, "User not authenticated")
		return models.ProjectAssignment{}, 0, false
	}

	assignmentID, err := utils.GetAssignmentID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, err.Error())
		return models.ProjectAssignment{}, 0, false
	}

	assignment, err := h.loadAssignment(assignmentID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "Assignment not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve assignment")
		}
		return models.ProjectAssignment{}, 0, false
	}

	if !access.CanViewAssignment(assignment.Project, assignment, userID) {
		respondError(ctx, http.StatusNotFound, types.KindNotFound, "Assignment not found")
		return models.ProjectAssignment{}, 0, false
	}

	return assignment, userID, true
}

func (h *AssignmentHandler) respondUpdated(ctx *gin.Context, assignmentID uint) {
	updated, err := h.loadAssignment(assignmentID)

	if err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load assignment")
		return
	}

	ctx.JSON(http.StatusOK, toAssignmentResponse(h.DB, updated))
}

func (h *AssignmentHandler) GetAssignment(ctx *gin.Context) {
	assignment, _, ok := h.authorize(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, toAssignmentResponse(h.DB, assignment))
}

// UpdateStatus writes the caller-supplied status verbatim after validation.
// Setting the current status again succeeds without effect, so retries of
// the same request are safe.
func (h *AssignmentHandler) UpdateStatus(ctx *gin.Context) {
	var req UpdateStatusRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "status is required")
		return
	}

	if err := workflow.Validate(req.Status); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Status must be Pending, InProgress or Done")
		return
	}

	assignment, _, ok := h.authorize(ctx)

	if !ok {
		return
	}

	if err := h.DB.Model(&models.ProjectAssignment{}).Where("id = ?", assignment.ID).
		Update("status", req.Status).Error; err != nil {
		log.Printf("updating status: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to update status")
		return
	}

	h.respondUpdated(ctx, assignment.ID)
}

func (h *AssignmentHandler) UpdateImportance(ctx *gin.Context) {
	var req UpdateImportanceRequest

	if err := ctx.ShouldBindJSON(&req); err != nil || req.Important == nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "important must be a boolean")
		return
	}

	assignment, _, ok := h.authorize(ctx)

	if !ok {
		return
	}

	if err := h.DB.Model(&models.ProjectAssignment{}).Where("id = ?", assignment.ID).
		Update("important", *req.Important).Error; err != nil {
		log.Printf("updating importance: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to update importance")
		return
	}

	h.respondUpdated(ctx, assignment.ID)
}

// UpdateAssignee sets or clears the assignee. Only the project creator may
// reassign work; a null assignee_id unassigns the task.
func (h *AssignmentHandler) UpdateAssignee(ctx *gin.Context) {
	var req UpdateAssigneeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Invalid request")
		return
	}

	assignment, userID, ok := h.authorize(ctx)

	if !ok {
		return
	}

	if assignment.Project.CreatorID != userID {
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only the creator can change the assignee")
		return
	}

	if req.AssigneeID != nil {
		var assignee models.User
		if err := h.DB.First(&assignee, *req.AssigneeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(ctx, http.StatusNotFound, types.KindNotFound, "Assignee user not found")
			} else {
				respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve user")
			}
			return
		}
	}

	if err := h.DB.Model(&models.ProjectAssignment{}).Where("id = ?", assignment.ID).
		Update("assignee_id", req.AssigneeID).Error; err != nil {
		log.Printf("updating assignee: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to update assignee")
		return
	}

	h.respondUpdated(ctx, assignment.ID)
}

func (h *AssignmentHandler) UpdateStartDate(ctx *gin.Context) {
	var req UpdateStartDateRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "recommended_start_date is required")
		return
	}

	startDate, err := parseDate(req.RecommendedStartDate)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "recommended_start_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	assignment, _, ok := h.authorize(ctx)

	if !ok {
		return
	}

	if err := h.DB.Model(&models.ProjectAssignment{}).Where("id = ?", assignment.ID).
		Update("recommended_start_date", startDate).Error; err != nil {
		log.Printf("updating start date: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to update start date")
		return
	}

	h.respondUpdated(ctx, assignment.ID)
}

// UpdateDueDate patches due date and/or estimated completion. Passing null
// clears a field; omitting it leaves it untouched.
func (h *AssignmentHandler) UpdateDueDate(ctx *gin.Context) {
	raw := make(map[string]interface{})

	if err := ctx.ShouldBindJSON(&raw); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Invalid request")
		return
	}

	updates := make(map[string]interface{})

	for field, column := range map[string]string{
		"due_date":             "due_date",
		"estimated_completion": "estimated_completion",
	} {
		value, present := raw[field]
		if !present {
			continue
		}
		if value == nil {
			updates[column] = nil
			continue
		}
		str, ok := value.(string)
		if !ok {
			respondError(ctx, http.StatusBadRequest, types.KindValidation, field+" must be a date string or null")
			return
		}
		parsed, err := parseDate(str)
		if err != nil {
			respondError(ctx, http.StatusBadRequest, types.KindValidation, field+" must be RFC3339 or YYYY-MM-DD")
			return
		}
		updates[column] = parsed
	}

	if len(updates) == 0 {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "due_date or estimated_completion is required")
		return
	}

	assignment, _, ok := h.authorize(ctx)

	if !ok {
		return
	}

	if err := h.DB.Model(&models.ProjectAssignment{}).Where("id = ?", assignment.ID).
		Updates(updates).Error; err != nil {
		log.Printf("updating dates: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to update dates")
		return
	}

	h.respondUpdated(ctx, assignment.ID)
}

// DeleteAssignment removes one assignment and its comments and likes.
// Creator only.
func (h *AssignmentHandler) DeleteAssignment(ctx *gin.Context) {
	assignment, userID, ok := h.authorize(ctx)

	if !ok {
		return
	}

	if assignment.Project.CreatorID != userID {
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only the creator can delete assignments")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("assignment_id = ?", assignment.ID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("assignment_id = ?", assignment.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.ProjectAssignment{}, assignment.ID).Error
	})

	if err != nil {
		log.Printf("deleting assignment: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to delete assignment")
		return
	}

	ctx.Status(http.StatusNoContent)
}
