package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/types"
)

func respondError(ctx *gin.Context, status int, kind, message string) {
	ctx.JSON(status, gin.H{"error": message, "code": kind})
}

type TemplateResponse struct {
	ID                         uint     `json:"id"`
	Step                       string   `json:"step"`
	Name                       string   `json:"name"`
	EstimatedDurationHours     *float64 `json:"estimated_duration_hours"`
	RecommendedStartOffsetDays *int     `json:"recommended_start_offset_days"`
	IsOngoing                  bool     `json:"is_ongoing"`
	IsDayOf                    bool     `json:"is_day_of"`
	Tags                       []string `json:"tags"`
	Status                     string   `json:"status"`
}

type AssignmentResponse struct {
	ID                   uint                `json:"id"`
	ProjectID            uint                `json:"project_id"`
	TemplateID           uint                `json:"template_id"`
	Template             TemplateResponse    `json:"template"`
	Assignee             *types.UserResponse `json:"assignee"`
	RecommendedStartDate time.Time           `json:"recommended_start_date"`
	DueDate              *time.Time          `json:"due_date"`
	EstimatedCompletion  *time.Time          `json:"estimated_completion"`
	Important            bool                `json:"important"`
	Status               string              `json:"status"`
	CommentCount         int64               `json:"comment_count"`
}

type ProjectResponse struct {
	ID             uint                 `json:"id"`
	Name           string               `json:"name"`
	Date           time.Time            `json:"date"`
	CreatorID      uint                 `json:"creator_id"`
	Tags           []string             `json:"tags"`
	Budget         float64              `json:"budget"`
	Area           string               `json:"area,omitempty"`
	Venue          string               `json:"venue,omitempty"`
	AmountOfPeople int                  `json:"amount_of_people,omitempty"`
	Editors        []types.UserResponse `json:"editors"`
	Assignments    []AssignmentResponse `json:"assignments"`
}

func toTemplateResponse(tpl models.AssignmentTemplate) TemplateResponse {
	return TemplateResponse{
		ID:                         tpl.ID,
		Step:                       tpl.Step,
		Name:                       tpl.Name,
		EstimatedDurationHours:     tpl.EstimatedDurationHours,
		RecommendedStartOffsetDays: tpl.RecommendedStartOffsetDays,
		IsOngoing:                  tpl.IsOngoing,
		IsDayOf:                    tpl.IsDayOf,
		Tags:                       tpl.Tags,
		Status:                     tpl.Status,
	}
}

func toUserResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
}

func toAssignmentResponse(db *gorm.DB, a models.ProjectAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:                   a.ID,
		ProjectID:            a.ProjectID,
		TemplateID:           a.TemplateID,
		Template:             toTemplateResponse(a.Template),
		RecommendedStartDate: a.RecommendedStartDate,
		DueDate:              a.DueDate,
		EstimatedCompletion:  a.EstimatedCompletion,
		Important:            a.Important,
		Status:               a.Status,
	}

	if a.Assignee != nil {
		assignee := toUserResponse(*a.Assignee)
		resp.Assignee = &assignee
	}

	// Comment counts are derived, never stored.
	if err := db.Model(&models.Comment{}).Scopes(models.ActiveComments).
		Where("assignment_id = ?", a.ID).Count(&resp.CommentCount).Error; err != nil {
		log.Printf("counting comments for assignment %d: %v", a.ID, err)
	}

	return resp
}

func toProjectResponse(db *gorm.DB, project models.Project, assignments []models.ProjectAssignment) ProjectResponse {
	resp := ProjectResponse{
		ID:             project.ID,
		Name:           project.Name,
		Date:           project.Date,
		CreatorID:      project.CreatorID,
		Tags:           project.Tags,
		Budget:         project.Budget,
		Area:           project.Area,
		Venue:          project.Venue,
		AmountOfPeople: project.AmountOfPeople,
		Editors:        []types.UserResponse{},
		Assignments:    []AssignmentResponse{},
	}

	for _, e := range project.Editors {
		resp.Editors = append(resp.Editors, toUserResponse(e.User))
	}

	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentResponse(db, a))
	}

	return resp
}
