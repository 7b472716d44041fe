package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/types"
	"github.com/planora-dev/planora/internal/utils"
)

type TemplateHandler struct {
	DB *gorm.DB
}

func NewTemplateHandler(db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{DB: db}
}

type CreateTemplateRequest struct {
	Step                       string   `json:"step" binding:"required"`
	Name                       string   `json:"name" binding:"required"`
	EstimatedDurationHours     *float64 `json:"estimated_duration_hours"`
	RecommendedStartOffsetDays *int     `json:"recommended_start_offset_days"`
	IsOngoing                  bool     `json:"is_ongoing"`
	IsDayOf                    bool     `json:"is_day_of"`
	Tags                       []string `json:"tags" binding:"required,min=1"`
}

func (h *TemplateHandler) ListTemplates(ctx *gin.Context) {
	var templates []models.AssignmentTemplate

	if err := h.DB.Order("id").Find(&templates).Error; err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve templates")
		return
	}

	response := []TemplateResponse{}

	for _, tpl := range templates {
		response = append(response, toTemplateResponse(tpl))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *TemplateHandler) GetTemplate(ctx *gin.Context) {
	templateID, err := utils.GetTemplateID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, err.Error())
		return
	}

	var template models.AssignmentTemplate

	if err := h.DB.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "Template not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve template")
		}
		return
	}

	ctx.JSON(http.StatusOK, toTemplateResponse(template))
}

// CreateTemplate adds a catalog entry. Admin role only. Templates are never
// edited once assignments have been derived from them, so there is no update
// endpoint.
func (h *TemplateHandler) CreateTemplate(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, types.KindUnauthorized, "User not authenticated")
		return
	}

	if currentUser.Role != models.RoleAdmin {
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only admins can manage the template catalog")
		return
	}

	var req CreateTemplateRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "step, name and a non-empty tag list are required")
		return
	}

	template := models.AssignmentTemplate{
		Step:                       req.Step,
		Name:                       req.Name,
		EstimatedDurationHours:     req.EstimatedDurationHours,
		RecommendedStartOffsetDays: req.RecommendedStartOffsetDays,
		IsOngoing:                  req.IsOngoing,
		IsDayOf:                    req.IsDayOf,
		Tags:                       req.Tags,
		Status:                     models.TemplateActive,
	}

	if err := h.DB.Create(&template).Error; err != nil {
		log.Printf("creating template: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to create template")
		return
	}

	ctx.JSON(http.StatusCreated, toTemplateResponse(template))
}
