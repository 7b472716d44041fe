package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/access"
	"github.com/planora-dev/planora/internal/catalog"
	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/schedule"
	"github.com/planora-dev/planora/internal/types"
	"github.com/planora-dev/planora/internal/utils"
)

type ProjectHandler struct {
	DB *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{DB: db}
}

type CreateProjectRequest struct {
	Name           string   `json:"name" binding:"required"`
	Date           string   `json:"date" binding:"required"`
	Tags           []string `json:"tags" binding:"required,min=1"`
	Budget         float64  `json:"budget"`
	Area           string   `json:"area"`
	Venue          string   `json:"venue"`
	AmountOfPeople int      `json:"amount_of_people"`
}

type UpdateProjectRequest struct {
	Name           *string   `json:"name"`
	Date           *string   `json:"date"`
	Tags           *[]string `json:"tags"`
	Budget         *float64  `json:"budget"`
	Area           *string   `json:"area"`
	Venue          *string   `json:"venue"`
	AmountOfPeople *int      `json:"amount_of_people"`
}

type AddEditorRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// loadProject fetches a project with everything visibility decisions and
// responses need: editors with their users, assignments with template and
// assignee, ordered by recommended start.
func (h *ProjectHandler) loadProject(projectID uint) (models.Project, error) {
	var project models.Project
	err := h.DB.
		Preload("Editors.User").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("recommended_start_date ASC, id ASC")
		}).
		Preload("Assignments.Template").
		Preload("Assignments.Assignee").
		First(&project, projectID).Error
	return project, err
}

// CreateProject creates a project and derives one assignment per matching
// catalog template. Project insert and the assignment batch commit in a
// single transaction; a failure anywhere leaves nothing behind.
func (h *ProjectHandler) CreateProject(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Name, date and a non-empty tag list are required")
		return
	}

	projectDate, err := parseDate(req.Date)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Date must be RFC3339 or YYYY-MM-DD")
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, types.KindUnauthorized, "User not authenticated")
		return
	}

	templates, err := catalog.MatchingTemplates(h.DB, req.Tags)

	if err != nil {
		log.Printf("matching templates: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load template catalog")
		return
	}

	project := models.Project{
		Name:           req.Name,
		Date:           projectDate,
		CreatorID:      userID,
		Tags:           req.Tags,
		Budget:         req.Budget,
		Area:           req.Area,
		Venue:          req.Venue,
		AmountOfPeople: req.AmountOfPeople,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		drafts := schedule.DeriveAll(projectDate, templates)
		if len(drafts) == 0 {
			return nil
		}

		assignments := make([]models.ProjectAssignment, 0, len(drafts))
		for _, d := range drafts {
			assignments = append(assignments, models.ProjectAssignment{
				TemplateID:           d.TemplateID,
				ProjectID:            project.ID,
				RecommendedStartDate: d.RecommendedStartDate,
				DueDate:              d.DueDate,
				EstimatedCompletion:  d.EstimatedCompletion,
				Important:            d.Important,
				Status:               d.Status,
			})
		}

		return tx.Create(&assignments).Error
	})

	if err != nil {
		log.Printf("creating project: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to create project")
		return
	}

	created, err := h.loadProject(project.ID)

	if err != nil {
		log.Printf("reloading project: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load created project")
		return
	}

	ctx.JSON(http.StatusCreated, toProjectResponse(h.DB, created, created.Assignments))
}

// ListProjects returns the projects the requester has any visibility
// relationship to, each with its assignment list already scoped.
func (h *ProjectHandler) ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, types.KindUnauthorized, "User not authenticated")
		return
	}

	var relatedIDs []uint

	if err := h.DB.Model(&models.ProjectEditor{}).Where("user_id = ?", userID).
		Pluck("project_id", &relatedIDs).Error; err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve projects")
		return
	}

	var assignedIDs []uint

	if err := h.DB.Model(&models.ProjectAssignment{}).Where("assignee_id = ?", userID).
		Distinct().Pluck("project_id", &assignedIDs).Error; err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve projects")
		return
	}

	relatedIDs = append(relatedIDs, assignedIDs...)

	query := h.DB.
		Preload("Editors.User").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("recommended_start_date ASC, id ASC")
		}).
		Preload("Assignments.Template").
		Preload("Assignments.Assignee").
		Order("id")

	if len(relatedIDs) > 0 {
		query = query.Where("creator_id = ? OR id IN ?", userID, relatedIDs)
	} else {
		query = query.Where("creator_id = ?", userID)
	}

	var projects []models.Project

	if err := query.Find(&projects).Error; err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve projects")
		return
	}

	response := []ProjectResponse{}

	for _, project := range projects {
		visible, ok := access.VisibleAssignments(project, userID)
		if !ok {
			continue
		}
		response = append(response, toProjectResponse(h.DB, project, visible))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProject returns one project through the access scoper. Requesters with
// no relationship get not-found rather than a hint the project exists.
func (h *ProjectHandler) GetProject(ctx *gin.Context) {
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

	ctx.JSON(http.StatusOK, toProjectResponse(h.DB, project, visible))
}

// UpdateProject patches allowed project fields. Creator and editors may
// edit; schedules of already-derived assignments are never recomputed.
func (h *ProjectHandler) UpdateProject(ctx *gin.Context) {
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

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Invalid request")
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

	switch access.Relationship(project, userID) {
	case access.RelationCreator, access.RelationEditor:
	case access.RelationNone:
		respondError(ctx, http.StatusNotFound, types.KindNotFound, "Project not found")
		return
	default:
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only the creator or an editor can edit this project")
		return
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		if *req.Name == "" {
			respondError(ctx, http.StatusBadRequest, types.KindValidation, "Name cannot be empty")
			return
		}
		updates["name"] = *req.Name
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondError(ctx, http.StatusBadRequest, types.KindValidation, "Date must be RFC3339 or YYYY-MM-DD")
			return
		}
		updates["date"] = date
	}
	if req.Tags != nil {
		if len(*req.Tags) == 0 {
			respondError(ctx, http.StatusBadRequest, types.KindValidation, "Tags cannot be empty")
			return
		}
		updates["tags"] = datatypes.NewJSONSlice(*req.Tags)
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}
	if req.Area != nil {
		updates["area"] = *req.Area
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.AmountOfPeople != nil {
		updates["amount_of_people"] = *req.AmountOfPeople
	}

	if len(updates) == 0 {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "No valid fields to update")
		return
	}

	if err := h.DB.Model(&models.Project{}).Where("id = ?", project.ID).Updates(updates).Error; err != nil {
		log.Printf("updating project: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to update project")
		return
	}

	updated, err := h.loadProject(project.ID)

	if err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load project")
		return
	}

	visible, _ := access.VisibleAssignments(updated, userID)
	ctx.JSON(http.StatusOK, toProjectResponse(h.DB, updated, visible))
}

// DeleteProject removes a project with all of its assignments, their
// comments and likes, in one transaction. Creator only.
func (h *ProjectHandler) DeleteProject(ctx *gin.Context) {
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

	switch access.Relationship(project, userID) {
	case access.RelationCreator:
	case access.RelationNone:
		respondError(ctx, http.StatusNotFound, types.KindNotFound, "Project not found")
		return
	default:
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only the creator can delete this project")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var assignmentIDs []uint
		if err := tx.Model(&models.ProjectAssignment{}).Where("project_id = ?", projectID).
			Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}

		if len(assignmentIDs) > 0 {
			var commentIDs []uint
			if err := tx.Model(&models.Comment{}).Where("assignment_id IN ?", assignmentIDs).
				Pluck("id", &commentIDs).Error; err != nil {
				return err
			}
			if len(commentIDs) > 0 {
				if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Like{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectAssignment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectEditor{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, projectID).Error
	})

	if err != nil {
		log.Printf("deleting project: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to delete project")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AddEditor grants a user editing rights on a project. Creator only; adding
// an existing editor is a conflict.
func (h *ProjectHandler) AddEditor(ctx *gin.Context) {
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

	var req AddEditorRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "user_id is required")
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

	switch access.Relationship(project, userID) {
	case access.RelationCreator:
	case access.RelationNone:
		respondError(ctx, http.StatusNotFound, types.KindNotFound, "Project not found")
		return
	default:
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only the creator can manage editors")
		return
	}

	for _, e := range project.Editors {
		if e.UserID == req.UserID {
			respondError(ctx, http.StatusConflict, types.KindConflict, "User is already an editor of this project")
			return
		}
	}

	var editorUser models.User

	if err := h.DB.First(&editorUser, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "User not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to retrieve user")
		}
		return
	}

	editor := models.ProjectEditor{ProjectID: projectID, UserID: req.UserID}

	if err := h.DB.Create(&editor).Error; err != nil {
		log.Printf("adding editor: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to add editor")
		return
	}

	updated, err := h.loadProject(projectID)

	if err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load project")
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(h.DB, updated, updated.Assignments))
}

// RemoveEditor revokes editing rights. Creator only; removing a user who is
// not an editor succeeds as a no-op.
func (h *ProjectHandler) RemoveEditor(ctx *gin.Context) {
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

	editorID, err := utils.GetUserID(ctx)

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

	switch access.Relationship(project, userID) {
	case access.RelationCreator:
	case access.RelationNone:
		respondError(ctx, http.StatusNotFound, types.KindNotFound, "Project not found")
		return
	default:
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Only the creator can manage editors")
		return
	}

	// Hard delete: a soft-deleted row would keep holding the
	// (project_id, user_id) unique index and block re-adding the editor.
	if err := h.DB.Unscoped().Where("project_id = ? AND user_id = ?", projectID, editorID).
		Delete(&models.ProjectEditor{}).Error; err != nil {
		log.Printf("removing editor: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to remove editor")
		return
	}

	updated, err := h.loadProject(projectID)

	if err != nil {
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Failed to load project")
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(h.DB, updated, updated.Assignments))
}
