package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/handlers"
	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/testutil"
)

// fixture creates a creator, one project and one derived assignment.
func fixture(t *testing.T) (*gin.Engine, *gorm.DB, models.User, handlers.ProjectResponse) {
	t.Helper()

	r, conn := newTestServer(t)
	creator := testutil.NewTestUser(t, conn, "creator@example.com")

	seedTemplate(t, conn, models.AssignmentTemplate{
		Step: "Preparation", Name: "Send invitations",
		RecommendedStartOffsetDays: daysPtr(5),
		Tags:                       []string{"wedding"},
	})

	project := createProject(t, r, tokenFor(t, creator), []string{"wedding"})
	require.Len(t, project.Assignments, 1)

	return r, conn, creator, project
}

func TestUpdateStatus_DirectSetAndIdempotent(t *testing.T) {
	r, _, creator, project := fixture(t)
	token := tokenFor(t, creator)
	path := fmt.Sprintf("/api/assignments/%d/status", project.Assignments[0].ID)

	w := doJSON(t, r, http.MethodPatch, path, token, map[string]string{"status": models.StatusInProgress})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handlers.AssignmentResponse
	decode(t, w, &resp)
	assert.Equal(t, models.StatusInProgress, resp.Status)

	// Resending the same transition must succeed and not advance further.
	w = doJSON(t, r, http.MethodPatch, path, token, map[string]string{"status": models.StatusInProgress})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, models.StatusInProgress, resp.Status)
}

func TestUpdateStatus_RejectsInvalidValues(t *testing.T) {
	r, _, creator, project := fixture(t)
	token := tokenFor(t, creator)
	path := fmt.Sprintf("/api/assignments/%d/status", project.Assignments[0].ID)

	for _, status := range []string{"Cancelled", "pending", "In Progress", ""} {
		w := doJSON(t, r, http.MethodPatch, path, token, map[string]string{"status": status})
		assert.Equal(t, http.StatusBadRequest, w.Code, "status %q", status)
	}
}

func TestUpdateStatus_NonexistentAssignment(t *testing.T) {
	r, conn := newTestServer(t)
	user := testutil.NewTestUser(t, conn, "user@example.com")

	w := doJSON(t, r, http.MethodPatch, "/api/assignments/4242/status", tokenFor(t, user),
		map[string]string{"status": models.StatusDone})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateImportance(t *testing.T) {
	r, _, creator, project := fixture(t)
	token := tokenFor(t, creator)
	path := fmt.Sprintf("/api/assignments/%d/importance", project.Assignments[0].ID)

	w := doJSON(t, r, http.MethodPatch, path, token, map[string]bool{"important": true})
	require.Equal(t, http.StatusOK, w.Code)

	var resp handlers.AssignmentResponse
	decode(t, w, &resp)
	assert.True(t, resp.Important)

	w = doJSON(t, r, http.MethodPatch, path, token, map[string]interface{}{"important": "yes"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAssignee_CreatorOnly(t *testing.T) {
	r, conn, creator, project := fixture(t)
	worker := testutil.NewTestUser(t, conn, "worker@example.com")
	token := tokenFor(t, creator)
	path := fmt.Sprintf("/api/assignments/%d/assignee", project.Assignments[0].ID)

	w := doJSON(t, r, http.MethodPatch, path, token, map[string]interface{}{"assignee_id": worker.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handlers.AssignmentResponse
	decode(t, w, &resp)
	require.NotNil(t, resp.Assignee)
	assert.Equal(t, worker.ID, resp.Assignee.ID)

	// The assignee can now see the assignment but cannot reassign it.
	w = doJSON(t, r, http.MethodPatch, path, tokenFor(t, worker), map[string]interface{}{"assignee_id": nil})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPatch, path, token, map[string]interface{}{"assignee_id": uint(9999)})
	assert.Equal(t, http.StatusNotFound, w.Code, "unknown assignee user")

	w = doJSON(t, r, http.MethodPatch, path, token, map[string]interface{}{"assignee_id": nil})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Nil(t, resp.Assignee, "null unassigns the task")
}

func TestUpdateDates(t *testing.T) {
	r, _, creator, project := fixture(t)
	token := tokenFor(t, creator)
	id := project.Assignments[0].ID

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/assignments/%d/start-date", id), token,
		map[string]string{"recommended_start_date": "2026-09-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handlers.AssignmentResponse
	decode(t, w, &resp)
	assert.True(t, resp.RecommendedStartDate.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/assignments/%d/dates", id), token,
		map[string]interface{}{"due_date": "2026-09-10", "estimated_completion": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &resp)
	require.NotNil(t, resp.DueDate)
	assert.True(t, resp.DueDate.Equal(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, resp.EstimatedCompletion)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/assignments/%d/dates", id), token,
		map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "at least one date field is required")
}

func TestAssignmentVisibility(t *testing.T) {
	r, conn, _, project := fixture(t)
	stranger := testutil.NewTestUser(t, conn, "stranger@example.com")

	path := fmt.Sprintf("/api/assignments/%d", project.Assignments[0].ID)
	w := doJSON(t, r, http.MethodGet, path, tokenFor(t, stranger), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "strangers must not learn the assignment exists")
}

func TestDeleteAssignment_CascadesComments(t *testing.T) {
	r, conn, creator, project := fixture(t)
	worker := testutil.NewTestUser(t, conn, "worker@example.com")
	token := tokenFor(t, creator)
	id := project.Assignments[0].ID

	require.NoError(t, conn.Model(&models.ProjectAssignment{}).
		Where("id = ?", id).Update("assignee_id", worker.ID).Error)

	comment := models.Comment{AssignmentID: id, AuthorID: creator.ID, Content: "checklist"}
	require.NoError(t, conn.Create(&comment).Error)
	require.NoError(t, conn.Create(&models.Like{UserID: creator.ID, CommentID: comment.ID}).Error)

	path := fmt.Sprintf("/api/assignments/%d", id)

	w := doJSON(t, r, http.MethodDelete, path, tokenFor(t, worker), nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "assignees cannot delete assignments")

	w = doJSON(t, r, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var assignments, comments, likes int64
	conn.Model(&models.ProjectAssignment{}).Count(&assignments)
	conn.Model(&models.Comment{}).Count(&comments)
	conn.Model(&models.Like{}).Count(&likes)
	assert.Zero(t, assignments)
	assert.Zero(t, comments)
	assert.Zero(t, likes)
}
