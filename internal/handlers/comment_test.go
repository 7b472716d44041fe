package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora-dev/planora/internal/handlers"
	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/testutil"
)

func TestCommentLifecycle(t *testing.T) {
	r, _, creator, project := fixture(t)
	token := tokenFor(t, creator)
	base := fmt.Sprintf("/api/assignments/%d/comments", project.Assignments[0].ID)

	w := doJSON(t, r, http.MethodPost, base, token, map[string]string{"content": "First note"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var comment handlers.CommentResponse
	decode(t, w, &comment)
	assert.Equal(t, "First note", comment.Content)
	assert.Equal(t, creator.ID, comment.Author.ID)
	assert.False(t, comment.IsEdited)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("%s/%d", base, comment.ID), token,
		map[string]string{"content": "First note, revised"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &comment)
	assert.Equal(t, "First note, revised", comment.Content)
	assert.True(t, comment.IsEdited, "edits are marked")

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", base, comment.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var listed []handlers.CommentResponse
	w = doJSON(t, r, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	assert.Empty(t, listed, "soft-deleted comments disappear from reads")

	// The deleted comment can no longer be edited.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("%s/%d", base, comment.ID), token,
		map[string]string{"content": "too late"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComment_OnlyAuthorEdits(t *testing.T) {
	r, conn, creator, project := fixture(t)
	worker := testutil.NewTestUser(t, conn, "worker@example.com")
	assignmentID := project.Assignments[0].ID

	require.NoError(t, conn.Model(&models.ProjectAssignment{}).
		Where("id = ?", assignmentID).Update("assignee_id", worker.ID).Error)

	base := fmt.Sprintf("/api/assignments/%d/comments", assignmentID)

	w := doJSON(t, r, http.MethodPost, base, tokenFor(t, worker), map[string]string{"content": "status update"})
	require.Equal(t, http.StatusCreated, w.Code)

	var comment handlers.CommentResponse
	decode(t, w, &comment)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("%s/%d", base, comment.ID), tokenFor(t, creator),
		map[string]string{"content": "rewritten"})
	assert.Equal(t, http.StatusForbidden, w.Code, "only the author edits a comment")

	// The project creator may still delete it.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", base, comment.ID), tokenFor(t, creator), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLikeToggle(t *testing.T) {
	r, conn, creator, project := fixture(t)
	token := tokenFor(t, creator)
	base := fmt.Sprintf("/api/assignments/%d/comments", project.Assignments[0].ID)

	w := doJSON(t, r, http.MethodPost, base, token, map[string]string{"content": "like me"})
	require.Equal(t, http.StatusCreated, w.Code)

	var comment handlers.CommentResponse
	decode(t, w, &comment)

	likePath := fmt.Sprintf("%s/%d/like", base, comment.ID)

	w = doJSON(t, r, http.MethodPost, likePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &comment)
	assert.True(t, comment.Liked)
	assert.Equal(t, int64(1), comment.LikeCount)

	// Toggling again removes the like; the count stays tied to like rows.
	w = doJSON(t, r, http.MethodPost, likePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &comment)
	assert.False(t, comment.Liked)
	assert.Equal(t, int64(0), comment.LikeCount)

	var likes int64
	conn.Model(&models.Like{}).Count(&likes)
	assert.Zero(t, likes)

	// Like again after an unlike works; the unique index does not trip.
	w = doJSON(t, r, http.MethodPost, likePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &comment)
	assert.True(t, comment.Liked)
	assert.Equal(t, int64(1), comment.LikeCount)
}

func TestComment_Validation(t *testing.T) {
	r, _, creator, project := fixture(t)
	token := tokenFor(t, creator)
	base := fmt.Sprintf("/api/assignments/%d/comments", project.Assignments[0].ID)

	w := doJSON(t, r, http.MethodPost, base, token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "content is required")

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	w = doJSON(t, r, http.MethodPost, base, token, map[string]string{"content": string(long)})
	assert.Equal(t, http.StatusBadRequest, w.Code, "content is capped at 1000 characters")
}

func TestComment_LikeCountDegradesOnStorageError(t *testing.T) {
	r, conn, creator, project := fixture(t)
	token := tokenFor(t, creator)
	base := fmt.Sprintf("/api/assignments/%d/comments", project.Assignments[0].ID)

	w := doJSON(t, r, http.MethodPost, base, token, map[string]string{"content": "note"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A broken like store must not take comment reads down with it.
	require.NoError(t, conn.Migrator().DropTable(&models.Like{}))

	var listed []handlers.CommentResponse
	w = doJSON(t, r, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(0), listed[0].LikeCount)
	assert.False(t, listed[0].Liked)
}
