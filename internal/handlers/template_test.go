package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora-dev/planora/internal/handlers"
	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/testutil"
)

func TestCreateTemplate_AdminOnly(t *testing.T) {
	r, conn := newTestServer(t)
	user := testutil.NewTestUser(t, conn, "user@example.com")

	admin := models.User{Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, conn.Create(&admin).Error)

	body := map[string]interface{}{
		"step": "Preparation",
		"name": "Order flowers",
		"tags": []string{"wedding"},
	}

	w := doJSON(t, r, http.MethodPost, "/api/templates", tokenFor(t, user), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/templates", tokenFor(t, admin), body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tpl handlers.TemplateResponse
	decode(t, w, &tpl)
	assert.Equal(t, "Order flowers", tpl.Name)
	assert.Equal(t, models.TemplateActive, tpl.Status)
}

func TestListTemplates(t *testing.T) {
	r, conn := newTestServer(t)
	user := testutil.NewTestUser(t, conn, "user@example.com")

	seedTemplate(t, conn, models.AssignmentTemplate{Step: "Prep", Name: "A", Tags: []string{"x"}})
	seedTemplate(t, conn, models.AssignmentTemplate{Step: "Prep", Name: "B", Tags: []string{"y"}})

	w := doJSON(t, r, http.MethodGet, "/api/templates", tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var templates []handlers.TemplateResponse
	decode(t, w, &templates)
	assert.Len(t, templates, 2)
}
