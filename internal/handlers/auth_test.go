package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/testutil"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "Alice@Example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg authResponse
	decode(t, w, &reg)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice@example.com", reg.User.Email, "emails are normalized")
	assert.Equal(t, models.RoleUser, reg.User.Role)

	// Duplicate registration conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"password": "another pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login authResponse
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	r, _ := newTestServer(t)

	cases := []map[string]string{
		{"password": "long enough"},
		{"email": "alice@example.com"},
		{"email": "not-an-email", "password": "long enough"},
		{"email": "alice@example.com", "password": "short"},
	}

	for i, body := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d", i)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := doJSON(t, r, http.MethodGet, "/api/projects", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, req.Code)
}

func TestGetUser_SelfOrAdmin(t *testing.T) {
	r, conn := newTestServer(t)
	alice := testutil.NewTestUser(t, conn, "alice@example.com")
	bob := testutil.NewTestUser(t, conn, "bob@example.com")

	admin := models.User{Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, conn.Create(&admin).Error)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), tokenFor(t, alice), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
