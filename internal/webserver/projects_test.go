package webserver

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pastelhq/pastel/internal/types"
)

func TestCreateProject(t *testing.T) {
	r, _ := newTestServer(t)
	token, userID := signupUser(t, r, "owner")

	p := createProject(t, r, token, "https://example.com")
	assert.Equal(t, userID, p.OwnerID)
	assert.Equal(t, "https://example.com", p.URL)

	// Anonymous creation is allowed, just unowned.
	anon := createProject(t, r, "", "https://example.org")
	assert.Empty(t, anon.OwnerID)

	w := doJSON(t, r, http.MethodPost, "/api/projects", token, gin.H{"url": "ftp://example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/projects", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjectsWithCounts(t *testing.T) {
	r, _ := newTestServer(t)
	token, _ := signupUser(t, r, "owner")
	other, _ := signupUser(t, r, "other")

	mine := createProject(t, r, token, "https://example.com")
	createProject(t, r, other, "https://example.net")
	createComment(t, r, token, mine.ID, "first")
	createComment(t, r, token, mine.ID, "second")

	w := doJSON(t, r, http.MethodGet, "/api/projects", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []types.ProjectWithCount
	decodeBody(t, w, &out)
	require.Len(t, out, 1)
	assert.Equal(t, mine.ID, out[0].ID)
	assert.Equal(t, int64(2), out[0].CommentCount)
}

func TestGetProject(t *testing.T) {
	r, _ := newTestServer(t)
	p := createProject(t, r, "", "https://example.com")

	// Public lookup, no token needed.
	w := doJSON(t, r, http.MethodGet, "/api/projects/"+p.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/projects/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProjectCascades(t *testing.T) {
	r, db := newTestServer(t)
	token, _ := signupUser(t, r, "owner")
	stranger, _ := signupUser(t, r, "stranger")

	p := createProject(t, r, token, "https://example.com")
	cm := createComment(t, r, token, p.ID, "to be removed")
	w := doJSON(t, r, http.MethodPost, "/api/replies", token, gin.H{"commentId": cm.ID, "text": "me too"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/projects/"+p.ID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/projects/"+p.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var n int64
	db.Model(&types.Comment{}).Where("project_id = ?", p.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&types.Reply{}).Where("comment_id = ?", cm.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&types.Project{}).Where("id = ?", p.ID).Count(&n)
	assert.Zero(t, n)
}

func TestDeleteAnonymousProjectForbidden(t *testing.T) {
	r, _ := newTestServer(t)
	token, _ := signupUser(t, r, "someone")
	p := createProject(t, r, "", "https://example.com")

	// Unowned projects cannot be deleted by anyone.
	w := doJSON(t, r, http.MethodDelete, "/api/projects/"+p.ID, token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
