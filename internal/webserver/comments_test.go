package webserver

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pastelhq/pastel/internal/types"
)

func TestCreateAndListComments(t *testing.T) {
	r, _ := newTestServer(t)
	token, userID := signupUser(t, r, "alice")
	p := createProject(t, r, token, "https://example.com")

	cm := createComment(t, r, token, p.ID, "looks off here")
	assert.Equal(t, userID, cm.UserID)
	assert.Equal(t, "alice", cm.UserName)
	assert.Equal(t, 25.0, cm.X)
	assert.Equal(t, 75.0, cm.Y)
	assert.Equal(t, "div#app > p", cm.Selector)
	assert.False(t, cm.Resolved)

	w := doJSON(t, r, http.MethodGet, "/api/comments?projectId="+p.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []types.Comment
	decodeBody(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, cm.ID, list[0].ID)

	w = doJSON(t, r, http.MethodGet, "/api/comments", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCommentAnonymous(t *testing.T) {
	r, _ := newTestServer(t)
	p := createProject(t, r, "", "https://example.com")

	cm := createComment(t, r, "", p.ID, "drive-by feedback")
	assert.Empty(t, cm.UserID)
	assert.Equal(t, "Anonymous", cm.UserName)
}

func TestCreateCommentValidation(t *testing.T) {
	r, _ := newTestServer(t)
	token, _ := signupUser(t, r, "alice")
	p := createProject(t, r, token, "https://example.com")

	w := doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"projectId": "missing", "text": "hi", "x": 1.0, "y": 1.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"projectId": p.ID, "text": "hi", "x": 150.0, "y": 1.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"projectId": p.ID, "x": 1.0, "y": 1.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentTextSanitized(t *testing.T) {
	r, _ := newTestServer(t)
	token, _ := signupUser(t, r, "alice")
	p := createProject(t, r, token, "https://example.com")

	cm := createComment(t, r, token, p.ID, `hello <script>alert(1)</script><b>world</b>`)
	assert.Equal(t, "hello world", cm.Text)

	// A payload that sanitizes to nothing is rejected.
	w := doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"projectId": p.ID, "text": "<script>only</script>", "x": 1.0, "y": 1.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Edits are author-only; resolve and delete extend to the project owner.
func TestCommentAuthorization(t *testing.T) {
	r, _ := newTestServer(t)
	owner, _ := signupUser(t, r, "owner")
	author, _ := signupUser(t, r, "author")
	stranger, _ := signupUser(t, r, "stranger")

	p := createProject(t, r, owner, "https://example.com")

	cases := []struct {
		name   string
		actor  string
		method string
		path   string
		body   gin.H
		want   int
	}{
		{"author edits own text", author, http.MethodPut, "", gin.H{"text": "edited"}, http.StatusOK},
		{"owner cannot edit text", owner, http.MethodPut, "", gin.H{"text": "hijacked"}, http.StatusForbidden},
		{"stranger cannot edit text", stranger, http.MethodPut, "", gin.H{"text": "nope"}, http.StatusForbidden},
		{"author moves own pin", author, http.MethodPatch, "/position", gin.H{"x": 10.0, "y": 20.0}, http.StatusOK},
		{"owner cannot move pin", owner, http.MethodPatch, "/position", gin.H{"x": 1.0, "y": 1.0}, http.StatusForbidden},
		{"author resolves", author, http.MethodPatch, "/resolve", gin.H{"resolved": true}, http.StatusOK},
		{"owner resolves", owner, http.MethodPatch, "/resolve", gin.H{"resolved": false}, http.StatusOK},
		{"stranger cannot resolve", stranger, http.MethodPatch, "/resolve", gin.H{"resolved": true}, http.StatusForbidden},
		{"stranger cannot delete", stranger, http.MethodDelete, "", nil, http.StatusForbidden},
		{"owner deletes", owner, http.MethodDelete, "", nil, http.StatusOK},
	}

	cm := createComment(t, r, author, p.ID, "discuss")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, tc.method, "/api/comments/"+cm.ID+tc.path, tc.actor, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestAuthorDeletesOwnComment(t *testing.T) {
	r, db := newTestServer(t)
	author, _ := signupUser(t, r, "author")
	p := createProject(t, r, "", "https://example.com")
	cm := createComment(t, r, author, p.ID, "mine to remove")
	w := doJSON(t, r, http.MethodPost, "/api/replies", author, gin.H{"commentId": cm.ID, "text": "thread"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/comments/"+cm.ID, author, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var n int64
	db.Model(&types.Reply{}).Where("comment_id = ?", cm.ID).Count(&n)
	assert.Zero(t, n)
}

func TestResolveRoundTrip(t *testing.T) {
	r, _ := newTestServer(t)
	token, _ := signupUser(t, r, "alice")
	p := createProject(t, r, token, "https://example.com")
	cm := createComment(t, r, token, p.ID, "fix me")

	w := doJSON(t, r, http.MethodPatch, "/api/comments/"+cm.ID+"/resolve", token, gin.H{"resolved": true})
	require.Equal(t, http.StatusOK, w.Code)
	var got types.Comment
	decodeBody(t, w, &got)
	assert.True(t, got.Resolved)

	w = doJSON(t, r, http.MethodPatch, "/api/comments/"+cm.ID+"/resolve", token, gin.H{"resolved": false})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &got)
	assert.False(t, got.Resolved)
}

func TestAnonymousCommentRateLimited(t *testing.T) {
	r, _ := newTestServer(t)
	p := createProject(t, r, "", "https://example.com")

	var limited bool
	for i := 0; i < 10; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/comments", "", gin.H{
			"projectId": p.ID, "text": "spam", "x": 1.0, "y": 1.0,
		})
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.True(t, limited)
}
