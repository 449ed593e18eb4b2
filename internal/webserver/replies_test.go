package webserver

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pastelhq/pastel/internal/types"
)

func TestReplyThread(t *testing.T) {
	r, _ := newTestServer(t)
	token, userID := signupUser(t, r, "alice")
	p := createProject(t, r, token, "https://example.com")
	cm := createComment(t, r, token, p.ID, "root comment")

	w := doJSON(t, r, http.MethodPost, "/api/replies", token, gin.H{
		"commentId": cm.ID, "text": "first <i>reply</i>",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reply types.Reply
	decodeBody(t, w, &reply)
	assert.Equal(t, userID, reply.UserID)
	assert.Equal(t, "first reply", reply.Text)

	// Anonymous reply to the same thread.
	w = doJSON(t, r, http.MethodPost, "/api/replies", "", gin.H{
		"commentId": cm.ID, "text": "second",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var anon types.Reply
	decodeBody(t, w, &anon)
	assert.Equal(t, "Anonymous", anon.UserName)

	w = doJSON(t, r, http.MethodGet, "/api/replies?commentId="+cm.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []types.Reply
	decodeBody(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "first reply", list[0].Text)

	w = doJSON(t, r, http.MethodGet, "/api/replies", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplyToMissingComment(t *testing.T) {
	r, _ := newTestServer(t)
	token, _ := signupUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/replies", token, gin.H{
		"commentId": "missing", "text": "hello",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReplyAuthorization(t *testing.T) {
	r, _ := newTestServer(t)
	owner, _ := signupUser(t, r, "owner")
	author, _ := signupUser(t, r, "author")
	stranger, _ := signupUser(t, r, "stranger")

	p := createProject(t, r, owner, "https://example.com")
	cm := createComment(t, r, owner, p.ID, "thread root")

	post := func(tok string) types.Reply {
		w := doJSON(t, r, http.MethodPost, "/api/replies", tok, gin.H{"commentId": cm.ID, "text": "a reply"})
		require.Equal(t, http.StatusOK, w.Code)
		var rep types.Reply
		decodeBody(t, w, &rep)
		return rep
	}

	rep := post(author)
	w := doJSON(t, r, http.MethodDelete, "/api/replies/"+rep.ID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/replies/"+rep.ID, author, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Project owner may remove replies they did not write.
	rep = post(author)
	w = doJSON(t, r, http.MethodDelete, "/api/replies/"+rep.ID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/replies/missing", owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
