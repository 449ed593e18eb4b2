package webserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/pastelhq/pastel/internal/realtime"
	"github.com/pastelhq/pastel/internal/types"
)

type Replies struct {
	db        *gorm.DB
	hub       *realtime.Hub
	sanitizer *bluemonday.Policy
}

func NewReplies(db *gorm.DB, hub *realtime.Hub) Replies {
	return Replies{db: db, hub: hub, sanitizer: bluemonday.StrictPolicy()}
}

func (m Replies) List(c *gin.Context) {
	commentID := c.Query("commentId")
	if commentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "commentId required"})
		return
	}

	var replies []types.Reply
	if err := m.db.Where("comment_id = ?", commentID).Order("created_at asc").Find(&replies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, replies)
}

func (m Replies) Create(c *gin.Context) {
	var req struct {
		CommentID string `json:"commentId" binding:"required"`
		Text      string `json:"text" binding:"required,min=1,max=4000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var comment types.Comment
	if err := m.db.First(&comment, "id = ?", req.CommentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "comment not found"})
		return
	}

	text := strings.TrimSpace(m.sanitizer.Sanitize(req.Text))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "text required"})
		return
	}

	userName := c.GetString("userName")
	if userName == "" {
		userName = "Anonymous"
	}

	reply := types.Reply{
		CommentID: req.CommentID,
		UserID:    c.GetString("userID"),
		UserName:  m.sanitizer.Sanitize(userName),
		Text:      text,
	}
	if err := m.db.Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	m.hub.Broadcast(c.Request.Context(), comment.ProjectID, realtime.Event{
		Type: realtime.EventReplyAdded,
		Data: reply,
	})
	c.JSON(http.StatusOK, reply)
}

func (m Replies) Delete(c *gin.Context) {
	var reply types.Reply
	if err := m.db.First(&reply, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "reply not found"})
		return
	}

	var comment types.Comment
	if err := m.db.First(&comment, "id = ?", reply.CommentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "comment not found"})
		return
	}

	userID := c.GetString("userID")
	allowed := isAuthor(reply.UserID, userID)
	if !allowed {
		var project types.Project
		if err := m.db.First(&project, "id = ?", comment.ProjectID).Error; err == nil {
			allowed = isAuthor(project.OwnerID, userID)
		}
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"err": "unauthorized"})
		return
	}

	if err := m.db.Delete(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	// Receivers refetch the thread; a dedicated reply_deleted event is not
	// part of the protocol.
	m.hub.Broadcast(c.Request.Context(), comment.ProjectID, realtime.Event{
		Type: realtime.EventCommentUpdated,
		Data: comment,
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}
