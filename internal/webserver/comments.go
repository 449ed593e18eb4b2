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

type Comments struct {
	db        *gorm.DB
	hub       *realtime.Hub
	sanitizer *bluemonday.Policy
}

func NewComments(db *gorm.DB, hub *realtime.Hub) Comments {
	// Pin text renders inside third-party pages; strip all markup.
	return Comments{db: db, hub: hub, sanitizer: bluemonday.StrictPolicy()}
}

func (m Comments) List(c *gin.Context) {
	projectID := c.Query("projectId")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "projectId required"})
		return
	}

	var comments []types.Comment
	if err := m.db.Where("project_id = ?", projectID).Order("created_at asc").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (m Comments) Create(c *gin.Context) {
	var req struct {
		ProjectID string  `json:"projectId" binding:"required"`
		Text      string  `json:"text" binding:"required,min=1,max=4000"`
		X         float64 `json:"x" binding:"min=0,max=100"`
		Y         float64 `json:"y" binding:"min=0,max=100"`
		Selector  string  `json:"selector" binding:"max=1024"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var project types.Project
	if err := m.db.First(&project, "id = ?", req.ProjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "project not found"})
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

	comment := types.Comment{
		ProjectID: req.ProjectID,
		UserID:    c.GetString("userID"),
		UserName:  m.sanitizer.Sanitize(userName),
		Text:      text,
		X:         req.X,
		Y:         req.Y,
		Selector:  req.Selector,
	}
	if err := m.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	m.hub.Broadcast(c.Request.Context(), comment.ProjectID, realtime.Event{
		Type: realtime.EventCommentAdded,
		Data: comment,
	})
	c.JSON(http.StatusOK, comment)
}

// Update edits the comment text. Author only: the project owner moderates
// via resolve/delete, not by rewriting other people's words.
func (m Comments) Update(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required,min=1,max=4000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "text required"})
		return
	}

	var comment types.Comment
	if err := m.db.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "comment not found"})
		return
	}
	if !isAuthor(comment.UserID, c.GetString("userID")) {
		c.JSON(http.StatusForbidden, gin.H{"err": "unauthorized"})
		return
	}

	text := strings.TrimSpace(m.sanitizer.Sanitize(req.Text))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "text required"})
		return
	}
	if err := m.db.Model(&comment).Update("text", text).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	m.broadcastUpdated(c, comment)
	c.JSON(http.StatusOK, comment)
}

// UpdatePosition moves a pin (drag). Author only.
func (m Comments) UpdatePosition(c *gin.Context) {
	var req struct {
		X float64 `json:"x" binding:"min=0,max=100"`
		Y float64 `json:"y" binding:"min=0,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var comment types.Comment
	if err := m.db.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "comment not found"})
		return
	}
	if !isAuthor(comment.UserID, c.GetString("userID")) {
		c.JSON(http.StatusForbidden, gin.H{"err": "unauthorized"})
		return
	}

	if err := m.db.Model(&comment).Updates(map[string]any{"x": req.X, "y": req.Y}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	m.broadcastUpdated(c, comment)
	c.JSON(http.StatusOK, comment)
}

// Resolve toggles resolution state. Author or project owner.
func (m Comments) Resolve(c *gin.Context) {
	var req struct {
		Resolved *bool `json:"resolved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "resolved required"})
		return
	}

	var comment types.Comment
	if err := m.db.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "comment not found"})
		return
	}
	if !m.canModerate(comment, c.GetString("userID")) {
		c.JSON(http.StatusForbidden, gin.H{"err": "unauthorized"})
		return
	}

	if err := m.db.Model(&comment).Update("resolved", *req.Resolved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	m.broadcastUpdated(c, comment)
	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment and its replies. Author or project owner.
func (m Comments) Delete(c *gin.Context) {
	var comment types.Comment
	if err := m.db.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "comment not found"})
		return
	}
	if !m.canModerate(comment, c.GetString("userID")) {
		c.JSON(http.StatusForbidden, gin.H{"err": "unauthorized"})
		return
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&types.Reply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	m.hub.Broadcast(c.Request.Context(), comment.ProjectID, realtime.Event{
		Type: realtime.EventCommentDeleted,
		Data: realtime.CommentDeletedPayload{ID: comment.ID},
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (m Comments) broadcastUpdated(c *gin.Context, comment types.Comment) {
	// Text edits, resolve toggles and drags are all the same update event;
	// receivers replace the record wholesale.
	m.hub.Broadcast(c.Request.Context(), comment.ProjectID, realtime.Event{
		Type: realtime.EventCommentUpdated,
		Data: comment,
	})
}

func isAuthor(ownerID, userID string) bool {
	return ownerID != "" && ownerID == userID
}

// canModerate implements the author-or-project-owner rule for resolve and
// delete.
func (m Comments) canModerate(comment types.Comment, userID string) bool {
	if isAuthor(comment.UserID, userID) {
		return true
	}
	var project types.Project
	if err := m.db.First(&project, "id = ?", comment.ProjectID).Error; err != nil {
		return false
	}
	return isAuthor(project.OwnerID, userID)
}
