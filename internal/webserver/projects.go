package webserver

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pastelhq/pastel/internal/types"
)

type Projects struct {
	db *gorm.DB
}

func NewProjects(db *gorm.DB) Projects {
	return Projects{db: db}
}

func (p Projects) Create(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required,max=2048"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "url required"})
		return
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		c.JSON(http.StatusBadRequest, gin.H{"err": "url must be http or https"})
		return
	}

	// Anonymous projects are allowed; they just have no owner to delete them.
	project := types.Project{URL: req.URL, OwnerID: c.GetString("userID")}
	if err := p.db.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (p Projects) List(c *gin.Context) {
	userID := c.GetString("userID")

	var projects []types.Project
	if err := p.db.Where("owner_id = ?", userID).Order("created_at desc").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	out := make([]types.ProjectWithCount, 0, len(projects))
	for _, proj := range projects {
		var count int64
		p.db.Model(&types.Comment{}).Where("project_id = ?", proj.ID).Count(&count)
		out = append(out, types.ProjectWithCount{Project: proj, CommentCount: count})
	}
	c.JSON(http.StatusOK, out)
}

func (p Projects) Get(c *gin.Context) {
	var project types.Project
	if err := p.db.First(&project, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (p Projects) Delete(c *gin.Context) {
	var project types.Project
	if err := p.db.First(&project, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "project not found"})
		return
	}
	if project.OwnerID == "" || project.OwnerID != c.GetString("userID") {
		c.JSON(http.StatusForbidden, gin.H{"err": "unauthorized"})
		return
	}

	// Deletion cascades to the project's comments and their replies.
	err := p.db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&types.Comment{}).Select("id").Where("project_id = ?", project.ID)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&types.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&types.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
