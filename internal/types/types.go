package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registered accounts. Password is a bcrypt hash and never leaves the server.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"size:256;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// A registered target URL plus its set of comments. OwnerID is empty for
// anonymous projects.
type Project struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	URL       string    `gorm:"size:2048;not null" json:"url"`
	OwnerID   string    `gorm:"size:36;index" json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectWithCount is the dashboard list shape.
type ProjectWithCount struct {
	Project
	CommentCount int64 `json:"comment_count"`
}

// A positioned annotation (pin). X and Y are percentages (0-100) of the
// bounding box of the element matched by Selector, not page pixels. An empty
// or "body" selector means X/Y are percentages of the document scroll size
// (legacy anchoring).
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;index;not null" json:"project_id"`
	UserID    string    `gorm:"size:36;index" json:"user_id,omitempty"`
	UserName  string    `gorm:"size:128;not null" json:"user_name"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	X         float64   `gorm:"not null" json:"x"`
	Y         float64   `gorm:"not null" json:"y"`
	Selector  string    `gorm:"size:1024" json:"selector"`
	Resolved  bool      `gorm:"default:false" json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Threaded reply under a comment. Append-only.
type Reply struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CommentID string    `gorm:"size:36;index;not null" json:"comment_id"`
	UserID    string    `gorm:"size:36;index" json:"user_id,omitempty"`
	UserName  string    `gorm:"size:128;not null" json:"user_name"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
