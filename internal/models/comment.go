package models

import "gorm.io/gorm"

// Comment has two delete mechanisms. User-facing deletion sets IsDeleted and
// keeps the row readable for audit; read paths filter through ActiveComments.
// The gorm.Model DeletedAt column is touched only by the cascade paths when an
// assignment or project is removed. Never filter reads on DeletedAt alone.
type Comment struct {
	gorm.Model

	AssignmentID uint   `gorm:"not null;index"`
	AuthorID     uint   `gorm:"not null;index"`
	Content      string `gorm:"not null;size:1000"`
	IsEdited     bool   `gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`

	// Relationships
	Assignment ProjectAssignment `gorm:"foreignKey:AssignmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Author     User              `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Likes      []Like            `gorm:"foreignKey:CommentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// ActiveComments is the soft-delete filter applied at every comment read site.
func ActiveComments(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}
