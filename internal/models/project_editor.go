package models

import "gorm.io/gorm"

// ProjectEditor links a user to a project as an editor. Editing rights do not
// imply visibility of other members' assignments.
type ProjectEditor struct {
	gorm.Model

	ProjectID uint `gorm:"not null;uniqueIndex:idx_project_editor"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_project_editor"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
