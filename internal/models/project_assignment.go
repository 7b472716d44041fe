package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusDone       = "Done"
)

// ProjectAssignment is a task instance derived once from a template at
// project-creation time and mutated field-by-field afterwards.
type ProjectAssignment struct {
	gorm.Model

	TemplateID           uint  `gorm:"not null;uniqueIndex:idx_project_template"`
	ProjectID            uint  `gorm:"not null;uniqueIndex:idx_project_template;index"`
	AssigneeID           *uint `gorm:"index"`
	RecommendedStartDate time.Time `gorm:"not null"`
	DueDate              *time.Time
	EstimatedCompletion  *time.Time
	Important            bool   `gorm:"default:false"`
	Status               string `gorm:"not null;default:Pending"`

	// Relationships
	Template AssignmentTemplate `gorm:"foreignKey:TemplateID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project  Project            `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Assignee *User              `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments []Comment          `gorm:"foreignKey:AssignmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
