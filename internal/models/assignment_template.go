package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TemplateActive  = "Active"
	TemplateRetired = "Retired"
)

// AssignmentTemplate is a catalog entry describing a reusable task kind.
// Derived assignments never recompute from a later template edit.
type AssignmentTemplate struct {
	gorm.Model

	Step                       string `gorm:"not null"` // category label
	Name                       string `gorm:"not null"`
	EstimatedDurationHours     *float64
	RecommendedStartOffsetDays *int // days before the project date
	IsOngoing                  bool `gorm:"default:false"`
	IsDayOf                    bool `gorm:"default:false"`
	Tags                       datatypes.JSONSlice[string]
	Status                     string `gorm:"not null;default:Active"`
}
