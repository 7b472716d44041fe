package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Name           string    `gorm:"not null"`
	Date           time.Time `gorm:"not null"` // anchor date all template offsets are relative to
	CreatorID      uint      `gorm:"not null;index"`
	Tags           datatypes.JSONSlice[string]
	Budget         float64 `gorm:"default:0"`
	Area           string
	Venue          string
	AmountOfPeople int

	// Relationships
	Creator     User                `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Editors     []ProjectEditor     `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignments []ProjectAssignment `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
