// Package schedule converts assignment-template metadata into concrete, dated
// drafts for a project. Derivation happens exactly once, at project-creation
// time; later template edits never touch existing assignments.
package schedule

import (
	"time"

	"github.com/planora-dev/planora/internal/models"
)

// Draft is a candidate ProjectAssignment before persistence. It carries no
// IDs because the project may not exist yet when drafts are computed.
type Draft struct {
	TemplateID           uint
	RecommendedStartDate time.Time
	DueDate              *time.Time
	EstimatedCompletion  *time.Time
	Important            bool
	Status               string
}

// Derive applies one of three mutually exclusive scheduling policies, picked
// by template flags in priority order: day-of, ongoing, offset.
func Derive(projectDate time.Time, tpl models.AssignmentTemplate) Draft {
	draft := Draft{
		TemplateID: tpl.ID,
		Important:  tpl.IsDayOf,
		Status:     models.StatusPending,
	}

	switch {
	case tpl.IsDayOf:
		// Anchored to the project date itself. When both flags are set,
		// day-of wins.
		draft.RecommendedStartDate = projectDate
		due := projectDate
		draft.DueDate = &due
		if tpl.EstimatedDurationHours != nil {
			done := projectDate.Add(hours(*tpl.EstimatedDurationHours))
			draft.EstimatedCompletion = &done
		}

	case tpl.IsOngoing:
		// Active for the project's whole lifecycle, no fixed end.
		draft.RecommendedStartDate = projectDate

	default:
		// Offset-scheduled: start N days before the project date. A missing
		// offset means the task starts on the project date.
		offset := 0
		if tpl.RecommendedStartOffsetDays != nil {
			offset = *tpl.RecommendedStartOffsetDays
		}
		start := projectDate.AddDate(0, 0, -offset)
		draft.RecommendedStartDate = start
		if tpl.EstimatedDurationHours != nil {
			done := start.Add(hours(*tpl.EstimatedDurationHours))
			draft.DueDate = &done
			draft.EstimatedCompletion = &done
		} else {
			due := start
			draft.DueDate = &due
		}
	}

	return draft
}

// DeriveAll maps templates to drafts, preserving catalog order.
func DeriveAll(projectDate time.Time, templates []models.AssignmentTemplate) []Draft {
	drafts := make([]Draft, 0, len(templates))
	for _, tpl := range templates {
		drafts = append(drafts, Derive(projectDate, tpl))
	}
	return drafts
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
