package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/models"
)

func hoursPtr(h float64) *float64 { return &h }
func daysPtr(d int) *int          { return &d }

func gormModel(id uint) gorm.Model { return gorm.Model{ID: id} }

var projectDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

func TestDerive_DayOf(t *testing.T) {
	tpl := models.AssignmentTemplate{
		IsDayOf:                true,
		EstimatedDurationHours: hoursPtr(3),
	}

	draft := Derive(projectDate, tpl)

	assert.Equal(t, projectDate, draft.RecommendedStartDate)
	require.NotNil(t, draft.DueDate)
	assert.Equal(t, projectDate, *draft.DueDate)
	require.NotNil(t, draft.EstimatedCompletion)
	assert.Equal(t, projectDate.Add(3*time.Hour), *draft.EstimatedCompletion)
	assert.True(t, draft.Important, "day-of templates seed importance")
	assert.Equal(t, models.StatusPending, draft.Status)
}

func TestDerive_DayOf_NoDuration(t *testing.T) {
	tpl := models.AssignmentTemplate{IsDayOf: true}

	draft := Derive(projectDate, tpl)

	require.NotNil(t, draft.DueDate)
	assert.Equal(t, projectDate, *draft.DueDate)
	assert.Nil(t, draft.EstimatedCompletion)
}

func TestDerive_DayOfWinsOverOngoing(t *testing.T) {
	tpl := models.AssignmentTemplate{
		IsDayOf:                true,
		IsOngoing:              true,
		EstimatedDurationHours: hoursPtr(2),
	}

	draft := Derive(projectDate, tpl)

	require.NotNil(t, draft.DueDate, "day-of policy applies when both flags are set")
	assert.Equal(t, projectDate, *draft.DueDate)
}

func TestDerive_Ongoing(t *testing.T) {
	tpl := models.AssignmentTemplate{
		IsOngoing:                  true,
		EstimatedDurationHours:     hoursPtr(8),
		RecommendedStartOffsetDays: daysPtr(30),
	}

	draft := Derive(projectDate, tpl)

	assert.Equal(t, projectDate, draft.RecommendedStartDate)
	assert.Nil(t, draft.DueDate, "ongoing tasks have no fixed end")
	assert.Nil(t, draft.EstimatedCompletion, "duration is ignored for ongoing tasks")
	assert.False(t, draft.Important)
}

func TestDerive_Offset(t *testing.T) {
	tpl := models.AssignmentTemplate{
		RecommendedStartOffsetDays: daysPtr(5),
		EstimatedDurationHours:     hoursPtr(2),
	}

	draft := Derive(projectDate, tpl)

	wantStart := projectDate.AddDate(0, 0, -5)
	assert.Equal(t, wantStart, draft.RecommendedStartDate)
	require.NotNil(t, draft.DueDate)
	assert.Equal(t, wantStart.Add(2*time.Hour), *draft.DueDate)
	require.NotNil(t, draft.EstimatedCompletion)
	assert.Equal(t, *draft.DueDate, *draft.EstimatedCompletion)
}

func TestDerive_OffsetNoDuration(t *testing.T) {
	tpl := models.AssignmentTemplate{RecommendedStartOffsetDays: daysPtr(10)}

	draft := Derive(projectDate, tpl)

	wantStart := projectDate.AddDate(0, 0, -10)
	assert.Equal(t, wantStart, draft.RecommendedStartDate)
	require.NotNil(t, draft.DueDate)
	assert.Equal(t, wantStart, *draft.DueDate, "without a duration the due date is the start date")
	assert.Nil(t, draft.EstimatedCompletion)
}

func TestDerive_MissingOffsetDefaultsToZero(t *testing.T) {
	tpl := models.AssignmentTemplate{}

	draft := Derive(projectDate, tpl)

	assert.Equal(t, projectDate, draft.RecommendedStartDate)
}

func TestDerive_FractionalDuration(t *testing.T) {
	tpl := models.AssignmentTemplate{
		IsDayOf:                true,
		EstimatedDurationHours: hoursPtr(1.5),
	}

	draft := Derive(projectDate, tpl)

	require.NotNil(t, draft.EstimatedCompletion)
	assert.Equal(t, projectDate.Add(90*time.Minute), *draft.EstimatedCompletion)
}

func TestDeriveAll_PreservesOrderAndCount(t *testing.T) {
	templates := []models.AssignmentTemplate{
		{Model: gormModel(1), IsDayOf: true},
		{Model: gormModel(2), IsOngoing: true},
		{Model: gormModel(3), RecommendedStartOffsetDays: daysPtr(7)},
	}

	drafts := DeriveAll(projectDate, templates)

	require.Len(t, drafts, 3)
	assert.Equal(t, uint(1), drafts[0].TemplateID)
	assert.Equal(t, uint(2), drafts[1].TemplateID)
	assert.Equal(t, uint(3), drafts[2].TemplateID)
}

func TestDeriveAll_Empty(t *testing.T) {
	drafts := DeriveAll(projectDate, nil)
	assert.Empty(t, drafts)
}
