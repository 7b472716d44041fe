// Package catalog reads the assignment-template catalog: tag matching for
// project creation and the one-time seed that populates an empty catalog.
package catalog

import (
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/models"
)

// Matches reports whether a template applies to a project: every project tag
// must be present in the template's tag set. Matching is exact per tag, not
// substring. A broader template matches narrower projects, not vice versa.
func Matches(projectTags, templateTags []string) bool {
	if len(projectTags) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(templateTags))
	for _, t := range templateTags {
		set[t] = struct{}{}
	}
	for _, t := range projectTags {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// Filter returns the templates whose tag set is a superset of projectTags,
// preserving input order.
func Filter(templates []models.AssignmentTemplate, projectTags []string) []models.AssignmentTemplate {
	var matched []models.AssignmentTemplate
	for _, tpl := range templates {
		if Matches(projectTags, tpl.Tags) {
			matched = append(matched, tpl)
		}
	}
	return matched
}

// MatchingTemplates loads active templates and filters them against the
// project's tag set. Zero matches is not an error; the project simply gets
// no derived assignments.
func MatchingTemplates(db *gorm.DB, projectTags []string) ([]models.AssignmentTemplate, error) {
	var templates []models.AssignmentTemplate
	if err := db.Where("status = ?", models.TemplateActive).Order("id").Find(&templates).Error; err != nil {
		return nil, err
	}
	return Filter(templates, projectTags), nil
}
