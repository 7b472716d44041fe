package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/models"
)

// SeedIfEmpty loads the template catalog from a CSV file when the table has
// no rows. Columns: step, name, estimated_duration_hours,
// recommended_start_offset_days, is_ongoing, is_day_of, tags (comma-joined).
// Running it against a populated catalog is a no-op, so boot-time seeding is
// idempotent.
func SeedIfEmpty(db *gorm.DB, path string) error {
	var count int64
	if err := db.Model(&models.AssignmentTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading catalog csv: %w", err)
	}
	if len(rows) < 2 {
		return nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}

	templates := make([]models.AssignmentTemplate, 0, len(rows)-1)
	for _, row := range rows[1:] {
		tpl := models.AssignmentTemplate{
			Step:   field(row, col, "step"),
			Name:   field(row, col, "name"),
			Status: models.TemplateActive,
		}
		if v := field(row, col, "estimated_duration_hours"); v != "" {
			hours, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("template %q: bad duration %q", tpl.Name, v)
			}
			tpl.EstimatedDurationHours = &hours
		}
		if v := field(row, col, "recommended_start_offset_days"); v != "" {
			days, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("template %q: bad offset %q", tpl.Name, v)
			}
			tpl.RecommendedStartOffsetDays = &days
		}
		tpl.IsOngoing = parseBool(field(row, col, "is_ongoing"))
		tpl.IsDayOf = parseBool(field(row, col, "is_day_of"))
		tpl.Tags = splitTags(field(row, col, "tags"))
		templates = append(templates, tpl)
	}

	return db.Create(&templates).Error
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func splitTags(v string) []string {
	if v == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, t := range strings.Split(v, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}
