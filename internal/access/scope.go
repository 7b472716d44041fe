// Package access decides which of a project's assignments a requester may
// see. Creators see everything; editors and assignees see only assignments
// assigned to them; everyone else sees nothing, and listing endpoints drop
// the project entirely.
//
// Editors deliberately do not get full visibility. Editing is a project-admin
// capability (manage editors, edit project fields), distinct from the
// creator-only right to view all assignments.
package access

import "github.com/planora-dev/planora/internal/models"

type Relation int

const (
	RelationNone Relation = iota
	RelationCreator
	RelationEditor
	RelationAssignee
)

// Relationship resolves the requester's strongest relation to the project.
func Relationship(project models.Project, userID uint) Relation {
	if project.CreatorID == userID {
		return RelationCreator
	}
	for _, e := range project.Editors {
		if e.UserID == userID {
			return RelationEditor
		}
	}
	for _, a := range project.Assignments {
		if a.AssigneeID != nil && *a.AssigneeID == userID {
			return RelationAssignee
		}
	}
	return RelationNone
}

// VisibleAssignments filters the project's assignment list down to what the
// requester may see. The boolean reports whether the project is visible to
// the requester at all; a false return means the project must be omitted
// from listings and answered as not-found on direct lookup.
func VisibleAssignments(project models.Project, userID uint) ([]models.ProjectAssignment, bool) {
	switch Relationship(project, userID) {
	case RelationCreator:
		return project.Assignments, true
	case RelationEditor, RelationAssignee:
		var own []models.ProjectAssignment
		for _, a := range project.Assignments {
			if a.AssigneeID != nil && *a.AssigneeID == userID {
				own = append(own, a)
			}
		}
		return own, true
	}
	return nil, false
}

// CanViewAssignment reports whether the requester may see one assignment,
// applying the same rules as VisibleAssignments.
func CanViewAssignment(project models.Project, assignment models.ProjectAssignment, userID uint) bool {
	switch Relationship(project, userID) {
	case RelationCreator:
		return true
	case RelationEditor, RelationAssignee:
		return assignment.AssigneeID != nil && *assignment.AssigneeID == userID
	}
	return false
}
