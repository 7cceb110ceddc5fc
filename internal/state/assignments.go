package state

import (
	"context"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// Assignments owns the signed-in student's assignment cache.
type Assignments struct {
	c *collection[domain.Assignment]
}

func newAssignments(store *Store, docs ports.DocumentStore, opts Options) *Assignments {
	return &Assignments{c: newCollection(domain.CollectionAssignments, store, docs,
		func(s *State) *CollectionState[domain.Assignment] { return &s.Assignments }, opts)}
}

// Assign links content to a student. The content reference is not checked
// against the backend.
func (a *Assignments) Assign(ctx context.Context, teacherID, studentID, contentID string, contentType domain.ContentType, dueDate string) (domain.Assignment, error) {
	a.c.pending()
	if teacherID == "" || studentID == "" || contentID == "" {
		return domain.Assignment{}, a.c.fail("create", domain.NewValidationError("Teacher ID, Student ID, and Content ID are required to create an assignment"))
	}
	if !contentType.Valid() {
		return domain.Assignment{}, a.c.fail("create", domain.NewValidationError("Invalid content type: %q", contentType))
	}
	return a.c.create(ctx, domain.Fields{
		"teacherId":           teacherID,
		"studentId":           studentID,
		"contentId":           contentID,
		"contentType":         string(contentType),
		"dueDate":             dueDate,
		"status":              string(domain.AssignmentPending),
		domain.FieldCreatedAt: domain.ServerTimestamp,
		domain.FieldUpdatedAt: domain.ServerTimestamp,
	})
}

func (a *Assignments) FetchForStudent(ctx context.Context, studentID string) ([]domain.Assignment, error) {
	seq := a.c.pending()
	if studentID == "" {
		return nil, a.c.failFetch(seq, "fetch", domain.NewValidationError("Student ID is required to fetch assignments"))
	}
	return a.c.fetch(ctx, seq, "studentId", studentID)
}

func (a *Assignments) UpdateStatus(ctx context.Context, assignmentID string, status domain.AssignmentStatus) (domain.Assignment, error) {
	a.c.pending()
	if assignmentID == "" {
		return domain.Assignment{}, a.c.fail("update", domain.NewValidationError("Assignment ID is required to update status"))
	}
	if !status.Valid() {
		return domain.Assignment{}, a.c.fail("update", domain.NewValidationError("Invalid status: %q", status))
	}
	return a.c.update(ctx, assignmentID, domain.Fields{
		"status":              string(status),
		domain.FieldUpdatedAt: domain.ServerTimestamp,
	})
}

func (a *Assignments) ClearError() { a.c.clearError() }

// Clear drops the cache, e.g. on sign-out.
func (a *Assignments) Clear() { a.c.clear() }
