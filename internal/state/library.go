package state

import (
	"context"
	"slices"

	"github.com/tuneup/studio/internal/core/domain"
)

// AssignedItem is one pending assignment with its content resolved. When the
// content is no longer cached Missing is set and only ContentID identifies it.
type AssignedItem struct {
	AssignmentID string
	ContentID    string
	ContentType  domain.ContentType
	DueDate      string
	Missing      bool
	Lesson       *domain.Lesson
	Technique    *domain.Technique
}

// Title returns the resolved content's title, or "" for a missing item.
func (i AssignedItem) Title() string {
	switch {
	case i.Lesson != nil:
		return i.Lesson.Title
	case i.Technique != nil:
		return i.Technique.Title
	}
	return ""
}

// AssignedContent lists the pending assignments of contentType in s, in
// assignment cache order, each resolved against the matching content cache.
func AssignedContent(s State, contentType domain.ContentType) []AssignedItem {
	out := []AssignedItem{}
	for _, a := range s.Assignments.Items {
		if a.Status != domain.AssignmentPending || a.ContentType != contentType {
			continue
		}
		item := AssignedItem{
			AssignmentID: a.ID,
			ContentID:    a.ContentID,
			ContentType:  a.ContentType,
			DueDate:      a.DueDate,
		}
		switch contentType {
		case domain.ContentLesson:
			if i := slices.IndexFunc(s.Lessons.Items, func(l domain.Lesson) bool { return l.ID == a.ContentID }); i >= 0 {
				l := s.Lessons.Items[i]
				item.Lesson = &l
			}
		case domain.ContentTechnic:
			if i := slices.IndexFunc(s.Technics.Items, func(t domain.Technique) bool { return t.ID == a.ContentID }); i >= 0 {
				t := s.Technics.Items[i]
				item.Technique = &t
			}
		}
		item.Missing = item.Lesson == nil && item.Technique == nil
		out = append(out, item)
	}
	return out
}

// teacherIDs returns the distinct teachers behind the cached assignments, in
// first-seen order.
func teacherIDs(assignments []domain.Assignment) []string {
	var ids []string
	for _, a := range assignments {
		if a.TeacherID != "" && !slices.Contains(ids, a.TeacherID) {
			ids = append(ids, a.TeacherID)
		}
	}
	return ids
}

// Library is what a student sees: their assigned lessons and technics.
type Library struct {
	Lessons  []AssignedItem
	Technics []AssignedItem
}

// LoadLibrary fetches the student's assignments and then, side by side, the
// lessons and technics of every teacher that assigned something.
func (s *Studio) LoadLibrary(ctx context.Context, studentID string) (Library, error) {
	assignments, err := s.Assignments.FetchForStudent(ctx, studentID)
	if err != nil {
		return Library{}, err
	}
	if owners := teacherIDs(assignments); len(owners) > 0 {
		lessons := Dispatch(ctx, func(ctx context.Context) ([]domain.Lesson, error) {
			return s.Lessons.FetchOwners(ctx, owners...)
		})
		technics := Dispatch(ctx, func(ctx context.Context) ([]domain.Technique, error) {
			return s.Technics.FetchOwners(ctx, owners...)
		})
		lr, tr := <-lessons, <-technics
		if lr.Err != nil {
			return Library{}, lr.Err
		}
		if tr.Err != nil {
			return Library{}, tr.Err
		}
	}
	snap := s.Store.Snapshot()
	return Library{
		Lessons:  AssignedContent(snap, domain.ContentLesson),
		Technics: AssignedContent(snap, domain.ContentTechnic),
	}, nil
}
