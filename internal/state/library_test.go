package state

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
)

func TestAssignedContent_FiltersAndResolves(t *testing.T) {
	s := State{
		Lessons: CollectionState[domain.Lesson]{Items: []domain.Lesson{
			{ID: "l1", Title: "Scales"},
			{ID: "l2", Title: "Chords"},
		}},
		Technics: CollectionState[domain.Technique]{Items: []domain.Technique{
			{ID: "t1", Title: "Legato"},
		}},
		Assignments: CollectionState[domain.Assignment]{Items: []domain.Assignment{
			{ID: "a1", ContentID: "l1", ContentType: domain.ContentLesson, Status: domain.AssignmentPending, DueDate: "2024-05-01"},
			{ID: "a2", ContentID: "l2", ContentType: domain.ContentLesson, Status: domain.AssignmentCompleted},
			{ID: "a3", ContentID: "t1", ContentType: domain.ContentTechnic, Status: domain.AssignmentPending},
			{ID: "a4", ContentID: "gone", ContentType: domain.ContentLesson, Status: domain.AssignmentPending},
			{ID: "a5", ContentID: "l2", ContentType: domain.ContentLesson, Status: domain.AssignmentCancelled},
		}},
	}

	lessons := AssignedContent(s, domain.ContentLesson)
	if len(lessons) != 2 {
		t.Fatalf("expected 2 pending lessons, got %+v", lessons)
	}
	if lessons[0].AssignmentID != "a1" || lessons[0].Lesson == nil || lessons[0].Title() != "Scales" || lessons[0].DueDate != "2024-05-01" {
		t.Errorf("unexpected resolution %+v", lessons[0])
	}
	if !lessons[1].Missing || lessons[1].ContentID != "gone" || lessons[1].Title() != "" {
		t.Errorf("expected a placeholder for the dangling reference, got %+v", lessons[1])
	}
	for _, item := range lessons {
		if item.AssignmentID == "a2" || item.AssignmentID == "a5" {
			t.Errorf("non-pending assignment %s listed", item.AssignmentID)
		}
	}

	technics := AssignedContent(s, domain.ContentTechnic)
	if len(technics) != 1 || technics[0].Technique == nil || technics[0].Missing {
		t.Errorf("unexpected technics %+v", technics)
	}
}

func TestAssignedContent_Empty(t *testing.T) {
	if got := AssignedContent(State{}, domain.ContentLesson); got == nil || len(got) != 0 {
		t.Errorf("expected an empty list, got %#v", got)
	}
}

func TestLoadLibrary(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	teacher := f.signedInTeacher(t)

	lesson, err := f.studio.Lessons.Create(ctx, LessonInput{Title: "Scales", UserID: teacher})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	tech, err := f.studio.Technics.Create(ctx, TechniqueInput{Title: "Legato", UserID: teacher})
	if err != nil {
		t.Fatalf("create technic: %v", err)
	}
	done, err := f.studio.Lessons.Create(ctx, LessonInput{Title: "Finished", UserID: teacher})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	student := "student-1"
	assign := func(contentID string, ct domain.ContentType) domain.Assignment {
		a, err := f.studio.Assignments.Assign(ctx, teacher, student, contentID, ct, "2024-06-01")
		if err != nil {
			t.Fatalf("assign: %v", err)
		}
		return a
	}
	assign(lesson.ID, domain.ContentLesson)
	assign(tech.ID, domain.ContentTechnic)
	completed := assign(done.ID, domain.ContentLesson)
	if _, err := f.studio.Assignments.UpdateStatus(ctx, completed.ID, domain.AssignmentCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if _, err := f.studio.Lessons.Delete(ctx, lesson.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// A fresh client for the student sees the same backend.
	studentView := New(Backend{Identities: f.backend.Identities(), Documents: f.docs}, Options{Log: zerolog.Nop()})
	lib, err := studentView.LoadLibrary(ctx, student)
	if err != nil {
		t.Fatalf("load library: %v", err)
	}
	if len(lib.Lessons) != 1 || !lib.Lessons[0].Missing {
		t.Errorf("expected one placeholder lesson, got %+v", lib.Lessons)
	}
	if len(lib.Technics) != 1 || lib.Technics[0].Title() != "Legato" {
		t.Errorf("expected the assigned technic, got %+v", lib.Technics)
	}
}
