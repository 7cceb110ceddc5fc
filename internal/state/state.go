// Package state is the client core: an explicit store composing the auth,
// lessons, technics, assignments and roster slices, plus the operations that
// move each slice through pending, success and error.
package state

import (
	"slices"

	"github.com/tuneup/studio/internal/core/domain"
)

// CollectionState is one cached entity collection.
type CollectionState[T any] struct {
	Items   []T
	Loading bool
	Error   string
}

// AuthState is the current session.
type AuthState struct {
	User            *domain.User
	IsAuthenticated bool
	Loading         bool
	Error           string
	Role            string
}

// RosterState is the signed-in teacher's students.
type RosterState struct {
	MyStudents []string
	Loading    bool
	Error      string
}

// State is everything the store holds.
type State struct {
	Auth        AuthState
	Lessons     CollectionState[domain.Lesson]
	Technics    CollectionState[domain.Technique]
	Assignments CollectionState[domain.Assignment]
	Roster      RosterState
}

func (s State) clone() State {
	out := s
	if s.Auth.User != nil {
		u := *s.Auth.User
		out.Auth.User = &u
	}
	out.Lessons.Items = cloneItems(s.Lessons.Items, cloneLesson)
	out.Technics.Items = cloneItems(s.Technics.Items, cloneTechnique)
	out.Assignments.Items = cloneItems(s.Assignments.Items, cloneAssignment)
	out.Roster.MyStudents = slices.Clone(s.Roster.MyStudents)
	return out
}

func cloneItems[T any](items []T, clone func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i := range items {
		out[i] = clone(items[i])
	}
	return out
}

func cloneTimestamp(ts *domain.Timestamp) *domain.Timestamp {
	if ts == nil {
		return nil
	}
	c := *ts
	return &c
}

func cloneLesson(l domain.Lesson) domain.Lesson {
	l.CreatedAt = cloneTimestamp(l.CreatedAt)
	l.UpdatedAt = cloneTimestamp(l.UpdatedAt)
	return l
}

func cloneTechnique(t domain.Technique) domain.Technique {
	t.CreatedAt = cloneTimestamp(t.CreatedAt)
	t.UpdatedAt = cloneTimestamp(t.UpdatedAt)
	return t
}

func cloneAssignment(a domain.Assignment) domain.Assignment {
	a.CreatedAt = cloneTimestamp(a.CreatedAt)
	a.UpdatedAt = cloneTimestamp(a.UpdatedAt)
	return a
}
