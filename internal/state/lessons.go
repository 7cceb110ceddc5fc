package state

import (
	"context"
	"strings"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// LessonInput is the form payload for creating or editing a lesson. Media
// references are stored verbatim.
type LessonInput struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	VideoURL    string
	UserID      string
	UserEmail   string
}

func (in LessonInput) fields() domain.Fields {
	return domain.Fields{
		"title":       strings.TrimSpace(in.Title),
		"description": strings.TrimSpace(in.Description),
		"imageUrl":    in.ImageURL,
		"videoUrl":    in.VideoURL,
		"userId":      in.UserID,
		"userEmail":   in.UserEmail,
	}
}

// Lessons owns the lesson cache.
type Lessons struct {
	c *collection[domain.Lesson]
}

func newLessons(store *Store, docs ports.DocumentStore, opts Options) *Lessons {
	return &Lessons{c: newCollection(domain.CollectionLessons, store, docs,
		func(s *State) *CollectionState[domain.Lesson] { return &s.Lessons }, opts)}
}

func (l *Lessons) Create(ctx context.Context, in LessonInput) (domain.Lesson, error) {
	l.c.pending()
	if in.UserID == "" {
		return domain.Lesson{}, l.c.fail("create", domain.NewValidationError("User ID is required to create a lesson"))
	}
	if strings.TrimSpace(in.Title) == "" {
		return domain.Lesson{}, l.c.fail("create", domain.NewValidationError("Title is required to create a lesson"))
	}
	data := in.fields()
	data[domain.FieldCreatedAt] = domain.ServerTimestamp
	data[domain.FieldUpdatedAt] = domain.ServerTimestamp
	return l.c.create(ctx, data)
}

// Fetch replaces the cache with every lesson owned by ownerID, newest first.
func (l *Lessons) Fetch(ctx context.Context, ownerID string) ([]domain.Lesson, error) {
	return l.FetchOwners(ctx, ownerID)
}

// FetchOwners replaces the cache with the lessons of all the given owners.
func (l *Lessons) FetchOwners(ctx context.Context, ownerIDs ...string) ([]domain.Lesson, error) {
	seq := l.c.pending()
	if len(ownerIDs) == 0 || slicesContainsEmpty(ownerIDs) {
		return nil, l.c.failFetch(seq, "fetch", domain.NewValidationError("User ID is required to fetch lessons"))
	}
	return l.c.fetch(ctx, seq, "userId", ownerIDs...)
}

func (l *Lessons) Update(ctx context.Context, in LessonInput) (domain.Lesson, error) {
	l.c.pending()
	if in.ID == "" || in.UserID == "" {
		return domain.Lesson{}, l.c.fail("update", domain.NewValidationError("Lesson ID and User ID are required to update a lesson"))
	}
	data := in.fields()
	data[domain.FieldUpdatedAt] = domain.ServerTimestamp
	return l.c.update(ctx, in.ID, data)
}

// Delete removes the lesson and returns its id. Deleting an id that is no
// longer cached leaves the cache unchanged.
func (l *Lessons) Delete(ctx context.Context, id string) (string, error) {
	l.c.pending()
	if id == "" {
		return "", l.c.fail("delete", domain.NewValidationError("Lesson ID is required to delete a lesson"))
	}
	return l.c.remove(ctx, id)
}

func (l *Lessons) ClearError() { l.c.clearError() }

func slicesContainsEmpty(ids []string) bool {
	for _, id := range ids {
		if id == "" {
			return true
		}
	}
	return false
}
