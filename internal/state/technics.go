package state

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// TechniqueInput is the form payload for a technic. Empty Difficulty,
// Instrument and Level take the form defaults.
type TechniqueInput struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	VideoURL    string
	AudioURL    string
	Difficulty  domain.Difficulty `validate:"oneof=Beginner Intermediate Advanced"`
	Instrument  domain.Instrument `validate:"oneof=Piano Guitar Violin Drums Flute"`
	Level       int               `validate:"min=1,max=5"`
	UserID      string
	UserEmail   string
}

func (in TechniqueInput) withDefaults() TechniqueInput {
	if in.Difficulty == "" {
		in.Difficulty = domain.DifficultyBeginner
	}
	if in.Instrument == "" {
		in.Instrument = domain.InstrumentPiano
	}
	if in.Level == 0 {
		in.Level = domain.MinLevel
	}
	return in
}

func (in TechniqueInput) fields() domain.Fields {
	return domain.Fields{
		"title":       strings.TrimSpace(in.Title),
		"description": strings.TrimSpace(in.Description),
		"imageUrl":    in.ImageURL,
		"videoUrl":    in.VideoURL,
		"audioUrl":    in.AudioURL,
		"difficulty":  string(in.Difficulty),
		"instrument":  string(in.Instrument),
		"level":       in.Level,
		"userId":      in.UserID,
		"userEmail":   in.UserEmail,
	}
}

// Technics owns the technic cache.
type Technics struct {
	c        *collection[domain.Technique]
	validate *validator.Validate
}

func newTechnics(store *Store, docs ports.DocumentStore, opts Options) *Technics {
	return &Technics{
		c: newCollection(domain.CollectionTechnics, store, docs,
			func(s *State) *CollectionState[domain.Technique] { return &s.Technics }, opts),
		validate: validator.New(),
	}
}

// check runs the practice metadata rules against in.
func (t *Technics) check(in TechniqueInput) error {
	err := t.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError("Invalid %s: %v", strings.ToLower(fe.Field()), fe.Value())
	}
	return domain.NewValidationError("%s", err.Error())
}

func (t *Technics) Create(ctx context.Context, in TechniqueInput) (domain.Technique, error) {
	t.c.pending()
	if in.UserID == "" {
		return domain.Technique{}, t.c.fail("create", domain.NewValidationError("User ID is required to create a technic"))
	}
	if strings.TrimSpace(in.Title) == "" {
		return domain.Technique{}, t.c.fail("create", domain.NewValidationError("Title is required to create a technic"))
	}
	in = in.withDefaults()
	if err := t.check(in); err != nil {
		return domain.Technique{}, t.c.fail("create", err)
	}
	data := in.fields()
	data[domain.FieldCreatedAt] = domain.ServerTimestamp
	data[domain.FieldUpdatedAt] = domain.ServerTimestamp
	return t.c.create(ctx, data)
}

func (t *Technics) Fetch(ctx context.Context, ownerID string) ([]domain.Technique, error) {
	return t.FetchOwners(ctx, ownerID)
}

func (t *Technics) FetchOwners(ctx context.Context, ownerIDs ...string) ([]domain.Technique, error) {
	seq := t.c.pending()
	if len(ownerIDs) == 0 || slicesContainsEmpty(ownerIDs) {
		return nil, t.c.failFetch(seq, "fetch", domain.NewValidationError("User ID is required to fetch technics"))
	}
	return t.c.fetch(ctx, seq, "userId", ownerIDs...)
}

func (t *Technics) Update(ctx context.Context, in TechniqueInput) (domain.Technique, error) {
	t.c.pending()
	if in.ID == "" || in.UserID == "" {
		return domain.Technique{}, t.c.fail("update", domain.NewValidationError("Technic ID and User ID are required to update a technic"))
	}
	in = in.withDefaults()
	if err := t.check(in); err != nil {
		return domain.Technique{}, t.c.fail("update", err)
	}
	data := in.fields()
	data[domain.FieldUpdatedAt] = domain.ServerTimestamp
	return t.c.update(ctx, in.ID, data)
}

func (t *Technics) Delete(ctx context.Context, id string) (string, error) {
	t.c.pending()
	if id == "" {
		return "", t.c.fail("delete", domain.NewValidationError("Technic ID is required to delete a technic"))
	}
	return t.c.remove(ctx, id)
}

func (t *Technics) ClearError() { t.c.clearError() }

// ParseLevel reads a level from form input; an empty string is the default.
func ParseLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	level, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.NewValidationError("Invalid level: %s", s)
	}
	return level, nil
}
