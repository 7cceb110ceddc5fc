package state

import (
	"context"
	"testing"

	"github.com/tuneup/studio/internal/core/domain"
)

func TestTechnics_EmptyTitleMakesNoBackendCall(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	owner := f.signedInTeacher(t)

	if _, err := f.studio.Technics.Create(ctx, TechniqueInput{Title: "Legato", UserID: owner}); err != nil {
		t.Fatalf("create: %v", err)
	}
	before := f.studio.Store.Snapshot().Technics.Items
	calls := f.docs.Calls()

	_, err := f.studio.Technics.Create(ctx, TechniqueInput{Title: "  ", UserID: owner})
	if !isValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if f.docs.Calls() != calls {
		t.Errorf("expected no backend call, got %d more", f.docs.Calls()-calls)
	}
	after := f.studio.Store.Snapshot().Technics
	if len(after.Items) != len(before) || after.Items[0].ID != before[0].ID {
		t.Errorf("expected cache unchanged, got %v", ids(after.Items))
	}
	if after.Error == "" || after.Loading {
		t.Errorf("expected settled error state, got %+v", after)
	}
}

func TestTechnics_CreateAppliesDefaults(t *testing.T) {
	f := newFixture(t, Options{})
	owner := f.signedInTeacher(t)

	tech, err := f.studio.Technics.Create(context.Background(), TechniqueInput{
		Title: "Tremolo", UserID: owner, AudioURL: "file:///tremolo.m4a",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tech.Difficulty != domain.DifficultyBeginner || tech.Instrument != domain.InstrumentPiano || tech.Level != 1 {
		t.Errorf("expected form defaults, got %s/%s/%d", tech.Difficulty, tech.Instrument, tech.Level)
	}
	if tech.AudioURL != "file:///tremolo.m4a" {
		t.Errorf("expected media reference stored verbatim, got %q", tech.AudioURL)
	}
}

func TestTechnics_Validation(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input TechniqueInput
	}{
		{"no owner", TechniqueInput{Title: "t"}},
		{"bad difficulty", TechniqueInput{Title: "t", UserID: "u", Difficulty: "Expert"}},
		{"bad instrument", TechniqueInput{Title: "t", UserID: "u", Instrument: "Kazoo"}},
		{"level too high", TechniqueInput{Title: "t", UserID: "u", Level: 6}},
		{"level negative", TechniqueInput{Title: "t", UserID: "u", Level: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.studio.Technics.Create(ctx, tt.input); !isValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if f.docs.Calls() != 0 {
		t.Errorf("expected no backend calls, got %d", f.docs.Calls())
	}
}

func TestTechnics_UpdateAndDelete(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	owner := f.signedInTeacher(t)

	tech, err := f.studio.Technics.Create(ctx, TechniqueInput{Title: "Vibrato", UserID: owner, Instrument: domain.InstrumentViolin})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := f.studio.Technics.Update(ctx, TechniqueInput{
		ID: tech.ID, UserID: owner, Title: "Vibrato", Instrument: domain.InstrumentViolin,
		Difficulty: domain.DifficultyAdvanced, Level: 4,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Level != 4 || updated.Difficulty != domain.DifficultyAdvanced {
		t.Errorf("unexpected update result %+v", updated)
	}

	fetched, err := f.studio.Technics.Fetch(ctx, owner)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(fetched) != 1 || fetched[0].Level != 4 {
		t.Fatalf("expected the updated technic, got %+v", fetched)
	}

	if _, err := f.studio.Technics.Delete(ctx, tech.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(f.studio.Store.Snapshot().Technics.Items); n != 0 {
		t.Errorf("expected empty cache, got %d items", n)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{" 3 ", 3, false},
		{"3abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, %v", tt.in, got, err)
		}
	}
}
