package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/state"
)

// lessonFlags binds the lesson form fields.
type lessonFlags struct {
	title, description, image, video string
}

func (f *lessonFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.image, "image", "", "image reference, stored verbatim")
	cmd.Flags().StringVar(&f.video, "video", "", "video reference, stored verbatim")
}

func (f *lessonFlags) input(id string, owner domain.User) state.LessonInput {
	return state.LessonInput{
		ID:          id,
		Title:       f.title,
		Description: f.description,
		ImageURL:    f.image,
		VideoURL:    f.video,
		UserID:      owner.UID,
		UserEmail:   owner.Email,
	}
}

func (c *cli) lessonsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "lessons", Short: "Manage lessons"}

	var create lessonFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lesson",
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := c.app.requireUser()
			if err != nil {
				return err
			}
			l, err := c.app.studio.Lessons.Create(cmd.Context(), create.input("", owner))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), l.ID)
			return nil
		},
	}
	create.bind(createCmd)

	var owner string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List lessons, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.ownerOrSelf(owner)
			if err != nil {
				return err
			}
			lessons, err := c.app.studio.Lessons.Fetch(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCREATED")
			for _, l := range lessons {
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.ID, l.Title, formatTimestamp(l.CreatedAt))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&owner, "owner", "", "owner uid; defaults to the signed-in user")

	var update lessonFlags
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := c.app.requireUser()
			if err != nil {
				return err
			}
			l, err := c.app.studio.Lessons.Update(cmd.Context(), update.input(args[0], owner))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l.ID, l.Title)
			return nil
		},
	}
	update.bind(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.app.studio.Lessons.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", id)
			return nil
		},
	}

	cmd.AddCommand(createCmd, listCmd, updateCmd, deleteCmd)
	return cmd
}

// technicFlags binds the technic form fields.
type technicFlags struct {
	lessonFlags
	audio, difficulty, instrument, level string
}

func (f *technicFlags) bind(cmd *cobra.Command) {
	f.lessonFlags.bind(cmd)
	cmd.Flags().StringVar(&f.audio, "audio", "", "audio reference, stored verbatim")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "", "Beginner, Intermediate or Advanced")
	cmd.Flags().StringVar(&f.instrument, "instrument", "", "Piano, Guitar, Violin, Drums or Flute")
	cmd.Flags().StringVar(&f.level, "level", "", "level 1 to 5")
}

func (f *technicFlags) input(id string, owner domain.User) (state.TechniqueInput, error) {
	level, err := state.ParseLevel(f.level)
	if err != nil {
		return state.TechniqueInput{}, err
	}
	return state.TechniqueInput{
		ID:          id,
		Title:       f.title,
		Description: f.description,
		ImageURL:    f.image,
		VideoURL:    f.video,
		AudioURL:    f.audio,
		Difficulty:  domain.Difficulty(f.difficulty),
		Instrument:  domain.Instrument(f.instrument),
		Level:       level,
		UserID:      owner.UID,
		UserEmail:   owner.Email,
	}, nil
}

func (c *cli) technicsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "technics", Short: "Manage technics"}

	var create technicFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a technic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := c.app.requireUser()
			if err != nil {
				return err
			}
			in, err := create.input("", owner)
			if err != nil {
				return err
			}
			t, err := c.app.studio.Technics.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
	create.bind(createCmd)

	var owner string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List technics, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.ownerOrSelf(owner)
			if err != nil {
				return err
			}
			technics, err := c.app.studio.Technics.Fetch(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tINSTRUMENT\tDIFFICULTY\tLEVEL\tCREATED")
			for _, t := range technics {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					t.ID, t.Title, t.Instrument, t.Difficulty, t.Level, formatTimestamp(t.CreatedAt))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&owner, "owner", "", "owner uid; defaults to the signed-in user")

	var update technicFlags
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a technic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := c.app.requireUser()
			if err != nil {
				return err
			}
			in, err := update.input(args[0], owner)
			if err != nil {
				return err
			}
			t, err := c.app.studio.Technics.Update(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.ID, t.Title)
			return nil
		},
	}
	update.bind(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a technic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.app.studio.Technics.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", id)
			return nil
		},
	}

	cmd.AddCommand(createCmd, listCmd, updateCmd, deleteCmd)
	return cmd
}

func (c *cli) ownerOrSelf(owner string) (string, error) {
	if owner != "" {
		return owner, nil
	}
	u, err := c.app.requireUser()
	if err != nil {
		return "", err
	}
	return u.UID, nil
}

func formatTimestamp(ts *domain.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return ts.Time().Format("2006-01-02 15:04")
}
