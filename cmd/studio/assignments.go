package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/state"
)

func (c *cli) assignCmd() *cobra.Command {
	var student, content, contentType, due string
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a lesson or technic to a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			teacher, err := c.app.requireUser()
			if err != nil {
				return err
			}
			a, err := c.app.studio.Assignments.Assign(cmd.Context(), teacher.UID, student, content, domain.ContentType(contentType), due)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student uid")
	cmd.Flags().StringVar(&content, "content", "", "lesson or technic id")
	cmd.Flags().StringVar(&contentType, "type", string(domain.ContentLesson), "lesson or technic")
	cmd.Flags().StringVar(&due, "due", "", "due date")
	return cmd
}

func (c *cli) assignmentsCmd() *cobra.Command {
	var student string
	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "List a student's assignments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.ownerOrSelf(student)
			if err != nil {
				return err
			}
			items, err := c.app.studio.Assignments.FetchForStudent(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tCONTENT\tSTATUS\tDUE")
			for _, a := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.ContentType, a.ContentID, a.Status, a.DueDate)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student uid; defaults to the signed-in user")
	return cmd
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status ASSIGNMENT_ID pending|completed|cancelled",
		Short: "Change an assignment's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app.studio.Assignments.UpdateStatus(cmd.Context(), args[0], domain.AssignmentStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a.ID, a.Status)
			return nil
		},
	}
}

func (c *cli) libraryCmd() *cobra.Command {
	var student string
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Show the content assigned to a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.ownerOrSelf(student)
			if err != nil {
				return err
			}
			lib, err := c.app.studio.LoadLibrary(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(lib.Lessons) == 0 && len(lib.Technics) == 0 {
				fmt.Fprintln(out, "No assigned content yet")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tASSIGNMENT\tTITLE\tDUE")
			for _, items := range [][]state.AssignedItem{lib.Lessons, lib.Technics} {
				for _, item := range items {
					title := item.Title()
					if item.Missing {
						title = fmt.Sprintf("(unavailable: %s)", item.ContentID)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ContentType, item.AssignmentID, title, item.DueDate)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student uid; defaults to the signed-in user")
	return cmd
}

func (c *cli) rosterCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "roster", Short: "Manage the signed-in teacher's students"}

	var email, password, name string
	enroll := &cobra.Command{
		Use:   "enroll",
		Short: "Create a student account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uid, err := c.app.studio.Roster.Enroll(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uid)
			return nil
		},
	}
	enroll.Flags().StringVar(&email, "email", "", "student email")
	enroll.Flags().StringVar(&password, "password", "", "initial password")
	enroll.Flags().StringVar(&name, "name", "", "student name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List enrolled students",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := c.app.studio.Roster.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.AddCommand(enroll, list)
	return cmd
}
