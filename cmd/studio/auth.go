package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuneup/studio/internal/core/domain"
)

func (c *cli) signupCmd() *cobra.Command {
	var email, password, role, name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.studio.Auth.Signup(cmd.Context(), email, password, role, name)
			if err != nil {
				return err
			}
			printUser(cmd, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", domain.RoleUser, "user, teacher or student")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.studio.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			printUser(cmd, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (c *cli) googleLoginCmd() *cobra.Command {
	var idToken string
	cmd := &cobra.Command{
		Use:   "google-login",
		Short: "Sign in with a Google ID token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if idToken != "" {
				c.app.idToken = idToken
			}
			user, err := c.app.studio.Auth.GoogleLogin(cmd.Context())
			if err != nil {
				return err
			}
			printUser(cmd, user)
			return nil
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "Google ID token (STUDIO_GOOGLE_ID_TOKEN)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := c.app.studio.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return err
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.requireUser()
			if err != nil {
				return err
			}
			printUser(cmd, user)
			return nil
		},
	}
}

func printUser(cmd *cobra.Command, u domain.User) {
	name := u.DisplayName
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", u.UID, u.Email, name, u.Role)
}
