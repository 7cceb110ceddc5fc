package main

import (
	"github.com/spf13/cobra"
)

// cli carries the persistent flags and the lazily built app across one
// command tree, or across every line of a shell session.
type cli struct {
	flags flags
	app   *app
}

func newRootCmd() *cobra.Command {
	return (&cli{}).rootCmd(true)
}

func (c *cli) rootCmd(withShell bool) *cobra.Command {
	root := &cobra.Command{
		Use:           "studio",
		Short:         "Lesson studio client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.app != nil {
				return nil
			}
			a, err := newApp(cmd.Context(), c.flags)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.app.persist()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.backend, "backend", "", "backend kind: remote or memory (STUDIO_BACKEND)")
	pf.StringVar(&c.flags.url, "url", "", "backend base URL (STUDIO_BACKEND_URL)")
	pf.StringVar(&c.flags.sessionFile, "session-file", "", "where the session is kept (STUDIO_SESSION_FILE)")
	pf.StringVar(&c.flags.fetchOrdering, "fetch-ordering", "", "arrival or issue (STUDIO_FETCH_ORDERING)")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "log level (STUDIO_LOG_LEVEL)")

	root.AddCommand(
		c.signupCmd(),
		c.loginCmd(),
		c.googleLoginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.lessonsCmd(),
		c.technicsCmd(),
		c.assignCmd(),
		c.assignmentsCmd(),
		c.statusCmd(),
		c.libraryCmd(),
		c.rosterCmd(),
	)
	if withShell {
		root.AddCommand(c.shellCmd())
	}
	return root
}
