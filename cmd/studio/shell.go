package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/tuneup/studio/internal/state"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// shellCmd keeps one store across commands, which is the only way to use the
// memory backend beyond a single command.
func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively against one session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			var p prompt
			p.observe(c.app.studio.Store.Snapshot())
			unsubscribe := c.app.studio.Store.Subscribe(p.observe)
			defer unsubscribe()

			for {
				fmt.Fprint(out, p.String())
				if !in.Scan() {
					fmt.Fprintln(out)
					return in.Err()
				}
				line := strings.TrimSpace(in.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				}

				args, err := splitArgs(line)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
					continue
				}
				// A fresh tree per line so flag values never carry over.
				sub := c.rootCmd(false)
				sub.SetArgs(args)
				sub.SetIn(cmd.InOrStdin())
				sub.SetOut(out)
				sub.SetErr(cmd.ErrOrStderr())
				if err := sub.ExecuteContext(cmd.Context()); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				}
			}
		},
	}
}

// prompt follows the store so it always names the signed-in account.
type prompt struct {
	mu   sync.Mutex
	text string
}

func (p *prompt) observe(st state.State) {
	text := "studio> "
	if u := st.Auth.User; u != nil {
		text = fmt.Sprintf("studio(%s)> ", u.Email)
	}
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
}

func (p *prompt) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

// splitArgs splits a shell line on spaces, keeping double-quoted runs whole.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case r == ' ' && !quoted:
			if pending {
				args = append(args, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	if quoted {
		return nil, errUnterminatedQuote
	}
	if pending {
		args = append(args, current.String())
	}
	return args, nil
}
