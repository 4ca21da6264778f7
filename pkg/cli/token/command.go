// Package token implements the 'actcheck token' command.
// It stores a GitHub Access token in the OS keyring (Windows Credential Manager,
// macOS Keychain, or GNOME Keyring). actcheck reads it if
// ACTCHECK_KEYRING_ENABLED is true and no token is set by environment variables.
package token

import (
	"context"
	"io"

	"github.com/suzuki-shunsuke/actcheck/pkg/controller/token"
	"github.com/suzuki-shunsuke/actcheck/pkg/github"
	"github.com/urfave/cli/v3"
)

func New(stdin io.Reader) *cli.Command {
	r := &runner{
		stdin: stdin,
	}
	return r.Command()
}

type runner struct {
	stdin io.Reader
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage a GitHub Access token in the OS keyring",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Store a GitHub Access token in the OS keyring",
				Description: `Store a GitHub Access token in the OS keyring.
The token is read from the standard input.

$ echo "$GITHUB_TOKEN" | actcheck token set
`,
				Action: r.set,
			},
			{
				Name:   "rm",
				Usage:  "Remove a GitHub Access token from the OS keyring",
				Action: r.remove,
			},
		},
	}
}

func (r *runner) set(_ context.Context, _ *cli.Command) error {
	return token.New(r.stdin, github.NewTokenManager()).Set() //nolint:wrapcheck
}

func (r *runner) remove(_ context.Context, _ *cli.Command) error {
	return token.New(r.stdin, github.NewTokenManager()).Remove() //nolint:wrapcheck
}
