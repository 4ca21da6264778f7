// Package cli defines the command line interface of actcheck.
package cli

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actcheck/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actcheck/pkg/cli/initcmd"
	"github.com/suzuki-shunsuke/actcheck/pkg/cli/run"
	"github.com/suzuki-shunsuke/actcheck/pkg/cli/token"
	"github.com/suzuki-shunsuke/go-stdutil"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/urfave"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, logE *logrus.Entry, ldFlags *stdutil.LDFlags, args ...string) error {
	return newCommand(logE, ldFlags).Run(ctx, args) //nolint:wrapcheck
}

// newCommand returns the root command.
// urfave.Command adds the version and help-all subcommands.
func newCommand(logE *logrus.Entry, ldFlags *stdutil.LDFlags) *cli.Command {
	globalFlags := &flag.GlobalFlags{}
	runner := run.New(logE, globalFlags, os.Stdout)
	return urfave.Command(ldFlags, &cli.Command{
		Name:        "actcheck",
		Usage:       "Check if GitHub Actions are the latest releases. https://github.com/suzuki-shunsuke/actcheck",
		Description: run.Description,
		Flags:       append(globalFlags.Flags(), runner.Flags()...),
		Action:      runner.Action,
		Commands: []*cli.Command{
			initcmd.New(logE, globalFlags),
			token.New(os.Stdin),
		},
	})
}
