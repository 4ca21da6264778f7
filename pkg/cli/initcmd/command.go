// Package initcmd implements the 'actcheck init' command.
package initcmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actcheck/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actcheck/pkg/controller/initcmd"
	"github.com/suzuki-shunsuke/actcheck/pkg/log"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
	}
	return r.Command()
}

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create .actcheck.yaml if it doesn't exist",
		ArgsUsage: "[<configuration file path>]",
		Description: `Create .actcheck.yaml if it doesn't exist

$ actcheck init

You can also pass configuration file path.

e.g.

$ actcheck init .github/actcheck.yaml
`,
		Action: r.action,
	}
}

func (r *runner) action(_ context.Context, c *cli.Command) error {
	if err := log.SetLevel(r.logE, r.globalFlags.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	configFilePath := c.Args().First()
	if configFilePath == "" {
		configFilePath = r.globalFlags.Config
	}
	if configFilePath == "" {
		configFilePath = initcmd.DefaultConfigFilePath
	}
	return initcmd.New(afero.NewOsFs()).Init(r.logE, configFilePath) //nolint:wrapcheck
}
