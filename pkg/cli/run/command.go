// Package run implements the root action of actcheck, which audits a workflow file.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actcheck/pkg/cli/flag"
	"github.com/suzuki-shunsuke/actcheck/pkg/config"
	"github.com/suzuki-shunsuke/actcheck/pkg/controller/audit"
	"github.com/suzuki-shunsuke/actcheck/pkg/github"
	"github.com/suzuki-shunsuke/actcheck/pkg/log"
	"github.com/urfave/cli/v3"
)

var ErrWorkflowFileRequired = errors.New("--file is required")

type Runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
	stdout      io.Writer
}

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags, stdout io.Writer) *Runner {
	return &Runner{
		logE:        logE,
		globalFlags: globalFlags,
		stdout:      stdout,
	}
}

const Description = `Check if GitHub Actions in a workflow file are the latest releases.

$ actcheck -f .github/workflows/test.yaml

An action is up to date if the latest release tag starts with the ref and both point to the same commit.
e.g. actions/checkout@v4 is up to date if the latest release is v4.2.2 and v4 points to the same commit as v4.2.2.
`

func (r *Runner) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "workflow file path",
		},
		&cli.BoolFlag{
			Name:  "fix",
			Usage: "Update outdated actions. This isn't supported yet",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Output up to date actions and the table of all actions",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format. One of table, json, and sarif",
			Value: "table",
		},
		&cli.BoolFlag{
			Name:  "fail-on-outdated",
			Usage: "Exit with a non-zero status code if any action is outdated",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "The number of actions checked in parallel. The maximum is 8",
		},
	}
}

func (r *Runner) Action(ctx context.Context, c *cli.Command) error {
	if err := log.SetLevel(r.logE, r.globalFlags.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	workflowFilePath := c.String("file")
	if workflowFilePath == "" {
		return ErrWorkflowFileRequired
	}

	fs := afero.NewOsFs()
	cfg := &config.Config{}
	configFilePath, err := config.NewFinder(fs).Find(r.globalFlags.Config)
	if err != nil {
		return fmt.Errorf("find a configuration file: %w", err)
	}
	if err := config.NewReader(fs).Read(cfg, configFilePath); err != nil {
		return fmt.Errorf("read a configuration file: %w", err)
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}

	env := &github.Env{}
	env.SetFromEnv(os.Getenv)
	gh, err := github.New(ctx, r.logE, env)
	if err != nil {
		return fmt.Errorf("create a GitHub API client: %w", err)
	}
	policy := github.DefaultRetryPolicy()
	policy.MaxRetries = uint64(cfg.GetMaxRetries()) //nolint:gosec

	ctrl := audit.New(
		github.NewGitService(gh.Git, policy),
		github.NewRepositoriesService(gh.Repositories, policy),
		fs, cfg, &audit.ParamRun{
			WorkflowFilePath: workflowFilePath,
			Format:           c.String("format"),
			Verbose:          c.Bool("verbose"),
			Fix:              c.Bool("fix"),
			FailOnOutdated:   c.Bool("fail-on-outdated"),
			Stdout:           r.stdout,
		})
	return ctrl.Run(ctx, r.logE) //nolint:wrapcheck
}
