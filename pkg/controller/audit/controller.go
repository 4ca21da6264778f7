// Package audit implements the core logic of actcheck.
// It extracts `uses: owner/repo@ref` references from a workflow file,
// resolves each declared ref and the repository's latest release to commit
// SHAs through the GitHub API (following annotated tag objects), decides
// whether each reference is up to date, and renders the aggregated report.
// References are resolved by a bounded worker pool. A failure resolving one
// reference degrades only that row; credential and rate limit failures abort
// the run.
package audit

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actcheck/pkg/config"
	"github.com/suzuki-shunsuke/actcheck/pkg/github"
)

type GitService interface {
	GetRef(ctx context.Context, owner, repo, ref string) (*github.Reference, error)
	GetTag(ctx context.Context, owner, repo, sha string) (*github.Tag, error)
}

type RepositoriesService interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, error)
}

type Controller struct {
	gitService          GitService
	repositoriesService RepositoriesService
	fs                  afero.Fs
	cfg                 *config.Config
	param               *ParamRun
	printer             *Printer
}

type ParamRun struct {
	WorkflowFilePath string
	Format           string
	Verbose          bool
	Fix              bool
	FailOnOutdated   bool
	Concurrency      int
	Stdout           io.Writer
}

func New(gitService GitService, repositoriesService RepositoriesService, fs afero.Fs, cfg *config.Config, param *ParamRun) *Controller {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if param.Concurrency < 1 {
		param.Concurrency = cfg.GetConcurrency()
	}
	return &Controller{
		gitService:          gitService,
		repositoriesService: repositoriesService,
		fs:                  fs,
		cfg:                 cfg,
		param:               param,
		printer:             NewPrinter(param.Stdout, param.Verbose),
	}
}
