package audit

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actcheck/pkg/github"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"golang.org/x/sync/errgroup"
)

// Run audits the workflow file and prints the report.
// It returns ErrOutdated if FailOnOutdated is set and any row isn't current.
func (c *Controller) Run(ctx context.Context, logE *logrus.Entry) error {
	if err := validateFormat(c.param.Format); err != nil {
		return err
	}
	b, err := afero.ReadFile(c.fs, c.param.WorkflowFilePath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadWorkflow, logerr.WithFields(err, logrus.Fields{
			"workflow_file": c.param.WorkflowFilePath,
		}))
	}
	refs, errs := Extract(string(b))
	for _, err := range errs {
		logerr.WithError(logE, err).Warn("ignore a malformed action reference")
	}
	refs, err = c.filter(logE, refs)
	if err != nil {
		return err
	}
	logE.WithField("num_of_actions", len(refs)).Debug("check actions")

	results, err := c.audit(ctx, logE, refs)
	if err != nil {
		return err
	}
	report := Build(results)
	if err := c.printer.Print(report, c.param.Format, c.param.WorkflowFilePath); err != nil {
		return err
	}
	if c.param.Fix {
		logE.Warn("--fix isn't supported yet. The workflow file isn't changed")
	}
	if c.param.FailOnOutdated && report.Outdated > 0 {
		return ErrOutdated
	}
	return nil
}

func (c *Controller) filter(logE *logrus.Entry, refs []*ActionReference) ([]*ActionReference, error) {
	ret := make([]*ActionReference, 0, len(refs))
	for _, ref := range refs {
		ignored, err := c.cfg.Ignore(ref.Name, ref.Ref)
		if err != nil {
			return nil, fmt.Errorf("check if the action is ignored: %w", err)
		}
		if ignored {
			logE.WithFields(logrus.Fields{
				"action": ref.Name,
				"ref":    ref.Ref,
			}).Debug("ignore the action")
			continue
		}
		ret = append(ret, ref)
	}
	return ret, nil
}

// audit checks references concurrently.
// Results are returned in the same order as refs.
func (c *Controller) audit(ctx context.Context, logE *logrus.Entry, refs []*ActionReference) ([]*ComparisonResult, error) {
	results := make([]*ComparisonResult, len(refs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.param.Concurrency)
	for i, ref := range refs {
		eg.Go(func() error {
			logE := logE.WithFields(logrus.Fields{
				"action": ref.Name,
				"ref":    ref.Ref,
			})
			result, err := c.check(ctx, logE, ref)
			if err != nil {
				if github.IsFatal(err) {
					return fmt.Errorf("check %s: %w", ref, err)
				}
				logerr.WithError(logE, err).Warn("failed to check the action")
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return results, nil
}

// check compares a reference with the latest release of the repository.
// If it fails, it returns a degraded result with the error.
func (c *Controller) check(ctx context.Context, logE *logrus.Entry, ref *ActionReference) (*ComparisonResult, error) {
	latest, err := c.latestRelease(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return degraded(ref, nil, err), err
	}
	latestResolution, err := c.resolveTag(ctx, ref.Owner, ref.Repo, latest.TagName)
	if err != nil {
		return degraded(ref, latest, err), fmt.Errorf("resolve the latest release tag: %w", err)
	}
	declaredResolution, err := c.resolveRef(ctx, ref.Owner, ref.Repo, ref.Ref)
	if err != nil {
		return degraded(ref, latest, err), fmt.Errorf("resolve the declared ref: %w", err)
	}
	result := Compare(ref, declaredResolution, latest, latestResolution)
	if isSiblingPrefix(ref.Ref, latest.TagName) {
		logE.WithField("latest_tag", latest.TagName).Warn("the ref is a prefix of the latest tag but may be a different version")
	}
	logE.WithFields(logrus.Fields{
		"latest_tag":   latest.TagName,
		"declared_sha": declaredResolution.DereferencedSHA,
		"latest_sha":   latestResolution.DereferencedSHA,
		"up_to_date":   result.IsCurrent,
	}).Debug("compared the action with the latest release")
	return result, nil
}
