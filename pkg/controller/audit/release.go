package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/suzuki-shunsuke/actcheck/pkg/github"
)

// ReleaseInfo is the latest published release of a repository.
type ReleaseInfo struct {
	TagName     string
	DisplayName string
}

// latestRelease gets the latest published release.
// Repositories that only have tags have no latest release.
func (c *Controller) latestRelease(ctx context.Context, owner, repo string) (*ReleaseInfo, error) {
	release, err := c.repositoriesService.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoReleaseFound, err)
		}
		return nil, fmt.Errorf("get the latest release: %w", err)
	}
	tagName := release.GetTagName()
	if tagName == "" {
		return nil, ErrNoReleaseFound
	}
	name := release.GetName()
	if name == "" {
		name = tagName
	}
	return &ReleaseInfo{
		TagName:     tagName,
		DisplayName: name,
	}, nil
}
