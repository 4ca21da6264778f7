package audit

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actcheck/pkg/github"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

type ObjectType string

const (
	ObjectTypeCommit ObjectType = "commit"
	ObjectTypeTag    ObjectType = "tag"
)

// ResolvedRef is a git reference resolved to a commit.
// SHA is the object the reference points to, which is a tag object for
// annotated tags. DereferencedSHA is always a commit SHA.
type ResolvedRef struct {
	RefName         string
	ObjectType      ObjectType
	SHA             string
	DereferencedSHA string
}

var fullCommitSHAPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

var (
	tagsOnly     = []string{"tags/"}
	tagsAndHeads = []string{"tags/", "heads/"}
)

// resolveRef resolves a declared ref. Tags are preferred to branches.
// A full commit SHA is already resolved.
func (c *Controller) resolveRef(ctx context.Context, owner, repo, refName string) (*ResolvedRef, error) {
	if fullCommitSHAPattern.MatchString(refName) {
		return &ResolvedRef{
			RefName:         refName,
			ObjectType:      ObjectTypeCommit,
			SHA:             refName,
			DereferencedSHA: refName,
		}, nil
	}
	return c.resolve(ctx, owner, repo, refName, tagsAndHeads)
}

// resolveTag resolves a tag such as the tag of the latest release.
func (c *Controller) resolveTag(ctx context.Context, owner, repo, tagName string) (*ResolvedRef, error) {
	return c.resolve(ctx, owner, repo, tagName, tagsOnly)
}

func (c *Controller) resolve(ctx context.Context, owner, repo, refName string, prefixes []string) (*ResolvedRef, error) {
	ref, err := c.getRef(ctx, owner, repo, refName, prefixes)
	if err != nil {
		return nil, err
	}
	obj := ref.GetObject()
	resolved := &ResolvedRef{
		RefName:    refName,
		ObjectType: ObjectType(obj.GetType()),
		SHA:        obj.GetSHA(),
	}
	switch resolved.ObjectType {
	case ObjectTypeCommit:
		resolved.DereferencedSHA = resolved.SHA
		return resolved, nil
	case ObjectTypeTag:
		sha, err := c.dereferenceTag(ctx, owner, repo, resolved.SHA)
		if err != nil {
			return nil, err
		}
		resolved.DereferencedSHA = sha
		return resolved, nil
	default:
		return nil, logerr.WithFields(ErrUnsupportedReferenceType, logrus.Fields{ //nolint:wrapcheck
			"ref":         refName,
			"object_type": obj.GetType(),
		})
	}
}

// getRef gets the reference whose name matches refName exactly.
// https://docs.github.com/en/rest/git/refs#get-a-reference
func (c *Controller) getRef(ctx context.Context, owner, repo, refName string, prefixes []string) (*github.Reference, error) {
	for _, prefix := range prefixes {
		ref, err := c.gitService.GetRef(ctx, owner, repo, prefix+refName)
		if err != nil {
			if errors.Is(err, github.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get a reference: %w", logerr.WithFields(err, logrus.Fields{
				"ref": prefix + refName,
			}))
		}
		if ref.GetRef() != "refs/"+prefix+refName {
			continue
		}
		return ref, nil
	}
	return nil, logerr.WithFields(ErrReferenceNotFound, logrus.Fields{ //nolint:wrapcheck
		"ref": refName,
	})
}

// dereferenceTag gets the commit an annotated tag object points to.
// Only one level of indirection is followed.
// https://docs.github.com/en/rest/git/tags#get-a-tag
func (c *Controller) dereferenceTag(ctx context.Context, owner, repo, sha string) (string, error) {
	tag, err := c.gitService.GetTag(ctx, owner, repo, sha)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return "", fmt.Errorf("get a tag object: %w", logerr.WithFields(ErrReferenceNotFound, logrus.Fields{
				"tag_sha": sha,
			}))
		}
		return "", fmt.Errorf("get a tag object: %w", logerr.WithFields(err, logrus.Fields{
			"tag_sha": sha,
		}))
	}
	obj := tag.GetObject()
	if ObjectType(obj.GetType()) != ObjectTypeCommit || obj.GetSHA() == "" {
		return "", fmt.Errorf("the tag object doesn't point to a commit: %w", logerr.WithFields(ErrUnsupportedReferenceType, logrus.Fields{
			"tag_sha":     sha,
			"object_type": obj.GetType(),
		}))
	}
	return obj.GetSHA(), nil
}
