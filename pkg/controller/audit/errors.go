package audit

import (
	"errors"

	"github.com/suzuki-shunsuke/actcheck/pkg/github"
)

var (
	ErrReadWorkflow             = errors.New("read the workflow file")
	ErrMalformedReference       = errors.New("the action reference must be formatted as owner/repo@ref")
	ErrReferenceNotFound        = errors.New("no reference matches the ref exactly")
	ErrUnsupportedReferenceType = errors.New("the reference resolves to neither a commit nor a tag")
	ErrNoReleaseFound           = errors.New("the repository has no published release")
	ErrOutdated                 = errors.New("some actions are outdated")
	ErrUnsupportedFormat        = errors.New("the output format must be table, json, or sarif")
)

// reason returns a short description of why a row is degraded.
func reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoReleaseFound):
		return "no release found"
	case errors.Is(err, ErrReferenceNotFound):
		return "reference not found"
	case errors.Is(err, ErrUnsupportedReferenceType):
		return "unsupported reference type"
	case errors.Is(err, github.ErrUpstream):
		return "GitHub API error"
	default:
		return "reason unknown"
	}
}
