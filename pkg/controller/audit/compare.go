package audit

import (
	"strings"

	"github.com/hashicorp/go-version"
)

// ComparisonResult is the outcome of checking one action reference.
type ComparisonResult struct {
	Reference  *ActionReference
	LatestTag  string
	LatestName string
	IsCurrent  bool
	// Err is set if the reference couldn't be checked.
	// Such a result is never current.
	Err error
}

// Reason returns why the result is degraded, or an empty string.
func (r *ComparisonResult) Reason() string {
	return reason(r.Err)
}

// Compare decides whether a declared reference is up to date.
// It is up to date if the latest release tag starts with the declared ref
// (so v2 matches v2.5.0) and both resolve to the same commit.
// The prefix rule is a string prefix, so v1 also matches v10.0.0.
func Compare(declared *ActionReference, declaredResolution *ResolvedRef, latest *ReleaseInfo, latestResolution *ResolvedRef) *ComparisonResult {
	return &ComparisonResult{
		Reference:  declared,
		LatestTag:  latest.TagName,
		LatestName: latest.DisplayName,
		IsCurrent: strings.HasPrefix(latest.TagName, declared.Ref) &&
			declaredResolution.DereferencedSHA != "" &&
			declaredResolution.DereferencedSHA == latestResolution.DereferencedSHA,
	}
}

// degraded returns an outdated result for a reference that couldn't be checked.
// latest may be nil.
func degraded(declared *ActionReference, latest *ReleaseInfo, err error) *ComparisonResult {
	result := &ComparisonResult{
		Reference: declared,
		Err:       err,
	}
	if latest != nil {
		result.LatestTag = latest.TagName
		result.LatestName = latest.DisplayName
	}
	return result
}

// isSiblingPrefix reports whether declared is a string prefix of latest but
// names a different version, e.g. v1 and v10.0.0.
func isSiblingPrefix(declared, latest string) bool {
	if declared == latest || !strings.HasPrefix(latest, declared) {
		return false
	}
	dv, err := version.NewVersion(declared)
	if err != nil {
		return false
	}
	lv, err := version.NewVersion(latest)
	if err != nil {
		return false
	}
	n := len(strings.Split(strings.TrimPrefix(declared, "v"), "."))
	ds := dv.Segments()
	ls := lv.Segments()
	for i := 0; i < n && i < len(ds) && i < len(ls); i++ {
		if ds[i] != ls[i] {
			return true
		}
	}
	return false
}
