package audit

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// ActionReference is an action declared in a workflow file.
// Two references are the same if Name and Ref are the same.
type ActionReference struct {
	// Name is the repository path as written, e.g. actions/checkout or
	// github/codeql-action/init.
	Name string
	// Owner and Repo identify the GitHub repository.
	Owner string
	Repo  string
	// Ref is the declared version, e.g. v4, v4.2.2, main or a commit SHA.
	Ref string
	// Line is the first line number where the reference appears.
	Line int
}

func (a *ActionReference) Key() string {
	return a.Name + "@" + a.Ref
}

func (a *ActionReference) String() string {
	return a.Key()
}

// Extract returns the deduplicated action references found in a workflow file,
// in the order they first appear.
// A line is a candidate if it contains "uses:". Candidates that aren't
// formatted as owner/repo@ref are returned as errors wrapping
// ErrMalformedReference and don't stop the extraction.
// Local actions (./path) and Docker actions (docker://image) aren't repository
// references and are skipped silently.
func Extract(text string) ([]*ActionReference, []error) {
	refs := []*ActionReference{}
	seen := map[string]struct{}{}
	var errs []error
	for i, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "uses:") {
			continue
		}
		lineNumber := i + 1
		ref, err := parseLine(line)
		if err != nil {
			errs = append(errs, logerr.WithFields(err, logrus.Fields{ //nolint:wrapcheck
				"line_number": lineNumber,
				"line":        strings.TrimSpace(line),
			}))
			continue
		}
		if ref == nil {
			continue
		}
		if _, ok := seen[ref.Key()]; ok {
			continue
		}
		seen[ref.Key()] = struct{}{}
		ref.Line = lineNumber
		refs = append(refs, ref)
	}
	return refs, errs
}

// parseLine parses a line containing "uses:".
// It returns nil without error for local and Docker actions.
func parseLine(line string) (*ActionReference, error) {
	_, raw, ok := strings.Cut(line, ": ")
	if !ok {
		return nil, fmt.Errorf(`%w: ": " isn't found`, ErrMalformedReference)
	}
	raw = normalize(raw)
	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "docker://") {
		return nil, nil //nolint:nilnil
	}
	name, ref, ok := strings.Cut(raw, "@")
	if !ok {
		return nil, fmt.Errorf(`%w: "@" isn't found`, ErrMalformedReference)
	}
	owner, repoPath, ok := strings.Cut(name, "/")
	if !ok {
		return nil, fmt.Errorf(`%w: "/" isn't found`, ErrMalformedReference)
	}
	repo, _, _ := strings.Cut(repoPath, "/")
	if owner == "" || repo == "" || ref == "" {
		return nil, fmt.Errorf("%w: owner, repo, or ref is empty", ErrMalformedReference)
	}
	return &ActionReference{
		Name:  name,
		Owner: owner,
		Repo:  repo,
		Ref:   ref,
	}, nil
}

// normalize strips surrounding spaces, a trailing comment, and quotes.
// A comment starts with "#" preceded by a space or a tab.
func normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	for i := 1; i < len(raw); i++ {
		if raw[i] == '#' && (raw[i-1] == ' ' || raw[i-1] == '\t') {
			raw = strings.TrimSpace(raw[:i])
			break
		}
	}
	for _, quote := range []string{`"`, `'`} {
		if len(raw) >= 2 && strings.HasPrefix(raw, quote) && strings.HasSuffix(raw, quote) {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
