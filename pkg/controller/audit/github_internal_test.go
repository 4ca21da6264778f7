package audit

import (
	"context"
	"sync"

	"github.com/suzuki-shunsuke/actcheck/pkg/github"
)

type fakeRepo struct {
	// refs is keyed by the ref name without refs/, e.g. tags/v4.
	refs    map[string]*github.Reference
	tags    map[string]*github.Tag
	release *github.RepositoryRelease
	// releaseErr is returned by GetLatestRelease if set.
	releaseErr error
}

// fakeGitHub implements GitService and RepositoriesService.
// Unknown repositories, refs, tags, and releases are reported as github.ErrNotFound.
type fakeGitHub struct {
	repos map[string]*fakeRepo
	// refErr is returned by every GetRef call if set.
	refErr error

	mutex sync.Mutex
	calls []string
}

func (f *fakeGitHub) record(call string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGitHub) GetRef(_ context.Context, owner, repo, ref string) (*github.Reference, error) {
	f.record("GetRef " + owner + "/" + repo + " " + ref)
	if f.refErr != nil {
		return nil, f.refErr
	}
	r, ok := f.repos[owner+"/"+repo]
	if !ok {
		return nil, github.ErrNotFound
	}
	reference, ok := r.refs[ref]
	if !ok {
		return nil, github.ErrNotFound
	}
	return reference, nil
}

func (f *fakeGitHub) GetTag(_ context.Context, owner, repo, sha string) (*github.Tag, error) {
	f.record("GetTag " + owner + "/" + repo + " " + sha)
	r, ok := f.repos[owner+"/"+repo]
	if !ok {
		return nil, github.ErrNotFound
	}
	tag, ok := r.tags[sha]
	if !ok {
		return nil, github.ErrNotFound
	}
	return tag, nil
}

func (f *fakeGitHub) GetLatestRelease(_ context.Context, owner, repo string) (*github.RepositoryRelease, error) {
	f.record("GetLatestRelease " + owner + "/" + repo)
	r, ok := f.repos[owner+"/"+repo]
	if !ok {
		return nil, github.ErrNotFound
	}
	if r.releaseErr != nil {
		return nil, r.releaseErr
	}
	if r.release == nil {
		return nil, github.ErrNotFound
	}
	return r.release, nil
}

func newRef(name, objectType, sha string) *github.Reference {
	return &github.Reference{
		Ref: github.Ptr("refs/" + name),
		Object: &github.GitObject{
			Type: github.Ptr(objectType),
			SHA:  github.Ptr(sha),
		},
	}
}

func newTag(objectType, sha string) *github.Tag {
	return &github.Tag{
		Object: &github.GitObject{
			Type: github.Ptr(objectType),
			SHA:  github.Ptr(sha),
		},
	}
}

func newRelease(tagName, name string) *github.RepositoryRelease {
	release := &github.RepositoryRelease{
		TagName: github.Ptr(tagName),
	}
	if name != "" {
		release.Name = github.Ptr(name)
	}
	return release
}
