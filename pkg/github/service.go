package github

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// GitService is the subset of the go-github Git API actcheck uses.
// *github.GitService satisfies it.
type GitService interface {
	GetRef(ctx context.Context, owner, repo, ref string) (*Reference, *Response, error)
	GetTag(ctx context.Context, owner, repo, sha string) (*Tag, *Response, error)
}

// RepositoriesService is the subset of the go-github Repositories API actcheck uses.
// *github.RepositoriesService satisfies it.
type RepositoriesService interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*RepositoryRelease, *Response, error)
}

// GitServiceImpl wraps a GitService with retry, error classification and
// memoization. It is safe for concurrent use.
type GitServiceImpl struct {
	service GitService
	policy  *RetryPolicy
	refs    *memo[*Reference]
	tags    *memo[*Tag]
}

func NewGitService(service GitService, policy *RetryPolicy) *GitServiceImpl {
	return &GitServiceImpl{
		service: service,
		policy:  policy,
		refs:    newMemo[*Reference](),
		tags:    newMemo[*Tag](),
	}
}

// GetRef gets a reference such as tags/v4 or heads/main.
// https://docs.github.com/en/rest/git/refs#get-a-reference
func (g *GitServiceImpl) GetRef(ctx context.Context, owner, repo, ref string) (*Reference, error) {
	return g.refs.get(fmt.Sprintf("%s/%s/%s", owner, repo, ref), func() (*Reference, error) {
		return call(ctx, g.policy, func() (*Reference, *Response, error) {
			return g.service.GetRef(ctx, owner, repo, ref) //nolint:wrapcheck
		})
	})
}

// GetTag gets an annotated tag object by its SHA.
// https://docs.github.com/en/rest/git/tags#get-a-tag
func (g *GitServiceImpl) GetTag(ctx context.Context, owner, repo, sha string) (*Tag, error) {
	return g.tags.get(fmt.Sprintf("%s/%s/%s", owner, repo, sha), func() (*Tag, error) {
		return call(ctx, g.policy, func() (*Tag, *Response, error) {
			return g.service.GetTag(ctx, owner, repo, sha) //nolint:wrapcheck
		})
	})
}

// RepositoriesServiceImpl wraps a RepositoriesService with retry, error
// classification and memoization. It is safe for concurrent use.
type RepositoriesServiceImpl struct {
	service  RepositoriesService
	policy   *RetryPolicy
	releases *memo[*RepositoryRelease]
}

func NewRepositoriesService(service RepositoriesService, policy *RetryPolicy) *RepositoriesServiceImpl {
	return &RepositoriesServiceImpl{
		service:  service,
		policy:   policy,
		releases: newMemo[*RepositoryRelease](),
	}
}

// GetLatestRelease gets the latest published release.
// Draft and prerelease releases are never returned by this endpoint.
// https://docs.github.com/en/rest/releases/releases#get-the-latest-release
func (r *RepositoriesServiceImpl) GetLatestRelease(ctx context.Context, owner, repo string) (*RepositoryRelease, error) {
	return r.releases.get(owner+"/"+repo, func() (*RepositoryRelease, error) {
		return call(ctx, r.policy, func() (*RepositoryRelease, *Response, error) {
			return r.service.GetLatestRelease(ctx, owner, repo) //nolint:wrapcheck
		})
	})
}

type memoResult[T any] struct {
	value T
	err   error
}

// memo caches results by key and collapses concurrent calls for the same key.
type memo[T any] struct {
	mutex   sync.Mutex
	results map[string]*memoResult[T]
	group   singleflight.Group
}

func newMemo[T any]() *memo[T] {
	return &memo[T]{
		results: map[string]*memoResult[T]{},
	}
}

func (m *memo[T]) lookup(key string) (*memoResult[T], bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	r, ok := m.results[key]
	return r, ok
}

func (m *memo[T]) get(key string, fn func() (T, error)) (T, error) {
	if r, ok := m.lookup(key); ok {
		return r.value, r.err
	}
	v, err, _ := m.group.Do(key, func() (any, error) {
		value, err := fn()
		// context errors belong to the caller, not to the key
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			m.mutex.Lock()
			m.results[key] = &memoResult[T]{value: value, err: err}
			m.mutex.Unlock()
		}
		return value, err
	})
	value, _ := v.(T)
	return value, err //nolint:wrapcheck
}
