package audit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/suzuki-shunsuke/actcheck/pkg/github"
)

const (
	commitA = "1111111111111111111111111111111111111111"
	commitB = "2222222222222222222222222222222222222222"
	tagObjA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	treeSHA = "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
)

func TestController_resolveRef(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name  string
		repo  *fakeRepo
		ref   string
		exp   *ResolvedRef
		isErr error
	}{
		{
			name: "lightweight tag",
			repo: &fakeRepo{
				refs: map[string]*github.Reference{
					"tags/v2": newRef("tags/v2", "commit", commitA),
				},
			},
			ref: "v2",
			exp: &ResolvedRef{RefName: "v2", ObjectType: ObjectTypeCommit, SHA: commitA, DereferencedSHA: commitA},
		},
		{
			name: "annotated tag",
			repo: &fakeRepo{
				refs: map[string]*github.Reference{
					"tags/v2": newRef("tags/v2", "tag", tagObjA),
				},
				tags: map[string]*github.Tag{
					tagObjA: newTag("commit", commitB),
				},
			},
			ref: "v2",
			exp: &ResolvedRef{RefName: "v2", ObjectType: ObjectTypeTag, SHA: tagObjA, DereferencedSHA: commitB},
		},
		{
			name: "nested annotated tag",
			repo: &fakeRepo{
				refs: map[string]*github.Reference{
					"tags/v2": newRef("tags/v2", "tag", tagObjA),
				},
				tags: map[string]*github.Tag{
					tagObjA: newTag("tag", commitB),
				},
			},
			ref:   "v2",
			isErr: ErrUnsupportedReferenceType,
		},
		{
			name: "tree",
			repo: &fakeRepo{
				refs: map[string]*github.Reference{
					"tags/v2": newRef("tags/v2", "tree", treeSHA),
				},
			},
			ref:   "v2",
			isErr: ErrUnsupportedReferenceType,
		},
		{
			name: "tag object is missing",
			repo: &fakeRepo{
				refs: map[string]*github.Reference{
					"tags/v2": newRef("tags/v2", "tag", tagObjA),
				},
			},
			ref:   "v2",
			isErr: ErrReferenceNotFound,
		},
		{
			name:  "not found",
			repo:  &fakeRepo{},
			ref:   "v100",
			isErr: ErrReferenceNotFound,
		},
		{
			name: "name mismatch",
			repo: &fakeRepo{
				refs: map[string]*github.Reference{
					"tags/v2": newRef("tags/v2.0.0", "commit", commitA),
				},
			},
			ref:   "v2",
			isErr: ErrReferenceNotFound,
		},
		{
			name: "branch",
			repo: &fakeRepo{
				refs: map[string]*github.Reference{
					"heads/main": newRef("heads/main", "commit", commitA),
				},
			},
			ref: "main",
			exp: &ResolvedRef{RefName: "main", ObjectType: ObjectTypeCommit, SHA: commitA, DereferencedSHA: commitA},
		},
		{
			name: "tag is preferred to branch",
			repo: &fakeRepo{
				refs: map[string]*github.Reference{
					"tags/v2":  newRef("tags/v2", "commit", commitA),
					"heads/v2": newRef("heads/v2", "commit", commitB),
				},
			},
			ref: "v2",
			exp: &ResolvedRef{RefName: "v2", ObjectType: ObjectTypeCommit, SHA: commitA, DereferencedSHA: commitA},
		},
		{
			name: "full commit SHA",
			repo: &fakeRepo{},
			ref:  commitA,
			exp:  &ResolvedRef{RefName: commitA, ObjectType: ObjectTypeCommit, SHA: commitA, DereferencedSHA: commitA},
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			gh := &fakeGitHub{
				repos: map[string]*fakeRepo{"actions/checkout": d.repo},
			}
			ctrl := &Controller{gitService: gh, repositoriesService: gh}
			resolved, err := ctrl.resolveRef(t.Context(), "actions", "checkout", d.ref)
			if err != nil {
				if d.isErr == nil {
					t.Fatal(err)
				}
				if !errors.Is(err, d.isErr) {
					t.Fatalf("wanted %v, got %v", d.isErr, err)
				}
				return
			}
			if d.isErr != nil {
				t.Fatalf("wanted %v, got nil", d.isErr)
			}
			if diff := cmp.Diff(d.exp, resolved); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestController_resolveRef_fullSHA(t *testing.T) {
	t.Parallel()
	gh := &fakeGitHub{}
	ctrl := &Controller{gitService: gh, repositoriesService: gh}
	if _, err := ctrl.resolveRef(t.Context(), "actions", "checkout", commitA); err != nil {
		t.Fatal(err)
	}
	if len(gh.calls) != 0 {
		t.Fatalf("a full commit SHA must be resolved without API calls, got %v", gh.calls)
	}
}

func TestController_resolveTag(t *testing.T) {
	t.Parallel()
	gh := &fakeGitHub{
		repos: map[string]*fakeRepo{
			"actions/checkout": {
				refs: map[string]*github.Reference{
					"heads/v4.0.0": newRef("heads/v4.0.0", "commit", commitA),
				},
			},
		},
	}
	ctrl := &Controller{gitService: gh, repositoriesService: gh}
	if _, err := ctrl.resolveTag(t.Context(), "actions", "checkout", "v4.0.0"); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("a release tag must not be resolved to a branch, got %v", err)
	}
}

func TestController_resolveRef_upstreamError(t *testing.T) {
	t.Parallel()
	gh := &fakeGitHub{
		refErr: fmt.Errorf("%w: 503", github.ErrUpstream),
	}
	ctrl := &Controller{gitService: gh, repositoriesService: gh}
	_, err := ctrl.resolveRef(t.Context(), "actions", "checkout", "v2")
	if !errors.Is(err, github.ErrUpstream) {
		t.Fatalf("wanted github.ErrUpstream, got %v", err)
	}
	if len(gh.calls) != 1 {
		t.Fatalf("branches must not be tried after an upstream error, got %v", gh.calls)
	}
}
