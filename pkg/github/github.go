// Package github provides the GitHub API client used by actcheck.
// It builds an authenticated go-github client from a token taken from the
// environment or the OS keyring, points it at github.com or a GitHub
// Enterprise Server, and wraps the Git and Repositories services with retry,
// error classification and per-run memoization.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type (
	Client            = github.Client
	Reference         = github.Reference
	Response          = github.Response
	RepositoryRelease = github.RepositoryRelease
	GitObject         = github.GitObject
	Tag               = github.Tag
)

const defaultAPIURL = "https://api.github.com"

// ErrNoGitHubToken is returned when no access token is available.
var ErrNoGitHubToken = errors.New("GitHub Access Token is required. Set the environment variable GITHUB_TOKEN")

// Ptr returns a pointer to the provided value.
func Ptr[T any](v T) *T {
	return github.Ptr(v)
}

// Env holds the environment values that affect client construction.
type Env struct {
	Token          string
	APIURL         string
	KeyringEnabled bool
}

// SetFromEnv reads the environment through getEnv.
// ACTCHECK_GITHUB_TOKEN takes precedence over GITHUB_TOKEN.
func (e *Env) SetFromEnv(getEnv func(string) string) {
	e.Token = getEnv("ACTCHECK_GITHUB_TOKEN")
	if e.Token == "" {
		e.Token = getEnv("GITHUB_TOKEN")
	}
	e.APIURL = getEnv("ACTCHECK_GITHUB_API_URL")
	if e.APIURL == "" {
		if u := getEnv("GITHUB_API_URL"); u != defaultAPIURL {
			e.APIURL = u
		}
	}
	e.KeyringEnabled = getEnv("ACTCHECK_KEYRING_ENABLED") == "true"
}

// New creates an authenticated GitHub API client.
// A missing token is a configuration error: every lookup actcheck performs,
// including the second hop of annotated tags, must be authenticated.
func New(ctx context.Context, logE *logrus.Entry, env *Env) (*Client, error) {
	ts, err := tokenSource(logE, env)
	if err != nil {
		return nil, err
	}
	return NewWithBaseURL(oauth2.NewClient(ctx, ts), env.APIURL)
}

// NewWithBaseURL creates a client sending requests with httpClient to baseURL.
// An empty baseURL means github.com.
func NewWithBaseURL(httpClient *http.Client, baseURL string) (*Client, error) {
	client := github.NewClient(httpClient)
	if baseURL == "" {
		return client, nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse the GitHub API URL: %w", err)
	}
	client.BaseURL = u
	return client, nil
}

func tokenSource(logE *logrus.Entry, env *Env) (oauth2.TokenSource, error) {
	if env.Token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: env.Token}), nil
	}
	if !env.KeyringEnabled {
		return nil, ErrNoGitHubToken
	}
	token, err := NewTokenManager().GetToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoGitHubToken, err)
	}
	logE.Debug("got a GitHub Access token from keyring")
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}), nil
}
