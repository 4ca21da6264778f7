// Package config reads the optional actcheck configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

const (
	DefaultConcurrency = 4
	MaxConcurrency     = 8
	DefaultMaxRetries  = 3
)

type Config struct {
	Concurrency   int             `json:"concurrency,omitempty" yaml:"concurrency,omitempty" jsonschema:"description=The number of actions resolved in parallel. The default is 4 and the maximum is 8,minimum=1,maximum=8"`
	MaxRetries    *int            `json:"max_retries,omitempty" yaml:"max_retries,omitempty" jsonschema:"description=The number of retries of transient GitHub API failures. The default is 3,minimum=0"`
	IgnoreActions []*IgnoreAction `json:"ignore_actions,omitempty" yaml:"ignore_actions,omitempty" jsonschema:"description=Actions and reusable workflows that actcheck ignores"`
}

// GetConcurrency returns the worker pool size clamped to [1, MaxConcurrency].
func (c *Config) GetConcurrency() int {
	switch {
	case c == nil || c.Concurrency == 0:
		return DefaultConcurrency
	case c.Concurrency < 1:
		return 1
	case c.Concurrency > MaxConcurrency:
		return MaxConcurrency
	default:
		return c.Concurrency
	}
}

func (c *Config) GetMaxRetries() int {
	if c == nil || c.MaxRetries == nil || *c.MaxRetries < 0 {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}

// Ignore reports whether an action is excluded by ignore_actions.
func (c *Config) Ignore(name, ref string) (bool, error) {
	if c == nil {
		return false, nil
	}
	for _, ia := range c.IgnoreActions {
		f, err := ia.Match(name, ref)
		if err != nil {
			return false, err
		}
		if f {
			return true, nil
		}
	}
	return false, nil
}

const (
	formatFixedString = "fixed_string"
	formatGlob        = "glob"
	formatRegexp      = "regexp"
)

type IgnoreAction struct {
	Name       string `json:"name" yaml:"name" jsonschema:"description=Action name (owner/repo)"`
	Ref        string `json:"ref,omitempty" yaml:"ref,omitempty" jsonschema:"description=Action ref. If not specified, any ref is ignored"`
	NameFormat string `json:"name_format" yaml:"name_format" jsonschema:"enum=fixed_string,enum=glob,enum=regexp"`
	RefFormat  string `json:"ref_format,omitempty" yaml:"ref_format,omitempty" jsonschema:"enum=fixed_string,enum=glob,enum=regexp"`
	nameRegexp *regexp.Regexp
	refRegexp  *regexp.Regexp
}

func initFormat(value, format string) (*regexp.Regexp, error) {
	switch format {
	case formatFixedString:
		return nil, nil //nolint:nilnil
	case formatGlob:
		if _, err := path.Match(value, "a"); err != nil {
			return nil, fmt.Errorf("parse as a glob: %w", err)
		}
		return nil, nil //nolint:nilnil
	case formatRegexp:
		r, err := regexp.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("compile as a regular expression: %w", err)
		}
		return r, nil
	default:
		return nil, errors.New("format must be fixed_string, glob, or regexp")
	}
}

func (ia *IgnoreAction) Init() error {
	if ia.Name == "" {
		return errors.New("name is required")
	}
	if ia.NameFormat == "" {
		return errors.New("name_format is required")
	}
	var err error
	ia.nameRegexp, err = initFormat(ia.Name, ia.NameFormat)
	if err != nil {
		return fmt.Errorf("initialize name: %w", err)
	}
	if ia.Ref == "" {
		return nil
	}
	if ia.RefFormat == "" {
		return errors.New("ref_format is required if ref is specified")
	}
	ia.refRegexp, err = initFormat(ia.Ref, ia.RefFormat)
	if err != nil {
		return fmt.Errorf("initialize ref: %w", err)
	}
	return nil
}

func match(value, pattern, format string, r *regexp.Regexp) (bool, error) {
	switch format {
	case formatFixedString:
		return value == pattern, nil
	case formatGlob:
		f, err := path.Match(pattern, value)
		if err != nil {
			return false, fmt.Errorf("match as a glob: %w", err)
		}
		return f, nil
	case formatRegexp:
		if r == nil {
			var err error
			r, err = regexp.Compile(pattern)
			if err != nil {
				return false, fmt.Errorf("compile as a regular expression: %w", err)
			}
		}
		return r.MatchString(value), nil
	default:
		return false, errors.New("unexpected format: " + format)
	}
}

func (ia *IgnoreAction) Match(name, ref string) (bool, error) {
	f, err := match(name, ia.Name, ia.NameFormat, ia.nameRegexp)
	if err != nil {
		return false, fmt.Errorf("match name: %w", err)
	}
	if !f || ia.Ref == "" {
		return f, nil
	}
	f, err = match(ref, ia.Ref, ia.RefFormat, ia.refRegexp)
	if err != nil {
		return false, fmt.Errorf("match ref: %w", err)
	}
	return f, nil
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".actcheck.yaml", ".github/actcheck.yaml", ".actcheck.yml", ".github/actcheck.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

// Find returns configFilePath if it isn't empty.
// Otherwise it looks for a configuration file in the current directory.
// It returns an empty string if no configuration file is found.
func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	return getConfigPath(f.fs)
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath == "" {
		return nil
	}
	f, err := r.fs.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("open a configuration file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f, yaml.DisallowUnknownField()).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode a configuration file as YAML: %w", err)
	}
	for _, ia := range cfg.IgnoreActions {
		if err := ia.Init(); err != nil {
			return fmt.Errorf("initialize ignore_action: %w", err)
		}
	}
	return nil
}
