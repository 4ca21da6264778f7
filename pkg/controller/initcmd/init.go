package initcmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	templateConfig = `# yaml-language-server: $schema=https://raw.githubusercontent.com/suzuki-shunsuke/actcheck/refs/heads/main/json-schema/actcheck.json
# actcheck - https://github.com/suzuki-shunsuke/actcheck
# concurrency: 4
# max_retries: 3

ignore_actions:
# - name: actions/*
#   name_format: glob
#   ref: main
#   ref_format: fixed_string
# - name: suzuki-shunsuke/.*
#   name_format: regexp
`
	filePermission os.FileMode = 0o644
)

// Init creates a configuration file from a template.
// An existing file is left as is.
func (c *Controller) Init(logE *logrus.Entry, configFilePath string) error {
	f, err := afero.Exists(c.fs, configFilePath)
	if err != nil {
		return fmt.Errorf("check if a configuration file exists: %w", err)
	}
	if f {
		logE.WithField("config", configFilePath).Info("the configuration file already exists")
		return nil
	}
	if err := afero.WriteFile(c.fs, configFilePath, []byte(templateConfig), filePermission); err != nil {
		return fmt.Errorf("create a configuration file: %w", err)
	}
	logE.WithField("config", configFilePath).Info("created a configuration file")
	return nil
}
