// Package initcmd creates the actcheck configuration file.
package initcmd

import "github.com/spf13/afero"

const DefaultConfigFilePath = ".actcheck.yaml"

type Controller struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Controller {
	return &Controller{fs: fs}
}
