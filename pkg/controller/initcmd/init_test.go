package initcmd_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/actcheck/pkg/config"
	"github.com/suzuki-shunsuke/actcheck/pkg/controller/initcmd"
)

func TestController_Init(t *testing.T) {
	t.Parallel()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logE := logrus.NewEntry(logger)

	t.Run("create", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		if err := initcmd.New(fs).Init(logE, initcmd.DefaultConfigFilePath); err != nil {
			t.Fatal(err)
		}
		cfg := &config.Config{}
		if err := config.NewReader(fs).Read(cfg, initcmd.DefaultConfigFilePath); err != nil {
			t.Fatalf("the template must be a valid configuration: %v", err)
		}
		if cfg.GetConcurrency() != config.DefaultConcurrency {
			t.Fatalf("wanted %d, got %d", config.DefaultConcurrency, cfg.GetConcurrency())
		}
	})

	t.Run("keep an existing file", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		const content = "concurrency: 2\n"
		if err := afero.WriteFile(fs, ".github/actcheck.yaml", []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := initcmd.New(fs).Init(logE, ".github/actcheck.yaml"); err != nil {
			t.Fatal(err)
		}
		b, err := afero.ReadFile(fs, ".github/actcheck.yaml")
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != content {
			t.Fatalf("the file must not be changed: %s", string(b))
		}
	})
}
