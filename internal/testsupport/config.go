package testsupport

import (
	"path/filepath"
	"testing"

	"shelfcheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSheetSize overrides the maximum items per sheet on the test config.
func WithSheetSize(size int) ConfigOption {
	return func(c *config.Config) {
		c.Sheets.MaxItemsPerSheet = size
	}
}

// WithLearningService points the test config at a learning service endpoint.
func WithLearningService(url, token string) ConfigOption {
	return func(c *config.Config) {
		c.Learning.URL = url
		c.Learning.APIToken = token
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
