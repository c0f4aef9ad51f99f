package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServices()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServices() {
	c.Learning.URL = strings.TrimSpace(c.Learning.URL)
	c.Learning.APIToken = strings.TrimSpace(c.Learning.APIToken)
	if c.Learning.RequestTimeout <= 0 {
		c.Learning.RequestTimeout = defaultLearningTimeout
	}
	c.Analysis.URL = strings.TrimSpace(c.Analysis.URL)
	c.Analysis.APIToken = strings.TrimSpace(c.Analysis.APIToken)
	if c.Analysis.RequestTimeout <= 0 {
		c.Analysis.RequestTimeout = defaultAnalysisTimeout
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
