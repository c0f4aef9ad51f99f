package config

const (
	defaultDataDir          = "~/.local/share/shelfcheck"
	defaultLogDir           = "~/.local/share/shelfcheck/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultMaxItemsPerSheet = 50
	defaultLearningTimeout  = 30
	defaultAnalysisTimeout  = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Sheets: Sheets{
			MaxItemsPerSheet: defaultMaxItemsPerSheet,
		},
		Learning: Learning{
			RequestTimeout: defaultLearningTimeout,
		},
		Analysis: Analysis{
			RequestTimeout: defaultAnalysisTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
