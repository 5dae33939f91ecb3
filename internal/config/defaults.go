package config

const (
	defaultWorkers         = 1
	defaultMaxReportSuffix = 10000
	defaultStopOnError     = true
	defaultSummaryTable    = false
	defaultProgressBar     = false
	defaultPauseAfterRun   = true
	defaultEncoding        = "utf-8"
	defaultLogLevel        = "warn"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Workers:         defaultWorkers,
		MaxReportSuffix: defaultMaxReportSuffix,
		StopOnError:     defaultStopOnError,
		SummaryTable:    defaultSummaryTable,
		ProgressBar:     defaultProgressBar,
		PauseAfterRun:   defaultPauseAfterRun,
		Console:         Console{Encoding: defaultEncoding},
		Logging:         Logging{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}
