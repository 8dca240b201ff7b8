package config

import "errors"

// Configuration errors. Validate and the loader return these so callers
// can test them with errors.Is.
var (
	// ErrNoOutputDir is returned when no output directory is configured.
	ErrNoOutputDir = errors.New("no output directory specified: pass a directory or set outputDir")

	// ErrOutputDirNotFound is returned when an output directory does not
	// exist or is not a directory.
	ErrOutputDirNotFound = errors.New("output directory not found")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidFailOn is returned for an unknown --fail-on value.
	ErrInvalidFailOn = errors.New("invalid fail-on value: use error, warning, notice or none")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid format: use console, json, sarif, github or markdown")

	// ErrInvalidPageThresholds is returned when the minimum page size is
	// negative or not below the redirect stub size.
	ErrInvalidPageThresholds = errors.New("invalid page thresholds: minPageBytes must be non-negative and below redirectStubBytes")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
