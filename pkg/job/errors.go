package job

import "errors"

var (
	// ErrNothingMerged means no source could be merged; the returned bundle
	// still carries the merge log.
	ErrNothingMerged = errors.New("no files could be merged")
	// ErrNoOutput means a split produced zero files.
	ErrNoOutput = errors.New("split produced no files")
	// ErrNoInput means a request named no source.
	ErrNoInput = errors.New("no input")
)
