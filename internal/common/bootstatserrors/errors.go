// Package bootstatserrors contains the error types shared by every bootstats task.
// The command-line entrypoint looks for the error types defined in this file and sets the
// process exit code accordingly, so that a job-array scheduler can tell a bad input or a bad
// configuration (which will fail again on retry) from a partial failure.
//
// If multiple errors occur in some function (e.g., several categories fail within one task), that
// function should return an error of type multierror.Error from package
// github.com/hashicorp/go-multierror that encapsulates those individual errors.
package bootstatserrors

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Process exit codes returned by the bootstats binary.
const (
	ExitOK             = 0
	ExitPartialFailure = 1
	ExitInput          = 2
	ExitConfig         = 3
)

// ErrInput represents a missing, unreadable or malformed input table.
// It is fatal: no category is processed once it has been returned.
type ErrInput struct {
	// Path of the input, if known
	Path string
	// Optional message included with the error message
	Message string
	// Underlying error, if any
	Err error
}

func (err *ErrInput) Error() (s string) {
	if err.Path != "" {
		s = fmt.Sprintf("invalid input %q", err.Path)
	} else {
		s = "invalid input"
	}
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	if err.Err != nil {
		s = s + fmt.Sprintf(": %s", err.Err)
	}
	return
}

func (err *ErrInput) Unwrap() error {
	return err.Err
}

// ErrInvalidArgument is a generic configuration error, e.g. a task index outside of the range
// allowed by the task count or a non-positive number of bootstrap iterations.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the field referred to, e.g., "iterations"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %v is invalid for field %q", err.Value, err.Name)
	} else {
		return fmt.Sprintf("value %v is invalid for field %q; %s", err.Value, err.Name, err.Message)
	}
}

// ErrUndefinedStatistic is reported for a (group, scale, stat) combination that had no
// non-missing observation in any bootstrap iteration.
type ErrUndefinedStatistic struct {
	Category string
	Group    []string
	Scale    string
	Stat     string
}

func (err *ErrUndefinedStatistic) Error() string {
	group := strings.Join(err.Group, ",")
	if group == "" {
		group = "<all>"
	}
	if err.Category != "" {
		return fmt.Sprintf("%s of %s is undefined for group %s of category %s: no non-missing observations", err.Stat, err.Scale, group, err.Category)
	}
	return fmt.Sprintf("%s of %s is undefined for group %s: no non-missing observations", err.Stat, err.Scale, group)
}

// ErrSink is returned when the results for a category cannot be persisted.
type ErrSink struct {
	Tag  string // Category tag the results belong to
	Path string // Destination, if the sink writes to a file
	Err  error
}

func (err *ErrSink) Error() string {
	if err.Path != "" {
		return fmt.Sprintf("failed to write results for category %s to %q: %s", err.Tag, err.Path, err.Err)
	}
	return fmt.Sprintf("failed to write results for category %s: %s", err.Tag, err.Err)
}

func (err *ErrSink) Unwrap() error {
	return err.Err
}

// ErrCategory wraps any failure that happened while processing a single category.
type ErrCategory struct {
	Tag string
	Err error
}

func (err *ErrCategory) Error() string {
	return fmt.Sprintf("category %s failed: %s", err.Tag, err.Err)
}

func (err *ErrCategory) Unwrap() error {
	return err.Err
}

// ExitCode maps error types to process exit codes.
// Uses errors.As to look through the chain of errors, as opposed to just considering the topmost error in the chain.
// For a multierror the most severe code across all contained errors wins. An input error takes precedence
// over the invalid arguments it may wrap.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		code := ExitOK
		for _, e := range merr.Errors {
			if c := ExitCode(e); c > code {
				code = c
			}
		}
		if code == ExitOK {
			code = ExitPartialFailure
		}
		return code
	}

	// Using {} scopes just to re-use the "e" variable name for each case.
	{
		var e *ErrInput
		if errors.As(err, &e) {
			return ExitInput
		}
	}
	{
		var e *ErrInvalidArgument
		if errors.As(err, &e) {
			return ExitConfig
		}
	}
	return ExitPartialFailure
}
