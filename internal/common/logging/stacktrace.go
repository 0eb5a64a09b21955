package logging

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const Stacktrace = "stacktrace"

// Unexported but considered part of the stable interface of pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Unexported but considered part of the stable interface of pkg/errors.
type causer interface {
	Cause() error
}

// WithStacktrace adds err to entry along with, if available, the stack trace recorded where it was created.
func WithStacktrace(entry *logrus.Entry, err error) *logrus.Entry {
	entry = entry.WithError(err)
	if stack := ExtractStack(err); stack != nil {
		entry = entry.WithField(Stacktrace, stack)
	}
	return entry
}

// ExtractStack follows both Cause and Unwrap chains and returns the innermost errors.StackTrace, which is the one
// closest to where the failure happened. It returns nil if no error in the chain carries a stack trace.
func ExtractStack(err error) errors.StackTrace {
	var stack errors.StackTrace
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			stack = st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			err = errors.Unwrap(err)
		}
	}
	return stack
}
