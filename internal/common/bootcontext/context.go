// Package bootcontext carries a contextual logger alongside a context.Context, so that the task index, run id and
// category being processed show up on every log line emitted below the command.
package bootcontext

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Context struct {
	context.Context
	Log *logrus.Entry
}

// New pairs ctx with log. Commands build their root context with it.
func New(ctx context.Context, log *logrus.Entry) *Context {
	return &Context{Context: ctx, Log: log}
}

// Background logs to the standard logger and is never cancelled.
func Background() *Context {
	return New(context.Background(), logrus.NewEntry(logrus.StandardLogger()))
}

// withContext keeps the logger of parent.
func withContext(parent *Context, ctx context.Context) *Context {
	return New(ctx, parent.Log)
}

// withLog keeps the cancellation of parent.
func withLog(parent *Context, log *logrus.Entry) *Context {
	return New(parent.Context, log)
}

func WithCancel(parent *Context) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent.Context)
	return withContext(parent, ctx), cancel
}

// WithTimeout bounds a whole run; expiry cancels the remaining iterations and categories.
func WithTimeout(parent *Context, timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent.Context, timeout)
	return withContext(parent, ctx), cancel
}

func WithLogField(parent *Context, key string, val interface{}) *Context {
	return withLog(parent, parent.Log.WithField(key, val))
}

func WithLogFields(parent *Context, fields logrus.Fields) *Context {
	return withLog(parent, parent.Log.WithFields(fields))
}

// ErrGroup runs bootstrap iterations concurrently. The returned context is cancelled as soon as one of them fails
// and logs like ctx.
func ErrGroup(ctx *Context) (*errgroup.Group, *Context) {
	group, gctx := errgroup.WithContext(ctx)
	return group, withContext(ctx, gctx)
}
