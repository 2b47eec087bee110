// Package rayman tags each request with a ray: a unique id carried in its
// context, along with a logger that reports it.
package rayman

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ID string

type key int

const (
	rayKey key = iota
	loggerKey
)

var discard = &logrus.Logger{
	Out:       io.Discard,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.PanicLevel,
}

func newRayID() ID {
	return ID(uuid.New().String())
}

func ContextWithRay(ctx context.Context) context.Context {
	return context.WithValue(ctx, rayKey, newRayID())
}

func FromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(rayKey).(ID)
	return id, ok
}

func contextWithLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// ContextLogger returns the logger bound to ctx, or one that discards
// everything.
func ContextLogger(ctx context.Context) logrus.FieldLogger {
	if logger, ok := ctx.Value(loggerKey).(logrus.FieldLogger); ok {
		return logger
	}
	return discard
}
