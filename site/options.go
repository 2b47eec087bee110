package site

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Option represents a functional option for configuring a Generator.
type Option func(*Generator) error

// FieldLoggingOption enables logging to a logrus-enabled stream.
func FieldLoggingOption(logger logrus.FieldLogger) Option {
	return func(g *Generator) error {
		g.logger = logger
		return nil
	}
}

// ConcurrencyOption bounds the number of pages rendered at once.
func ConcurrencyOption(n int) Option {
	return func(g *Generator) error {
		if n > 0 {
			g.concurrency = n
		}
		return nil
	}
}

// ClockOption replaces the clock used to date the feed.
func ClockOption(now func() time.Time) Option {
	return func(g *Generator) error {
		g.now = now
		return nil
	}
}
