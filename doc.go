// Package quiescent holds the types shared across the static weblog
// generator: its configuration and the errors it reports.
//
// The generator itself lives in package site; templates are compiled and
// rendered by lib/templite, posts parsed by lib/post and the Atom feed built
// by lib/feed.
package quiescent
