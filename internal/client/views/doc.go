// Package views turns domain records into the plain values the templates and
// the CLI print: pagers, dashboard links, enroll controls, option lists. It
// does no I/O except Batch, which runs a view's independent backend calls.
package views
