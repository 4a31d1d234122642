// Package cli provides the interactive command-line client for the
// university records backend.
//
// It drives the same session manager, HTTP adapter and API facade as the web
// frontend, with the session persisted in a local store so a restart keeps
// the user signed in. Every command passes through the route guard using the
// same role table as the web pages.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, commands and runREPL for details.
package cli
