// Package cli builds the dpcheck command tree. It turns flags into an
// app.Config, runs the requested operation and maps the outcome onto an
// ExitError carrying the process exit code.
package cli
