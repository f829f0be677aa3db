// Package app contains the core application logic of the dpcheck command. It
// defines the App struct, its configuration, and the batch operations the
// CLI exposes, decoupled from flag parsing and process exit codes.
package app
