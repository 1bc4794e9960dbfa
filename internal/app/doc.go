// Package app wires the build together. It owns the logger, reads the
// project file, chooses the compiler driver and the notification publisher,
// and runs the orchestrator. It is decoupled from any specific entry point
// like a CLI.
package app
