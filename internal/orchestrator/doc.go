// Package orchestrator turns build arguments into a compiler invocation. It
// derives the workspace identity from the project root, builds the
// configuration from defaults and arguments, prepares the output directory,
// and submits the entry file to a driver.Driver.
package orchestrator
