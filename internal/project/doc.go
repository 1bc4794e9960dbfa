// Package project loads the optional build.hcl file at a project root. The
// file can override the entry file, the engine directory, the compiler
// command and its toolchain import paths, enable diagnostics-only builds,
// and configure build-event notifications.
//
// Expressions in the file are evaluated with the variables project.root,
// project.name and env.<NAME>, and the functions join, upper, lower and
// format. A missing file is not an error.
package project
