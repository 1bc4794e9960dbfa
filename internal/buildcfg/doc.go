// Package buildcfg defines the data model handed to the compiler driver: the
// workspace identity derived from the project root, and the build
// configuration record with its backend, optimization and output enums.
//
// A Configuration starts from Default, is adjusted while build arguments are
// processed, and is passed to the driver as a Clone. Nothing mutates a
// Configuration after it has been submitted.
package buildcfg
