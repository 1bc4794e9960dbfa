// Package driver defines the contract between the build orchestrator and the
// compiler that performs the actual compilation, together with two
// implementations: Exec, which runs an external compiler process, and
// Recorder, which only records what would have been submitted.
//
// A driver owns workspaces. The orchestrator creates one workspace per
// build, sets its options once, and then adds the entry file, which starts
// compilation. Compiler failures are reported as *CompilationFailure and are
// not retried.
package driver
