package project

import "time"

// DefaultFileName is looked up in the project root when no explicit path is given.
const DefaultFileName = "build.hcl"

// File is the decoded project file. Zero values mean "not set".
type File struct {
	EntryFile   string
	EngineDir   string
	Diagnostics bool
	Compiler    Compiler
	// Notify is nil when the file has no notify block.
	Notify *Notify
}

// Compiler configures the external compiler process.
type Compiler struct {
	Command     string
	Args        []string
	ImportPaths []string
	Env         map[string]string
}

// Notify configures the socket.io endpoint that receives build events.
type Notify struct {
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
}

// Vars are the values exposed to expressions in the project file.
type Vars struct {
	Root string
	Name string
	Env  map[string]string
}
