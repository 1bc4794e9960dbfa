// Package fsutil provides the small set of file system helpers the build
// orchestrator needs: idempotent directory creation and name validation.
package fsutil
