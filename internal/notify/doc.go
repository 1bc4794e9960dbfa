// Package notify publishes build lifecycle events to a socket.io endpoint,
// typically an editor or a running engine instance that reloads the
// executable once a build succeeds. Publishing is best effort: callers log
// failures and carry on with the build.
package notify
