// Package process manages the lifetime of external tool invocations
// (git, pandoc, xelatex). Commands are started in their own process group so
// that cancelling the run also stops the children they spawn.
package process
