// Package process abstracts external command invocation behind the
// Runner interface, with an os/exec-backed implementation and a
// recording fake for tests.
package process
