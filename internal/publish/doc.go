// Package publish orchestrates the DragonRuby publish pipeline.
//
// A run proceeds through a fixed sequence: load the configuration,
// write game metadata, resolve the configured DragonRuby install, mirror
// the project into a staging directory inside the install, run
// dragonruby-publish against the staged copy, reconcile the build
// artifacts and side-channel logs back into the project, and tear the
// staging directory down. Teardown runs on every exit path once staging
// has begun, so repeated failed runs never accumulate staging leftovers
// inside the install.
//
// Every failed step yields a classified *Error, so callers consuming
// structured output can always tell an orchestration failure apart from
// the toolchain itself failing.
package publish
