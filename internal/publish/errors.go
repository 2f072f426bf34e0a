package publish

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a publish run failure.
type Kind string

const (
	// KindConfig: configuration missing or unparsable.
	KindConfig Kind = "config"
	// KindMetadata: game metadata could not be written.
	KindMetadata Kind = "metadata"
	// KindDragonRubyNotFound: the declared toolchain version is not installed.
	KindDragonRubyNotFound Kind = "dragonruby_not_found"
	// KindStaging: mirroring the project into the install failed.
	KindStaging Kind = "staging"
	// KindInvoke: the publish binary could not be started at all.
	KindInvoke Kind = "invoke"
	// KindPublish: the toolchain ran but exited with a non-zero status.
	KindPublish Kind = "publish"
	// KindReconcile: copying artifacts or side channels back failed.
	KindReconcile Kind = "reconcile"
	// KindCleanup: the staging directory could not be removed.
	KindCleanup Kind = "cleanup"
)

// Error is a classified publish failure. Exactly one is produced per
// failed run.
type Error struct {
	Kind    Kind
	Project string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfig:
		return fmt.Sprintf("couldn't load Smaug configuration at %s: %v", e.Path, e.Err)
	case KindMetadata:
		return fmt.Sprintf("couldn't write game metadata at %s: %v", e.Path, e.Err)
	case KindDragonRubyNotFound:
		return "could not find the configured version of DragonRuby; install it with `smaug dragonruby install`"
	case KindStaging:
		return fmt.Sprintf("couldn't stage %s into %s: %v", e.Project, e.Path, e.Err)
	case KindInvoke:
		return fmt.Sprintf("couldn't run %s: %v", e.Path, e.Err)
	case KindPublish:
		return fmt.Sprintf("publishing %s failed", e.Project)
	case KindReconcile:
		return fmt.Sprintf("couldn't reconcile publish output for %s: %v", e.Project, e.Err)
	case KindCleanup:
		return fmt.Sprintf("couldn't clean up staging directory %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("publish failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// MarshalJSON emits the classified error in the structured-output shape.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind    Kind   `json:"kind"`
		Project string `json:"project,omitempty"`
		Path    string `json:"path,omitempty"`
		Message string `json:"message"`
		Cause   string `json:"cause,omitempty"`
	}{
		Kind:    e.Kind,
		Project: e.Project,
		Path:    e.Path,
		Message: e.Error(),
	}
	if e.Err != nil {
		out.Cause = e.Err.Error()
	}
	return json.Marshal(out)
}

// KindOf returns the classification of err, or the empty Kind when err
// is not a publish error.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}
