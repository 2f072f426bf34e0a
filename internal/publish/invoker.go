package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// InvokeSpec describes one toolchain invocation.
type InvokeSpec struct {
	Bin    string   // full path to dragonruby-publish
	Dir    string   // working directory, the install directory
	Target string   // staged project directory name, the first argument
	Args   []string // pass-through dragonruby arguments
	Quiet  bool     // discard the toolchain's stdout
}

// Invoker runs the publish toolchain and blocks until it exits.
// Implementations return (false, nil) when the process ran but exited
// non-zero, and a non-nil error only when it could not be started.
type Invoker interface {
	Invoke(ctx context.Context, spec InvokeSpec) (bool, error)
}

// BinaryInvoker executes the real dragonruby-publish binary.
type BinaryInvoker struct{}

// Invoke spawns the binary with the given working directory and
// arguments. Stdout is inherited unless quiet; stderr is always
// inherited so toolchain failures stay visible.
func (BinaryInvoker) Invoke(ctx context.Context, spec InvokeSpec) (bool, error) {
	args := append([]string{spec.Target}, spec.Args...)
	cmd := exec.CommandContext(ctx, spec.Bin, args...) // #nosec G204 -- binary path comes from the install registry
	cmd.Dir = spec.Dir
	if !spec.Quiet {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr

	slog.Info("Running DragonRuby publish", "bin", spec.Bin, "dir", spec.Dir, "target", spec.Target)
	err := cmd.Run()
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		slog.Debug("DragonRuby publish exited non-zero", "code", exitErr.ExitCode())
		return false, nil
	}
	return false, fmt.Errorf("start %s: %w", spec.Bin, err)
}
