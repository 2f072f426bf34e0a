package publish

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jabawack81/smaug/internal/config"
	"github.com/jabawack81/smaug/internal/dragonruby"
	"github.com/jabawack81/smaug/internal/fsutil"
	"github.com/jabawack81/smaug/internal/metadata"
)

// sideChannelDirs are the directories the toolchain writes diagnostics
// into, both in the staged copy and in the project root.
var sideChannelDirs = []string{"logs", "exceptions"}

// buildsDir is where the toolchain leaves the distributable artifacts.
const buildsDir = "builds"

// Options control one publish run.
type Options struct {
	// Path is the project directory; empty means the current directory.
	Path string
	// DragonRubyArgs are passed through to dragonruby-publish.
	DragonRubyArgs []string
	// Quiet discards the toolchain's stdout.
	Quiet bool
}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string        `json:"run_id"`
	ProjectName string        `json:"project_name"`
	Duration    time.Duration `json:"duration"`
}

// Publisher drives the publish pipeline against an install registry.
type Publisher struct {
	registry *dragonruby.Registry
	invoker  Invoker
}

// New creates a publisher using the real dragonruby-publish binary.
func New(registry *dragonruby.Registry) *Publisher {
	return &Publisher{registry: registry, invoker: BinaryInvoker{}}
}

// WithInvoker injects a custom invoker (for testing).
func (p *Publisher) WithInvoker(inv Invoker) *Publisher {
	p.invoker = inv
	return p
}

// Run executes one publish attempt and produces either a Result or a
// classified *Error. Once staging begins, the staging directory is
// removed on every exit path.
func (p *Publisher) Run(ctx context.Context, opts Options) (res *Result, runErr error) {
	runID := uuid.NewString()
	start := time.Now()
	log := slog.With("run_id", runID)

	root := opts.Path
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &Error{Kind: KindConfig, Err: err}
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Path: opts.Path, Err: err}
	}
	log.Debug("Publishing project", "path", root)

	configPath := filepath.Join(root, config.Filename)
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Path: configPath, Err: err}
	}
	project := cfg.Project.Name
	log.Debug("Loaded configuration", "project", project, "dragonruby", cfg.DragonRuby.Version)

	// The toolchain reads game_metadata.txt out of the mirrored tree,
	// so it has to exist before staging.
	metadataPath := filepath.Join(root, metadata.Dir, metadata.Filename)
	if err := metadata.FromConfig(cfg).Write(metadataPath); err != nil {
		return nil, &Error{Kind: KindMetadata, Project: project, Path: metadataPath, Err: err}
	}

	install, err := p.registry.Find(cfg.DragonRuby.Version)
	if err != nil {
		if errors.Is(err, dragonruby.ErrNotInstalled) {
			return nil, &Error{Kind: KindDragonRubyNotFound, Project: project, Err: err}
		}
		return nil, &Error{Kind: KindDragonRubyNotFound, Project: project, Path: p.registry.Root(), Err: err}
	}
	log.Debug("Resolved DragonRuby install", "version", install.Version, "dir", install.Dir)

	stagingDir := filepath.Join(install.Dir, filepath.Base(root))

	// Teardown runs on every exit path once staging has begun, even
	// after a partial copy.
	staged := false
	defer func() {
		if !staged {
			return
		}
		if err := fsutil.EnsureRemoved(stagingDir); err != nil {
			log.Warn("Failed to remove staging directory", "dir", stagingDir, "error", err)
			if runErr == nil {
				res = nil
				runErr = &Error{Kind: KindCleanup, Project: project, Path: stagingDir, Err: err}
			}
		}
	}()

	staged = true
	if err := fsutil.CopyDir(root, stagingDir); err != nil {
		return nil, &Error{Kind: KindStaging, Project: project, Path: stagingDir, Err: err}
	}

	// The mirror brought the project's own logs and exceptions along;
	// the run must start clean so stale output never looks fresh.
	for _, dir := range sideChannelDirs {
		if err := fsutil.EnsureRemoved(filepath.Join(stagingDir, dir)); err != nil {
			return nil, &Error{Kind: KindStaging, Project: project, Path: stagingDir, Err: err}
		}
	}
	log.Debug("Staged project", "dir", stagingDir)

	ok, err := p.invoker.Invoke(ctx, InvokeSpec{
		Bin:    install.PublishExecPath(),
		Dir:    install.Dir,
		Target: filepath.Base(root),
		Args:   opts.DragonRubyArgs,
		Quiet:  opts.Quiet,
	})
	if err != nil {
		return nil, &Error{Kind: KindInvoke, Project: project, Path: install.PublishExecPath(), Err: err}
	}

	// Reconcile regardless of exit status: the toolchain's logs and
	// exception reports matter most when the run failed.
	if rerr := p.reconcile(root, stagingDir, project); rerr != nil {
		return nil, rerr
	}

	if !ok {
		return nil, &Error{Kind: KindPublish, Project: project}
	}

	log.Info("Published project", "project", project, "duration", time.Since(start))
	return &Result{RunID: runID, ProjectName: project, Duration: time.Since(start)}, nil
}

// reconcile copies the staged build artifacts and side channels back
// into the project root.
func (p *Publisher) reconcile(root, stagingDir, project string) *Error {
	stagedBuilds := filepath.Join(stagingDir, buildsDir)
	if fsutil.IsDir(stagedBuilds) {
		if err := fsutil.CopyDir(stagedBuilds, filepath.Join(root, buildsDir)); err != nil {
			return &Error{Kind: KindReconcile, Project: project, Path: stagedBuilds, Err: err}
		}
	}

	for _, dir := range sideChannelDirs {
		local := filepath.Join(root, dir)
		if err := fsutil.EnsureRemoved(local); err != nil {
			return &Error{Kind: KindReconcile, Project: project, Path: local, Err: err}
		}
		staged := filepath.Join(stagingDir, dir)
		if !fsutil.IsDir(staged) {
			continue
		}
		if err := fsutil.CopyDir(staged, local); err != nil {
			return &Error{Kind: KindReconcile, Project: project, Path: staged, Err: err}
		}
	}
	return nil
}
