package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/jabawack81/smaug/internal/config"
	"github.com/jabawack81/smaug/internal/dragonruby"
	"github.com/jabawack81/smaug/internal/publish"
)

var CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Publish struct {
		Path           string   `arg:"" optional:"" type:"existingdir" help:"Project directory (defaults to the current directory)"`
		Quiet          bool     `short:"q" help:"Suppress DragonRuby's output"`
		JSON           bool     `help:"Print the run outcome as JSON (implies --quiet)"`
		DragonrubyArgs []string `arg:"" optional:"" passthrough:"" help:"Arguments passed through to dragonruby-publish"`
	} `cmd:"" help:"Publish the project with its configured DragonRuby version"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"" help:"Create a starter Smaug.toml in the current directory"`

	Dragonruby struct {
		List struct{} `cmd:"" help:"List installed DragonRuby versions"`
	} `cmd:"" help:"Manage DragonRuby installations"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch cmd := ctx.Command(); {
	case strings.HasPrefix(cmd, "publish"):
		os.Exit(runPublish())
	case cmd == "init":
		os.Exit(runInit())
	case cmd == "dragonruby list":
		os.Exit(runDragonrubyList())
	}
}

func runPublish() int {
	quiet := CLI.Publish.Quiet || CLI.Publish.JSON

	registry, err := dragonruby.DefaultRegistry()
	if err != nil {
		slog.Error("Failed to locate DragonRuby installs", "error", err)
		return 1
	}

	res, err := publish.New(registry).Run(context.Background(), publish.Options{
		Path:           CLI.Publish.Path,
		DragonRubyArgs: CLI.Publish.DragonrubyArgs,
		Quiet:          quiet,
	})

	if CLI.Publish.JSON {
		emitJSON(os.Stdout, res, err)
	}
	if err != nil {
		if !CLI.Publish.JSON {
			slog.Error("Publish failed", "error", err)
		}
		return exitCodeFor(err)
	}
	if !CLI.Publish.JSON {
		fmt.Printf("Successfully published %s to Itch.io!\n", res.ProjectName)
	}
	return 0
}

func runInit() int {
	if err := config.Init(config.Filename, CLI.Init.Force); err != nil {
		slog.Error("Init failed", "error", err)
		return 1
	}
	fmt.Printf("Created %s\n", config.Filename)
	return 0
}

func runDragonrubyList() int {
	registry, err := dragonruby.DefaultRegistry()
	if err != nil {
		slog.Error("Failed to locate DragonRuby installs", "error", err)
		return 1
	}
	installs, err := registry.Installed()
	if err != nil {
		slog.Error("Failed to list DragonRuby installs", "error", err)
		return 1
	}
	if len(installs) == 0 {
		fmt.Println("No DragonRuby versions installed.")
		return 0
	}
	for _, install := range installs {
		if install.Edition != "" {
			fmt.Printf("%s (%s)\t%s\n", install.Version, install.Edition, install.Dir)
		} else {
			fmt.Printf("%s\t%s\n", install.Version, install.Dir)
		}
	}
	return 0
}

// emitJSON writes the run outcome in the structured shape.
func emitJSON(w io.Writer, res *publish.Result, err error) {
	enc := json.NewEncoder(w)
	if err == nil {
		_ = enc.Encode(map[string]any{"status": "success", "result": res})
		return
	}
	var perr *publish.Error
	if errors.As(err, &perr) {
		_ = enc.Encode(map[string]any{"status": "error", "error": perr})
		return
	}
	_ = enc.Encode(map[string]any{"status": "error", "error": map[string]string{"message": err.Error()}})
}

// exitCodeFor maps classified publish errors to exit codes.
func exitCodeFor(err error) int {
	switch publish.KindOf(err) {
	case publish.KindConfig:
		return 7 // Configuration error
	case publish.KindDragonRubyNotFound:
		return 8 // External toolchain missing
	case publish.KindMetadata, publish.KindStaging, publish.KindInvoke, publish.KindPublish, publish.KindReconcile:
		return 11 // Publish pipeline error
	case publish.KindCleanup:
		return 12 // Cleanup error
	default:
		return 1 // General error
	}
}
