package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/youruser/anycoder/internal/coder"
	"github.com/youruser/anycoder/internal/config"
	"github.com/youruser/anycoder/internal/llm"
	"github.com/youruser/anycoder/internal/logging"
	"github.com/youruser/anycoder/internal/state"
	"github.com/youruser/anycoder/internal/watch"
)

//go:embed version.txt
var version string

// buildCommit is set via -ldflags or falls back to VCS info from debug.ReadBuildInfo.
var buildCommit string

var log = logging.Get()

// getBuildCommit returns the short commit hash, resolving from VCS build info if needed.
func getBuildCommit() string {
	if buildCommit != "" {
		return buildCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return setting.Value[:7]
		}
	}
	return ""
}

func versionString() string {
	v := strings.TrimSpace(version)
	if commit := getBuildCommit(); commit != "" {
		return v + " (" + commit + ")"
	}
	return v
}

func logBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		log.Info("Build info: unavailable")
		return
	}

	var revision string
	var buildTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			buildTime = setting.Value
		}
	}

	v := info.Main.Version
	if revision != "" {
		v = revision
	}

	if buildTime != "" {
		log.Info("Build: %s; go=%s; time=%s", v, runtime.Version(), buildTime)
		return
	}
	log.Info("Build: %s; go=%s", v, runtime.Version())
}

// watchRoot resolves the directory to watch from the remaining args.
func watchRoot(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	return filepath.Abs(dir)
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v":
			fmt.Printf("anycoder %s\n", versionString())
			return
		case "--build":
			if commit := getBuildCommit(); commit != "" {
				fmt.Println(commit)
			} else {
				fmt.Println("unknown")
			}
			return
		}
	}

	defer log.Close()
	logBuildInfo()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "anycoder: %v\n", err)
		os.Exit(1)
	}

	root, err := watchRoot(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "anycoder: %v\n", err)
		os.Exit(1)
	}

	registry := state.New()
	defer registry.Cleanup()

	guard := watch.NewGuard(2 * time.Second)
	filter := watch.NewFilter(root, cfg.IgnoreDirs, cfg.IgnoreFiles, *cfg.UseGitignore)

	// A watcher that cannot cover the tree is fatal: better to stop here
	// than to silently miss saves.
	watcher, err := watch.NewWatcher(root, filter, guard, time.Duration(cfg.DebounceMs)*time.Millisecond)
	if err != nil {
		fmt.Fprintf(os.Stderr, "anycoder: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	client := llm.NewClient(cfg.BaseURL, cfg.APIKey)
	c := coder.New(client, cfg, registry, guard)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("anycoder %s watching %s\n", versionString(), root)
	fmt.Printf("Write %s wherever you want code completed, then save.\n", cfg.Marker)
	log.Info("Watching %s (model: %s, marker: %q, debounce: %dms)",
		root, cfg.Model, cfg.Marker, cfg.DebounceMs)

	go watcher.Run()

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down")
			return
		case path := <-watcher.Changes():
			c.ProcessChange(ctx, path)
		}
	}
}
