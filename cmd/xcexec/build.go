package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xcexec/core/internal/config"
	"github.com/xcexec/core/internal/executor"
	"github.com/xcexec/core/internal/formatter"
	"github.com/xcexec/core/internal/formatter/human"
	"github.com/xcexec/core/internal/formatter/jsonfmt"
	"github.com/xcexec/core/internal/formatter/tui"
	"github.com/xcexec/core/internal/fsutil"
	"github.com/xcexec/core/internal/logger"
	"github.com/xcexec/core/internal/runner"
	"github.com/xcexec/core/internal/runner/builtins"
)

type buildOptions struct {
	ConfigPath string
}

func newBuildCmd(root *rootFlags) *cobra.Command {
	opts := buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every target described by a build description file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the build description YAML file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runBuild(ctx context.Context, root *rootFlags, opts buildOptions) error {
	level := "info"
	if root.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Writer: os.Stderr, Level: level, Component: "xcexec"})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	correlationID := logger.GenerateCorrelationID()
	ctx = logger.WithCorrelationID(ctx, correlationID)

	doc, err := config.Parse(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load build description: %w", err)
	}

	fm, tuiFormatter, err := newFormatter(root.format)
	if err != nil {
		return err
	}

	driver := &executor.Driver{
		Log:        log,
		Formatter:  fm,
		Filesystem: fsutil.OS{},
		Deriver:    config.NewDeriver(doc),
		Registry:   builtins.NewDefaultRegistry(),
		Subprocess: &runner.OSSubprocessRunner{},
		DryRun:     root.dryRun,
	}

	targetGraph := config.BuildTargetGraph(doc)
	ok := driver.Build(ctx, nil, formatter.BuildContext{Name: opts.ConfigPath}, targetGraph)

	if tuiFormatter != nil {
		tuiFormatter.Wait(!ok)
	}

	if !ok {
		return fmt.Errorf("build failed")
	}
	return nil
}

func newFormatter(format string) (formatter.Formatter, *tui.Formatter, error) {
	switch format {
	case "human", "":
		return human.New(os.Stdout.Fd()), nil, nil
	case "json":
		return jsonfmt.Formatter{}, nil, nil
	case "tui":
		f := tui.New()
		return f, f, nil
	default:
		return nil, nil, fmt.Errorf("unknown formatter %q", format)
	}
}
