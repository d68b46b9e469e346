package main

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/ludo-technologies/jsast/app"
	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/internal/config"
	"github.com/ludo-technologies/jsast/service"
	"github.com/spf13/cobra"
)

// requestFlags are the per-command flags that override configuration
type requestFlags struct {
	format      string
	sourceType  string
	order       string
	maxDepth    int
	recursive   bool
	include     []string
	exclude     []string
	maxFileSize string
	progress    bool
	gitignore   bool
}

// bindSourceFlags registers the flags that select and parse input files
func (f *requestFlags) bindSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.sourceType, "source-type", "t", "",
		"Grammar: module, script, jsx, ts, typescript, tsx (default: by file extension)")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", true,
		"Descend into subdirectories")
	cmd.Flags().StringSliceVar(&f.include, "include", nil,
		"Include patterns (e.g. '**/*.ts')")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil,
		"Exclude patterns in .gitignore syntax")
	cmd.Flags().StringVar(&f.maxFileSize, "max-file-size", "",
		"Skip files larger than this size (e.g. 2MB, 512KiB; 0 disables)")
	cmd.Flags().BoolVar(&f.progress, "progress", true,
		"Show a progress bar on interactive terminals")
	cmd.Flags().BoolVar(&f.gitignore, "gitignore", true,
		"Respect the .gitignore of each scanned directory")
}

// bindWalkFlags registers the traversal flags
func (f *requestFlags) bindWalkFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.order, "order", "",
		"Walk order: pre (depth-first) or level (breadth-first)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0,
		"Do not descend below this depth (0 = unlimited)")
}

// bindFormatFlag registers --format/-f
func (f *requestFlags) bindFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "",
		"Output format: text, json, yaml, table")
}

// commandContext is everything a command needs after configuration is
// resolved
type commandContext struct {
	cfg       *config.Config
	req       *domain.ParseRequest
	logger    *slog.Logger
	formatter *service.OutputFormatterImpl
	progress  domain.ProgressManager
}

// Close releases the progress manager
func (c *commandContext) Close() {
	c.progress.Close()
}

// useCase wires the parse service and formatter
func (c *commandContext) useCase() (*app.ParseUseCase, error) {
	svc := service.NewParseServiceWithConfig(&c.cfg.Performance, c.progress, c.logger)
	return app.NewParseUseCaseBuilder().
		WithService(svc).
		WithFormatter(c.formatter).
		Build()
}

// resolveRequest loads the configuration that applies to paths and overlays
// the flags set on the command line
func resolveRequest(cmd *cobra.Command, f *requestFlags, paths []string) (*commandContext, error) {
	target := ""
	if len(paths) > 0 {
		target = paths[0]
	}

	loader := service.NewConfigurationLoader()
	cfg, base, err := loader.LoadConfigWithTarget(globals.configPath, target)
	if err != nil {
		return nil, err
	}

	override := &domain.ParseRequest{
		Paths:        paths,
		SourceType:   f.sourceType,
		OutputFormat: domain.OutputFormat(f.format),
		OutputWriter: cmd.OutOrStdout(),
		NoColor:      globals.noColor,
		WalkOrder:    f.order,
		MaxDepth:     f.maxDepth,
		ConfigPath:   globals.configPath,
	}
	if cmd.Flags().Changed("include") {
		override.IncludePatterns = f.include
	}
	if cmd.Flags().Changed("exclude") {
		override.ExcludePatterns = f.exclude
	}

	req := loader.MergeConfig(base, override)

	// Flags that can switch a setting off are applied only when given.
	if cmd.Flags().Changed("recursive") {
		req.Recursive = f.recursive
	}
	if cmd.Flags().Changed("progress") {
		req.ShowProgress = f.progress
	}
	if cmd.Flags().Changed("gitignore") {
		req.RespectGitignore = f.gitignore
	}
	if cmd.Flags().Changed("max-file-size") {
		size := uint64(0)
		if f.maxFileSize != "0" && f.maxFileSize != "" {
			if size, err = humanize.ParseBytes(f.maxFileSize); err != nil {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid --max-file-size %q", f.maxFileSize), err)
			}
		}
		req.MaxFileSize = size
	}

	if err := loader.ValidateConfig(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid options", err)
	}

	if req.OutputFormat != domain.OutputFormatText && req.OutputFormat != "" {
		// progress bars only accompany text output
		req.ShowProgress = false
	}

	return &commandContext{
		cfg:       cfg,
		req:       req,
		logger:    slog.Default(),
		formatter: service.NewOutputFormatter().WithColor(!req.NoColor),
		progress:  service.NewProgressManager(req.ShowProgress),
	}, nil
}

// defaultPaths returns args, or the current directory when none are given
func defaultPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
