package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type parseOptions struct {
	requestFlags
	tree     bool
	comments bool
	strict   bool
}

func parseCmd() *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [path...]",
		Short: "Parse JavaScript/TypeScript files and report syntax trees",
		Long: `Parse JavaScript, JSX, TypeScript and TSX files and report, per file,
whether it parsed cleanly, its diagnostics, comments and node statistics.

Directories are scanned for source files; the current directory is used
when no path is given.

Examples:
  jsast parse src/
  jsast parse --tree --max-depth 3 src/index.ts
  jsast parse --format json --comments src/
  jsast parse --source-type tsx legacy/widget.js
  jsast parse --strict .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, defaultPaths(args))
		},
	}

	opts.bindFormatFlag(cmd)
	opts.bindSourceFlags(cmd)
	opts.bindWalkFlags(cmd)
	cmd.Flags().BoolVar(&opts.tree, "tree", false,
		"Print the walked node tree of every file")
	cmd.Flags().BoolVar(&opts.comments, "comments", false,
		"Include comments in the report")
	cmd.Flags().BoolVar(&opts.strict, "strict", false,
		"Exit with status 1 when any file has syntax errors")

	return cmd
}

func runParse(cmd *cobra.Command, opts *parseOptions, paths []string) error {
	cc, err := resolveRequest(cmd, &opts.requestFlags, paths)
	if err != nil {
		return err
	}
	defer cc.Close()

	if opts.tree {
		cc.req.ShowTree = true
	}
	if cmd.Flags().Changed("comments") {
		cc.req.ShowComments = opts.comments
	}

	uc, err := cc.useCase()
	if err != nil {
		return err
	}

	response, err := uc.Execute(cmd.Context(), *cc.req)
	if err != nil {
		return err
	}

	if opts.strict && response.HasInvalidFiles() {
		return &ExitError{
			Code:    1,
			Message: fmt.Sprintf("%d of %d files have syntax errors", response.Summary.InvalidFiles, response.Summary.TotalFiles),
		}
	}
	return nil
}
