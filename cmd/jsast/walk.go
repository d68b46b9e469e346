package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func walkCmd() *cobra.Command {
	opts := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "walk <file>",
		Short: "Print the nodes of one file in walk order",
		Long: `Print every node of a file together with its depth, line range and name,
in pre-order (depth-first) or level order (breadth-first).

Examples:
  jsast walk src/index.ts
  jsast walk --order level --max-depth 2 src/index.ts
  jsast walk --format table src/app.jsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWalk(cmd, opts, args[0])
		},
	}

	opts.bindFormatFlag(cmd)
	opts.bindWalkFlags(cmd)
	cmd.Flags().StringVarP(&opts.sourceType, "source-type", "t", "",
		"Grammar: module, script, jsx, ts, typescript, tsx (default: by file extension)")

	return cmd
}

func runWalk(cmd *cobra.Command, opts *requestFlags, path string) error {
	cc, err := resolveRequest(cmd, opts, []string{path})
	if err != nil {
		return err
	}
	defer cc.Close()

	uc, err := cc.useCase()
	if err != nil {
		return err
	}

	result, err := uc.WalkFile(cmd.Context(), path, *cc.req)
	if err != nil {
		return err
	}

	if !result.Valid {
		cc.logger.Warn("file has syntax errors; the tree contains error-recovery nodes",
			slog.String("path", path),
			slog.Int("diagnostics", len(result.Diagnostics)))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: %s\n", path, d.Line, d.Message)
		}
	}

	return cc.formatter.WriteNodes(result.Nodes, cc.req.OutputFormat, cmd.OutOrStdout())
}
