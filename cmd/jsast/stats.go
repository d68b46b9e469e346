package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/service"
	"github.com/spf13/cobra"
)

// statsReport is the machine-readable form of `jsast stats`
type statsReport struct {
	Summary domain.ParseSummary `json:"summary" yaml:"summary"`
	Kinds   []domain.KindCount  `json:"kinds" yaml:"kinds"`
}

func statsCmd() *cobra.Command {
	opts := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "stats [path...]",
		Short: "Show node-kind statistics",
		Long: `Parse files and print how often each node kind occurs, together with
file, line and depth totals.

Examples:
  jsast stats src/
  jsast stats --format json .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts, defaultPaths(args))
		},
	}

	opts.bindFormatFlag(cmd)
	opts.bindSourceFlags(cmd)

	return cmd
}

func runStats(cmd *cobra.Command, opts *requestFlags, paths []string) error {
	cc, err := resolveRequest(cmd, opts, paths)
	if err != nil {
		return err
	}
	defer cc.Close()

	format := cc.req.OutputFormat
	req := *cc.req
	req.OutputWriter = nil
	req.ShowComments = false
	req.ShowTree = false

	uc, err := cc.useCase()
	if err != nil {
		return err
	}
	response, err := uc.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case domain.OutputFormatJSON:
		return service.WriteJSON(out, statsReport{Summary: response.Summary, Kinds: domain.SortedKinds(response.Summary.Kinds)})
	case domain.OutputFormatYAML:
		return service.WriteYAML(out, statsReport{Summary: response.Summary, Kinds: domain.SortedKinds(response.Summary.Kinds)})
	}

	s := response.Summary
	cc.formatter.WriteKinds(response, out)
	fmt.Fprintf(out, "\n%d files (%d invalid, %d skipped), %s lines, %s nodes, max depth %d, %s generic\n",
		s.TotalFiles, s.InvalidFiles, s.SkippedFiles,
		humanize.Comma(int64(s.TotalLines)), humanize.Comma(int64(s.TotalNodes)),
		s.MaxDepth, humanize.Comma(int64(s.GenericNodes)))
	return nil
}
