package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ludo-technologies/jsast/domain"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl implements domain.OutputFormatter. When colors are
// enabled, text output still defers to fatih/color's terminal detection.
type OutputFormatterImpl struct {
	colorize bool
}

// NewOutputFormatter creates a formatter with colors enabled
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{colorize: true}
}

// WithColor enables or disables ANSI colors in text output
func (f *OutputFormatterImpl) WithColor(enabled bool) *OutputFormatterImpl {
	f.colorize = enabled
	return f
}

// WriteJSON writes data as indented JSON
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write renders the parse response in the given format
func (f *OutputFormatterImpl) Write(response *domain.ParseResponse, format domain.OutputFormat, writer io.Writer) error {
	var err error
	switch format {
	case domain.OutputFormatText, "":
		err = f.writeText(response, writer)
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, response)
	case domain.OutputFormatTable:
		err = f.writeTable(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// WriteNodes renders a single walk listing
func (f *OutputFormatterImpl) WriteNodes(entries []domain.NodeEntry, format domain.OutputFormat, writer io.Writer) error {
	var err error
	switch format {
	case domain.OutputFormatText, "":
		f.writeTree(entries, writer, "")
	case domain.OutputFormatJSON:
		err = WriteJSON(writer, entries)
	case domain.OutputFormatYAML:
		err = WriteYAML(writer, entries)
	case domain.OutputFormatTable:
		tbl := newTable(writer)
		tbl.AppendHeader(table.Row{"Depth", "Type", "Name", "Lines", "Span"})
		for _, e := range entries {
			tbl.AppendRow(table.Row{e.Depth, e.Type, e.Name, lineRange(e.StartLine, e.EndLine), fmt.Sprintf("[%d, %d)", e.Start, e.End)})
		}
		tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d nodes", len(entries))})
		tbl.Render()
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
	if err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// WriteKinds renders the node-kind histogram of a response as a table
func (f *OutputFormatterImpl) WriteKinds(response *domain.ParseResponse, writer io.Writer) {
	kinds := domain.SortedKinds(response.Summary.Kinds)
	total := response.Summary.TotalNodes

	tbl := newTable(writer)
	tbl.SetTitle("Node kinds")
	tbl.AppendHeader(table.Row{"Kind", "Count", "Share"})
	for _, kc := range kinds {
		share := 0.0
		if total > 0 {
			share = float64(kc.Count) * 100 / float64(total)
		}
		tbl.AppendRow(table.Row{kc.Kind, humanize.Comma(int64(kc.Count)), fmt.Sprintf("%.1f%%", share)})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d kinds", len(kinds)), humanize.Comma(int64(total)), ""})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	tbl.Render()
}

func newTable(writer io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	return tbl
}

// palette holds the colors used by text output
type palette struct {
	ok, bad, warn, header, faint, kind *color.Color
}

func (f *OutputFormatterImpl) palette() palette {
	p := palette{
		ok:     color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
		warn:   color.New(color.FgYellow),
		header: color.New(color.Bold),
		faint:  color.New(color.Faint),
		kind:   color.New(color.FgCyan),
	}
	if !f.colorize {
		for _, c := range []*color.Color{p.ok, p.bad, p.warn, p.header, p.faint, p.kind} {
			c.DisableColor()
		}
	}
	return p
}

func (f *OutputFormatterImpl) writeText(response *domain.ParseResponse, w io.Writer) error {
	p := f.palette()

	p.header.Fprintf(w, "=== jsast Parse Report ===\n")
	fmt.Fprintf(w, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(w, "Version: %s\n\n", response.Version)

	for _, file := range response.Files {
		switch {
		case file.Skipped:
			p.warn.Fprintf(w, "- %s", file.FilePath)
			fmt.Fprintf(w, " skipped: %s\n", file.SkipReason)
			continue
		case file.Valid:
			p.ok.Fprintf(w, "✓ %s", file.FilePath)
		default:
			p.bad.Fprintf(w, "✗ %s", file.FilePath)
		}
		fmt.Fprintf(w, " (%s, %d lines, %s, %s nodes, depth %d)\n",
			file.SourceType, file.Lines, humanize.Bytes(uint64(file.Bytes)),
			humanize.Comma(int64(file.Stats.TotalNodes)), file.Stats.MaxDepth)

		for _, d := range file.Diagnostics {
			p.bad.Fprintf(w, "    %s", d.Severity)
			fmt.Fprintf(w, " line %d [%d, %d): %s\n", d.Line, d.Start, d.End, d.Message)
		}
		for _, c := range file.Comments {
			kind := "//"
			if c.Block {
				kind = "/*"
			}
			p.faint.Fprintf(w, "    line %d %s %s\n", c.Line, kind, strings.TrimSpace(c.Text))
		}
		if len(file.Nodes) > 0 {
			f.writeTree(file.Nodes, w, "    ")
		}
	}

	s := response.Summary
	fmt.Fprintln(w)
	p.header.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Files: %d (valid %d, invalid %d, skipped %d)\n",
		s.TotalFiles, s.ValidFiles, s.InvalidFiles, s.SkippedFiles)
	fmt.Fprintf(w, "  Lines: %s (%s)\n", humanize.Comma(int64(s.TotalLines)), humanize.Bytes(uint64(s.TotalBytes)))
	fmt.Fprintf(w, "  Nodes: %s (max depth %d)\n", humanize.Comma(int64(s.TotalNodes)), s.MaxDepth)
	fmt.Fprintf(w, "  Diagnostics: %d\n", s.TotalDiagnostics)
	fmt.Fprintf(w, "  Comments: %d\n", s.TotalComments)

	if len(response.Warnings) > 0 {
		p.warn.Fprintf(w, "\nWarnings:\n")
		for _, warning := range response.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
	if len(response.Errors) > 0 {
		p.bad.Fprintf(w, "\nErrors:\n")
		for _, e := range response.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	return nil
}

// writeTree prints one indented line per node
func (f *OutputFormatterImpl) writeTree(entries []domain.NodeEntry, w io.Writer, indent string) {
	p := f.palette()
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s", indent, strings.Repeat("  ", e.Depth))
		p.kind.Fprint(w, e.Type)
		if e.Name != "" {
			fmt.Fprintf(w, " %s", e.Name)
		}
		p.faint.Fprintf(w, " %s\n", lineRange(e.StartLine, e.EndLine))
	}
}

func (f *OutputFormatterImpl) writeTable(response *domain.ParseResponse, w io.Writer) error {
	tbl := newTable(w)
	tbl.SetTitle("Files")
	tbl.AppendHeader(table.Row{"File", "Type", "Status", "Lines", "Nodes", "Depth", "Diagnostics"})
	for _, file := range response.Files {
		status := "valid"
		switch {
		case file.Skipped:
			status = "skipped"
		case !file.Valid:
			status = "invalid"
		}
		tbl.AppendRow(table.Row{
			file.FilePath, file.SourceType, status, file.Lines,
			humanize.Comma(int64(file.Stats.TotalNodes)), file.Stats.MaxDepth, len(file.Diagnostics),
		})
	}
	s := response.Summary
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d files", s.TotalFiles), "", fmt.Sprintf("%d invalid", s.InvalidFiles),
		s.TotalLines, humanize.Comma(int64(s.TotalNodes)), s.MaxDepth, s.TotalDiagnostics,
	})
	tbl.Render()

	if len(s.Kinds) > 0 {
		fmt.Fprintln(w)
		f.WriteKinds(response, w)
	}
	return nil
}

func lineRange(start, end int) string {
	if start == end {
		return fmt.Sprintf("L%d", start)
	}
	return fmt.Sprintf("L%d-%d", start, end)
}
