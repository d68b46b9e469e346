package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/internal/config"
	"github.com/ludo-technologies/jsast/internal/parser"
	"github.com/ludo-technologies/jsast/internal/version"
)

// ParseServiceImpl implements domain.ParseService
type ParseServiceImpl struct {
	performance *config.PerformanceConfig
	progress    domain.ProgressManager
	logger      *slog.Logger
}

// NewParseService creates a parse service with default performance settings
func NewParseService() *ParseServiceImpl {
	return NewParseServiceWithConfig(&config.DefaultConfig().Performance, nil, nil)
}

// NewParseServiceWithConfig creates a parse service. A nil progress manager
// disables progress reporting and a nil logger uses slog.Default.
func NewParseServiceWithConfig(perf *config.PerformanceConfig, progress domain.ProgressManager, logger *slog.Logger) *ParseServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	return &ParseServiceImpl{
		performance: perf,
		progress:    progress,
		logger:      logger,
	}
}

// parseOptions are the request fields resolved once per run
type parseOptions struct {
	sourceType parser.SourceType
	walk       parser.WalkOptions
	comments   bool
	nodes      bool
	maxSize    uint64
}

func resolveOptions(req domain.ParseRequest) (parseOptions, error) {
	opts := parseOptions{
		comments: req.ShowComments,
		nodes:    req.ShowTree,
		maxSize:  req.MaxFileSize,
	}

	if req.SourceType != "" {
		st, err := parser.ParseSourceType(req.SourceType)
		if err != nil {
			return opts, domain.NewInvalidInputError("invalid source type", err)
		}
		opts.sourceType = st
	}

	order, err := parser.ParseOrder(req.WalkOrder)
	if err != nil {
		return opts, domain.NewInvalidInputError("invalid walk order", err)
	}
	if req.MaxDepth < 0 {
		return opts, domain.NewValidationError(fmt.Sprintf("max depth cannot be negative, got %d", req.MaxDepth))
	}
	opts.walk = parser.WalkOptions{Order: order, MaxDepth: req.MaxDepth}
	return opts, nil
}

// parseTask parses one file on the executor and keeps its result
type parseTask struct {
	service *ParseServiceImpl
	path    string
	opts    parseOptions
	result  *domain.FileParseResult
}

func (t *parseTask) Name() string    { return t.path }
func (t *parseTask) IsEnabled() bool { return true }

func (t *parseTask) Execute(ctx context.Context) (interface{}, error) {
	result, err := t.service.parseFile(ctx, t.path, t.opts)
	if err != nil {
		return nil, err
	}
	t.result = result
	return result, nil
}

// Parse parses every file in req.Paths concurrently. Per-file failures are
// reported in the response's Errors; only invalid requests and cancellation
// fail the call.
func (s *ParseServiceImpl) Parse(ctx context.Context, req domain.ParseRequest) (*domain.ParseResponse, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no files to parse", nil)
	}
	opts, err := resolveOptions(req)
	if err != nil {
		return nil, err
	}

	tasks := make([]*parseTask, len(req.Paths))
	executable := make([]domain.ExecutableTask, len(req.Paths))
	for i, path := range req.Paths {
		tasks[i] = &parseTask{service: s, path: path, opts: opts}
		executable[i] = tasks[i]
	}

	progress := domain.ProgressManager(&NoOpProgressManager{})
	if req.ShowProgress {
		progress = s.progress
	}
	executor := NewParallelExecutorWithProgress(s.performance, progress).WithLogger(s.logger)

	response := &domain.ParseResponse{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.GetVersion(),
	}

	if err := executor.Execute(ctx, executable); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		agg, ok := err.(*AggregatedError)
		if !ok {
			return nil, err
		}
		for _, te := range agg.Errors {
			response.Errors = append(response.Errors, te.Error())
		}
	}

	for _, t := range tasks {
		if t.result == nil {
			continue
		}
		response.Files = append(response.Files, *t.result)
		response.Summary.Add(*t.result)
		if t.result.Skipped {
			response.Warnings = append(response.Warnings, fmt.Sprintf("%s: %s", t.path, t.result.SkipReason))
		}
	}

	return response, nil
}

// ParseFile parses a single file
func (s *ParseServiceImpl) ParseFile(ctx context.Context, filePath string, req domain.ParseRequest) (*domain.FileParseResult, error) {
	opts, err := resolveOptions(req)
	if err != nil {
		return nil, err
	}
	return s.parseFile(ctx, filePath, opts)
}

func (s *ParseServiceImpl) parseFile(ctx context.Context, path string, opts parseOptions) (*domain.FileParseResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		s.logger.Warn("cannot stat file", slog.String("path", path), slog.Any("error", err))
		return nil, domain.NewFileNotFoundError(path, err)
	}

	st := opts.sourceType
	if st == "" {
		st = parser.SourceTypeFromPath(path)
	}

	if opts.maxSize > 0 && uint64(info.Size()) > opts.maxSize {
		s.logger.Warn("skipping large file",
			slog.String("path", path),
			slog.Int64("size", info.Size()),
			slog.Uint64("limit", opts.maxSize))
		return &domain.FileParseResult{
			FilePath:   path,
			SourceType: string(st),
			Skipped:    true,
			SkipReason: fmt.Sprintf("file size %s exceeds limit %s",
				humanize.Bytes(uint64(info.Size())), humanize.Bytes(opts.maxSize)),
		}, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("cannot read file", slog.String("path", path), slog.Any("error", err))
		return nil, domain.NewParseError(path, err)
	}

	p, err := parser.NewParser(st)
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}
	defer p.Close()

	result, err := p.WithLogger(s.logger.With(slog.String("path", path))).Parse(ctx, source)
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}

	return buildFileResult(path, source, result, opts), nil
}

// buildFileResult converts a parser result into its domain representation
func buildFileResult(path string, source []byte, result *parser.ParseResult, opts parseOptions) *domain.FileParseResult {
	out := &domain.FileParseResult{
		FilePath:   path,
		SourceType: string(result.SourceType),
		Valid:      result.IsValid(),
		Lines:      result.Lines,
		Bytes:      len(source),
		Stats:      CollectNodeStats(result.Program),
	}

	for _, d := range result.Errors {
		out.Diagnostics = append(out.Diagnostics, domain.Diagnostic{
			Message:  d.Message,
			Line:     d.Line,
			Start:    d.Span.Start,
			End:      d.Span.End,
			Severity: string(d.Severity),
		})
	}

	if opts.comments {
		for _, c := range result.Comments {
			out.Comments = append(out.Comments, domain.CommentInfo{
				Text:  c.Text,
				Line:  c.Line,
				Block: c.IsBlock,
			})
		}
	}

	if opts.nodes {
		out.Nodes = ListNodes(result.Program, opts.walk)
	}

	return out
}
